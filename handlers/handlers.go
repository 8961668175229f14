package handlers

import (
	"errors"
	"net/http"

	"quizdeck/services"

	"github.com/gin-gonic/gin"
)

// currentUserID pulls the authenticated user id the auth middleware stored on
// the context.
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	return userID.(uint), true
}

// handleServiceError maps service sentinel errors onto HTTP statuses. Unknown
// errors surface as a generic 500 without internal detail.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrNotShared):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrBadRequest),
		errors.Is(err, services.ErrInvalidTarget),
		errors.Is(err, services.ErrMissingTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

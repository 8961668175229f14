package handlers

import (
	"net/http"

	"quizdeck/services"

	"github.com/gin-gonic/gin"
)

type VisibilityHandler struct {
	visibilityService *services.VisibilityService
}

func NewVisibilityHandler(visibilityService *services.VisibilityService) *VisibilityHandler {
	return &VisibilityHandler{
		visibilityService: visibilityService,
	}
}

func (h *VisibilityHandler) SetPublic(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.visibilityService.SetPublic(userID, req.TargetType, req.TargetID, *req.Enabled); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *VisibilityHandler) SetShare(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.visibilityService.SetShare(userID, req.TargetType, req.TargetID, *req.Enabled); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *VisibilityHandler) GetShareCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	code, err := h.visibilityService.GetShareCode(userID, c.Param("targetType"), targetID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": code})
}

func (h *VisibilityHandler) Claim(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.visibilityService.Claim(userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *VisibilityHandler) RevokeAccess(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.RevokeAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.visibilityService.RevokeAccess(userID, &req); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *VisibilityHandler) ListPublicClasses(c *gin.Context) {
	classes, err := h.visibilityService.ListPublicClasses()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

func (h *VisibilityHandler) ListPublicQuizzes(c *gin.Context) {
	quizzes, err := h.visibilityService.ListPublicQuizzes()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func (h *VisibilityHandler) ListSharedClasses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	classes, err := h.visibilityService.ListSharedClasses(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

func (h *VisibilityHandler) ListSharedQuizzes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	quizzes, err := h.visibilityService.ListSharedQuizzes(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

package handlers

import (
	"net/http"
	"strconv"

	"quizdeck/services"

	"github.com/gin-gonic/gin"
)

type ClassHandler struct {
	classService *services.ClassService
	quizService  *services.QuizService
	chatService  *services.ChatService
}

func NewClassHandler(classService *services.ClassService, quizService *services.QuizService, chatService *services.ChatService) *ClassHandler {
	return &ClassHandler{
		classService: classService,
		quizService:  quizService,
		chatService:  chatService,
	}
}

func (h *ClassHandler) CreateClass(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	class, err := h.classService.CreateClass(userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, class)
}

func (h *ClassHandler) GetUserClasses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	classes, err := h.classService.GetUserClasses(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, classes)
}

func (h *ClassHandler) GetClassByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	classID, ok := pathID(c, "id")
	if !ok {
		return
	}

	class, err := h.classService.GetClassByID(userID, classID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, class)
}

func (h *ClassHandler) UpdateClass(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	classID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	class, err := h.classService.UpdateClass(userID, classID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, class)
}

func (h *ClassHandler) DeleteClass(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	classID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.classService.DeleteClass(userID, classID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Class deleted successfully"})
}

func (h *ClassHandler) GetClassQuizzes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	classID, ok := pathID(c, "id")
	if !ok {
		return
	}

	quizzes, err := h.quizService.GetClassQuizzes(userID, classID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

func (h *ClassHandler) GetClassMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	classID, ok := pathID(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	messages, err := h.chatService.GetRecentMessages(userID, classID, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

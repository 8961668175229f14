package handlers

import (
	"net/http"
	"strconv"

	"quizdeck/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService    *services.QuizService
	sessionService *services.SessionService
}

func NewQuizHandler(quizService *services.QuizService, sessionService *services.SessionService) *QuizHandler {
	return &QuizHandler{
		quizService:    quizService,
		sessionService: sessionService,
	}
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.CreateQuiz(userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) GetUserQuizzes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	quizzes, err := h.quizService.GetUserQuizzes(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) GetQuizByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizService.GetQuizByID(userID, quizID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.UpdateQuiz(userID, quizID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.DeleteQuiz(userID, quizID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted successfully"})
}

func (h *QuizHandler) GetQuizSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}

	sessions, err := h.sessionService.GetQuizSessions(userID, quizID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

func (h *QuizHandler) GetQuizLeaderboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	quizID, ok := pathID(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	entries, err := h.sessionService.GetLeaderboard(userID, quizID, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

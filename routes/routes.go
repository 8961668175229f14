package routes

import (
	"log"
	"net/http"
	"strconv"

	"quizdeck/handlers"
	"quizdeck/middleware"
	"quizdeck/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	classHandler *handlers.ClassHandler,
	quizHandler *handlers.QuizHandler,
	visibilityHandler *handlers.VisibilityHandler,
	sessionHandler *handlers.SessionHandler,
	hub *services.Hub,
	accessService *services.AccessService,
	authService *services.AuthService,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			// User profile
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Class routes
			classes := protected.Group("/classes")
			{
				classes.GET("", classHandler.GetUserClasses)
				classes.POST("", classHandler.CreateClass)
				classes.GET("/:id", classHandler.GetClassByID)
				classes.PUT("/:id", classHandler.UpdateClass)
				classes.DELETE("/:id", classHandler.DeleteClass)
				classes.GET("/:id/quizzes", classHandler.GetClassQuizzes)
				classes.GET("/:id/messages", classHandler.GetClassMessages)
			}

			// Quiz routes
			quizzes := protected.Group("/quizzes")
			{
				quizzes.GET("", quizHandler.GetUserQuizzes)
				quizzes.POST("", quizHandler.CreateQuiz)
				quizzes.GET("/:id", quizHandler.GetQuizByID)
				quizzes.PUT("/:id", quizHandler.UpdateQuiz)
				quizzes.DELETE("/:id", quizHandler.DeleteQuiz)
				quizzes.GET("/:id/sessions", quizHandler.GetQuizSessions)
				quizzes.GET("/:id/leaderboard", quizHandler.GetQuizLeaderboard)
			}

			// Visibility routes
			visibility := protected.Group("/visibility")
			{
				visibility.POST("/public", visibilityHandler.SetPublic)
				visibility.POST("/share", visibilityHandler.SetShare)
				visibility.GET("/share/:targetType/:id", visibilityHandler.GetShareCode)
				visibility.POST("/claim", visibilityHandler.Claim)
				visibility.DELETE("/access", visibilityHandler.RevokeAccess)
				visibility.GET("/public/classes", visibilityHandler.ListPublicClasses)
				visibility.GET("/public/quizzes", visibilityHandler.ListPublicQuizzes)
				visibility.GET("/shared/classes", visibilityHandler.ListSharedClasses)
				visibility.GET("/shared/quizzes", visibilityHandler.ListSharedQuizzes)
			}

			// Session submission
			protected.POST("/sessions/submit", sessionHandler.Submit)
		}
	}

	// WebSocket endpoint for class chat rooms. The token travels as a query
	// parameter because browsers cannot set headers on websocket upgrades.
	router.GET("/ws/classes/:id", func(c *gin.Context) {
		classID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
			return
		}

		userID, err := middleware.ParseUserID(c.Query("token"), jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		readable, err := accessService.CanReadClass(userID, uint(classID))
		if err != nil || !readable {
			log.Printf("Chat access denied for user %d on class %d: %v", userID, classID, err)
			c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to join this class chat"})
			return
		}

		user, err := authService.GetProfile(userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for class %d, user %d: %v", classID, userID, err)
			return
		}

		log.Printf("Chat connection established for class %d, user %d (%s)", classID, userID, user.Name)
		hub.RegisterClient(conn, uint(classID), userID, user.Name)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

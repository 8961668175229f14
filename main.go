package main

import (
	"log"
	"quizdeck/config"
	"quizdeck/handlers"
	"quizdeck/middleware"
	"quizdeck/models"
	"quizdeck/routes"
	"quizdeck/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Class{},
		&models.Quiz{},
		&models.Question{},
		&models.PublicItem{},
		&models.ShareItem{},
		&models.SharedAccess{},
		&models.QuizSession{},
		&models.ChatMessage{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	accessService := services.NewAccessService(db)
	classService := services.NewClassService(db, accessService)
	quizService := services.NewQuizService(db, accessService)
	visibilityService := services.NewVisibilityService(db)
	sessionService := services.NewSessionService(db, redisClient, accessService)
	chatService := services.NewChatService(db, accessService)

	// Initialize WebSocket hub
	hub := services.NewHub(chatService)
	go hub.Run()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	classHandler := handlers.NewClassHandler(classService, quizService, chatService)
	quizHandler := handlers.NewQuizHandler(quizService, sessionService)
	visibilityHandler := handlers.NewVisibilityHandler(visibilityService)
	sessionHandler := handlers.NewSessionHandler(sessionService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, classHandler, quizHandler, visibilityHandler, sessionHandler, hub, accessService, authService, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

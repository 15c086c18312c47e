package main

import (
	"log"
	"time"

	"studyquiz/config"
	"studyquiz/handlers"
	"studyquiz/middleware"
	"studyquiz/models"
	"studyquiz/routes"
	"studyquiz/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
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
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Backfill due_at on rows that predate scheduling: an unset due_at
	// means immediately due.
	if err := normalizeDueAt(db); err != nil {
		log.Fatal("Failed to normalize question schedules:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	quizService := services.NewQuizService(db)
	questionService := services.NewQuestionService(db)
	sessionService := services.NewSessionService(db, redisClient, questionService)
	statsService := services.NewStatsService(db, questionService)
	backupService := services.NewBackupService(db)

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(quizService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	sessionHandler := handlers.NewSessionHandler(sessionService, hub)
	statsHandler := handlers.NewStatsHandler(statsService)
	backupHandler := handlers.NewBackupHandler(backupService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, quizHandler, questionHandler,
		sessionHandler, statsHandler, backupHandler, hub, sessionService, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func normalizeDueAt(db *gorm.DB) error {
	return db.Model(&models.Question{}).
		Where("due_at IS NULL OR due_at <= 0").
		Update("due_at", time.Now().UnixMilli()).Error
}

package routes

import (
	"log"
	"net/http"

	"studyquiz/handlers"
	"studyquiz/middleware"
	"studyquiz/services"

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
	quizHandler *handlers.QuizHandler,
	questionHandler *handlers.QuestionHandler,
	sessionHandler *handlers.SessionHandler,
	statsHandler *handlers.StatsHandler,
	backupHandler *handlers.BackupHandler,
	hub *services.Hub,
	sessionService *services.SessionService,
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

			// Quiz routes
			quizzes := protected.Group("/quizzes")
			{
				quizzes.GET("", quizHandler.GetUserQuizzes)
				quizzes.POST("", quizHandler.CreateQuiz)
				quizzes.GET("/:id", quizHandler.GetQuizByID)
				quizzes.PUT("/:id", quizHandler.UpdateQuiz)
				quizzes.DELETE("/:id", quizHandler.DeleteQuiz)
				quizzes.GET("/:id/count", quizHandler.GetQuestionCount)
				quizzes.GET("/:id/questions", questionHandler.GetQuestionsByQuiz)
				quizzes.POST("/:id/questions", questionHandler.CreateQuestion)
			}

			// Question routes
			questions := protected.Group("/questions")
			{
				questions.GET("/:id", questionHandler.GetQuestion)
				questions.PUT("/:id", questionHandler.UpdateQuestion)
				questions.DELETE("/:id", questionHandler.DeleteQuestion)
				questions.PUT("/:id/options", questionHandler.ReplaceOptions)
			}

			// Study session routes
			sessions := protected.Group("/sessions")
			{
				sessions.POST("", sessionHandler.StartSession)
				sessions.GET("/:token", sessionHandler.GetSession)
				sessions.POST("/:token/answer", sessionHandler.SubmitAnswer)
				sessions.POST("/:token/next", sessionHandler.Advance)
				sessions.DELETE("/:token", sessionHandler.Abandon)
			}

			// Lifetime statistics
			protected.GET("/stats", statsHandler.GetOverview)

			// Backup routes
			backup := protected.Group("/backup")
			{
				backup.GET("/export", backupHandler.Export)
				backup.POST("/import", backupHandler.Import)
			}
		}
	}

	// WebSocket endpoint for real-time session events. The session token
	// is an unguessable capability minted by StartSession, so possession
	// of it is the access check.
	router.GET("/ws/:token", func(c *gin.Context) {
		token := c.Param("token")

		if err := validateSessionAccess(sessionService, token); err != nil {
			log.Printf("Session access validation failed for %s: %v", token, err)
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}

		// Upgrade HTTP connection to WebSocket
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for session %s: %v", token, err)
			return
		}

		log.Printf("WebSocket connection established for session %s", token)

		// Register client with hub - this will handle all message processing
		hub.RegisterClient(conn, token, 0)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// validateSessionAccess checks that a study session exists for the token.
func validateSessionAccess(sessionService *services.SessionService, token string) error {
	return sessionService.SessionExists(token)
}

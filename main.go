package main

import (
	"log"
	"os"
	"time"
	"volunhub/database"
	"volunhub/handlers"
	"volunhub/handlers/admin"
	"volunhub/middleware"
	"volunhub/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Wire engine services into the HTTP layer
	handlers.InitHandlers()

	// Background worker closing tasks past their end date
	services.InitCloserService(5 * time.Minute)
	defer func() {
		if closer := services.GetCloserService(); closer != nil {
			closer.Stop()
		}
	}()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.FiberRateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.FiberAuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)
	authGroup.Get("/me", middleware.AuthMiddleware, handlers.GetCurrentUser)

	// Public task browsing
	api.Get("/tasks", handlers.GetTasks)
	api.Get("/tasks/:id", handlers.GetTask)

	// Badge catalog
	api.Get("/badges", handlers.GetBadgeCatalog)

	// Leaderboard
	api.Get("/leaderboard", handlers.GetLeaderboard)

	// Volunteer-facing engine operations require an approved account
	taskGroup := api.Group("/tasks")
	taskGroup.Use(middleware.AuthMiddleware, middleware.ApprovedMiddleware)
	taskGroup.Post("/:id/apply", handlers.ApplyToTask)
	taskGroup.Post("/:id/claim", handlers.ClaimTask)
	taskGroup.Post("/:id/withdraw", handlers.WithdrawFromTask)
	taskGroup.Post("/:id/proof", handlers.SubmitProof)

	participationGroup := api.Group("/participations")
	participationGroup.Use(middleware.AuthMiddleware, middleware.ApprovedMiddleware)
	participationGroup.Get("/", handlers.GetMyParticipations)

	// Progression routes
	progressionGroup := api.Group("/progression")
	progressionGroup.Use(middleware.AuthMiddleware)
	progressionGroup.Get("/", handlers.GetProgression)
	progressionGroup.Get("/badges", handlers.GetMyBadges)

	// Connection routes
	connectionGroup := api.Group("/connections")
	connectionGroup.Use(middleware.AuthMiddleware, middleware.ApprovedMiddleware)
	connectionGroup.Get("/", handlers.GetConnections)
	connectionGroup.Post("/:id", handlers.CreateConnection)

	// Notification routes
	notificationGroup := api.Group("/notifications")
	notificationGroup.Use(middleware.AuthMiddleware)
	notificationGroup.Get("/", handlers.GetNotifications)
	notificationGroup.Post("/read", handlers.MarkNotificationsRead)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AdminAuthMiddleware)
	adminGroup.Get("/users", admin.GetUsers)
	adminGroup.Post("/users/:id/approval", admin.SetUserApproval)

	adminGroup.Post("/tasks", admin.CreateTask)
	adminGroup.Put("/tasks/:id/status", admin.UpdateTaskStatus)
	adminGroup.Delete("/tasks/:id", admin.DeleteTask)
	adminGroup.Get("/tasks/:id/participants", admin.GetTaskParticipants)
	adminGroup.Post("/tasks/:id/accept", admin.AcceptParticipant)
	adminGroup.Post("/tasks/:id/complete", admin.CompleteParticipant)
	adminGroup.Delete("/tasks/:id/participants/:userId", admin.RemoveParticipant)

	adminGroup.Get("/proofs", admin.GetPendingProofs)
	adminGroup.Post("/proofs/:id/approve", admin.ApproveProof)
	adminGroup.Post("/proofs/:id/reject", admin.RejectProof)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

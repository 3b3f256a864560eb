package main

import (
	"log"
	"os"
	"time"

	"thywilluche/database"
	"thywilluche/handlers"
	"thywilluche/handlers/admin"
	"thywilluche/middleware"
	"thywilluche/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database (runs migrations)
	database.InitDB()

	// Optional redis cache for leaderboard pages
	services.InitRedis()

	// Live standings feed hub
	services.InitFeedHub()

	// Background leaderboard refresher
	services.InitLeaderboardService(database.GetDB())
	defer func() {
		if svc := services.GetLeaderboardService(); svc != nil {
			svc.Stop()
		}
	}()

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

	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)

	// Public game catalog
	api.Get("/games", handlers.GetGames)
	api.Get("/games/:id", handlers.GetGame)

	// Player entry routes
	api.Post("/games/:id/submissions", middleware.AuthMiddleware, handlers.SubmitEntry)

	// Current-user routes
	userGroup := api.Group("/users/me")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/submissions", handlers.GetMySubmissions)
	userGroup.Get("/rewards", handlers.GetMyRewards)

	// Leaderboard routes
	leaderboardGroup := api.Group("/leaderboard")
	leaderboardGroup.Get("/", handlers.GetLeaderboard)
	leaderboardGroup.Get("/user/:id", handlers.GetUserRank)

	// Live standings feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/leaderboard", websocket.New(services.LeaderboardFeedHandler))

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Post("/login", admin.Login)
	adminGroup.Post("/logout", admin.Logout)

	// Protected admin routes
	adminProtected := adminGroup.Group("")
	adminProtected.Use(middleware.AdminAuthMiddleware)
	adminProtected.Get("/verify", admin.VerifyToken)

	// Admin game management
	adminProtected.Get("/games", admin.GetGames)
	adminProtected.Post("/games", admin.CreateGame)
	adminProtected.Get("/games/:id", admin.GetGame)
	adminProtected.Put("/games/:id", admin.UpdateGame)
	adminProtected.Delete("/games/:id", admin.DeleteGame)

	// Admin submission review and rewards
	adminProtected.Get("/games/:id/submissions", admin.GetGameSubmissions)
	adminProtected.Post("/games/:id/winners", admin.SelectWinners)
	adminProtected.Post("/games/:id/rewards", admin.AwardRewards)

	// Admin badge management
	adminProtected.Get("/badges", admin.GetBadges)
	adminProtected.Post("/badges", admin.CreateBadge)
	adminProtected.Put("/badges/:id", admin.UpdateBadge)
	adminProtected.Delete("/badges/:id", admin.DeleteBadge)

	// Admin leaderboard maintenance
	adminProtected.Post("/leaderboard/refresh", admin.RefreshLeaderboard)

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
	log.Printf("🌐 Standings feed available at ws://localhost:%s/ws/leaderboard", port)

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

	if os.Getenv("APP_ENV") == "production" {
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
		"message": message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

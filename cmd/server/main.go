package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dinehub/internal/adapters/http/middleware"
	"dinehub/internal/adapters/http/routes"
	"dinehub/internal/adapters/persistence/models"
	"dinehub/internal/config"

	"github.com/gofiber/fiber/v2"

	_ "dinehub/docs" // Swagger docs
)

// @title DineHub Membership API
// @version 1.0
// @description Restaurant membership subscriptions with signed QR verification
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@dinehub.app

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "DineHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		// QR payloads and catalog bodies are a few hundred bytes
		BodyLimit: 64 * 1024,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	bg, err := routes.Setup(app, db, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to setup routes: %v", err)
	}

	// Expiration sweeper (daily at midnight UTC by default)
	if cfg.Sweep.Enabled {
		if err := bg.Expiration.Start(); err != nil {
			log.Fatalf("❌ Failed to start expiration sweeper: %v", err)
		}
		defer bg.Expiration.Stop()
	}

	stopCleanup := make(chan struct{})
	go bg.VerifyLimiter.Cleanup(stopCleanup)
	defer close(stopCleanup)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("❌ Failed to start server: %v", err)
	}
}

const shutdownTimeout = 15 * time.Second

// gracefulShutdown drains in-flight requests; the sweeper and database are
// stopped by main's deferred calls once Listen returns
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}

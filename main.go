package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/pixo-prints/pixo-backend/config"
	"github.com/pixo-prints/pixo-backend/database"
	"github.com/pixo-prints/pixo-backend/internal/handlers"
	"github.com/pixo-prints/pixo-backend/internal/jobs"
	"github.com/pixo-prints/pixo-backend/internal/middleware"
	"github.com/pixo-prints/pixo-backend/internal/models"
	"github.com/pixo-prints/pixo-backend/internal/routes"
	"github.com/pixo-prints/pixo-backend/internal/services"
	"github.com/pixo-prints/pixo-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}

	cfg := config.Load()

	if cfg.Gateway.KeyID == "" || cfg.Gateway.KeySecret == "" {
		log.Println("⚠️  Razorpay credentials not found - payments will fail")
	}
	if cfg.Admin.Password == "" || cfg.Admin.SessionSecret == "" {
		log.Println("⚠️  Admin credentials not fully configured - admin login disabled")
	}

	// Initialize storage
	var store storage.Store
	var db *gorm.DB

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		var err error
		db, err = database.Connect()
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}

		log.Println("🔄 Running database migrations...")
		err = db.AutoMigrate(
			&models.Order{},
			&models.OrderItem{},
			&models.OTP{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(db)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Notifier: Twilio when configured, log-only otherwise
	var notifier services.Notifier
	if twilioNotifier, err := services.NewTwilioNotifier(); err == nil {
		notifier = twilioNotifier
		log.Println("✅ Twilio notifier initialized")
	} else {
		notifier = services.LogNotifier{}
		log.Println("⚠️  Twilio not configured - notifications go to the log")
	}

	// Initialize all services
	gateway := services.NewRazorpayClient(&cfg.Gateway)
	orderService := services.NewOrderService(store, gateway, notifier, cfg.Gateway.Currency)
	webhookService := services.NewPaymentWebhookService(orderService)
	otpService := services.NewOTPService(store, cfg.OTP.TTL)
	sessionService := services.NewSessionService(&cfg.Admin)
	authService := services.NewAdminAuthService(&cfg.Admin, otpService, sessionService, notifier)

	// Background OTP purge
	cleanupJob := jobs.NewCleanupJob(store, 5*time.Minute)
	cleanupJob.Start()

	log.Println("✅ All services initialized")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Pixo Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Setup routes
	routes.SetupRoutes(app, routes.Deps{
		Orders:     handlers.NewOrderHandler(orderService, cfg.Gateway.KeyID),
		Payments:   handlers.NewPaymentHandler(orderService, webhookService),
		Admin:      handlers.NewAdminHandler(authService, orderService),
		Health:     handlers.NewHealthHandler(db),
		Sessions:   sessionService,
		Gateway:    gateway,
		OTPLimiter: middleware.NewRateLimiter(cfg.OTP.ValidateLimit, cfg.OTP.ValidateWindow),
	})

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		cleanupJob.Stop()
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 Pixo Backend starting on port %s", cfg.Server.Port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("🌍 Environment: %s", cfg.Server.Env)
	log.Printf("💳 Gateway: %s", getGatewayStatus(cfg.Gateway.KeyID))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + cfg.Server.Port))
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getGatewayStatus(keyID string) string {
	if keyID == "" {
		return "Not configured"
	}
	return "Configured"
}

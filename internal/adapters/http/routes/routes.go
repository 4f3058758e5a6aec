package routes

import (
	"fmt"

	"dinehub/internal/adapters/http/handlers"
	"dinehub/internal/adapters/http/middleware"
	"dinehub/internal/adapters/persistence/repositories"
	"dinehub/internal/config"
	"dinehub/internal/core/services"
	"dinehub/internal/pkg/metrics"
	"dinehub/internal/pkg/qrimage"
	"dinehub/internal/pkg/signature"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Background holds the long-running components main starts and stops
type Background struct {
	Expiration    *services.ExpirationService
	VerifyLimiter *middleware.TokenBucket
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) (*Background, error) {
	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	typeRepo := repositories.NewMembershipTypeRepository(db)
	membershipRepo := repositories.NewUserMembershipRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// QR signing
	signer, err := signature.NewSigner(cfg.QR.Secret)
	if err != nil {
		return nil, fmt.Errorf("qr signer: %w", err)
	}
	renderer := qrimage.NewRenderer(cfg.QR.ImageSize)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	typeService := services.NewMembershipTypeService(typeRepo, membershipRepo)
	membershipService := services.NewMembershipService(
		membershipRepo,
		typeRepo,
		userRepo,
		signer,
		renderer,
		m,
		cfg.QR,
	)
	expirationService := services.NewExpirationService(membershipRepo, notificationService, m, cfg.Sweep)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg, config.HealthCheck)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	typeHandler := handlers.NewMembershipTypeHandler(typeService)
	membershipHandler := handlers.NewMembershipHandler(membershipService, expirationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	verifyLimiter := middleware.NewTokenBucket(cfg.RateLimit)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, cfg)
	setupUserRoutes(apiV1.Group("/users", middleware.AuthMiddleware(cfg)), userHandler)
	setupMembershipTypeRoutes(apiV1.Group("/membership-types"), typeHandler, cfg)
	setupMembershipRoutes(apiV1.Group("/memberships", middleware.AuthMiddleware(cfg)), membershipHandler, verifyLimiter)
	setupNotificationRoutes(apiV1.Group("/notifications", middleware.AuthMiddleware(cfg)), notificationHandler)

	return &Background{
		Expiration:    expirationService,
		VerifyLimiter: verifyLimiter,
	}, nil
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(cfg), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(cfg), handler.Login)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
}

// setupUserRoutes configures profile and VIP routes (Authenticated)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/profile", middleware.NoCacheHeaders(), handler.GetProfile)
	router.Post("/vip-request", handler.SubmitVipRequest)

	// Admin only
	router.Get("/", middleware.AdminOnly(), handler.List)
	router.Get("/vip-requests", middleware.AdminOnly(), handler.ListVipRequests)
	router.Put("/:id/vip-approve", middleware.AdminOnly(), handler.ApproveVip)
}

// setupMembershipTypeRoutes configures the membership catalog; reads are public
func setupMembershipTypeRoutes(router fiber.Router, handler *handlers.MembershipTypeHandler, cfg *config.Config) {
	router.Get("/", middleware.OptionalAuth(cfg), middleware.CatalogCache(), handler.List)
	router.Get("/:id", middleware.OptionalAuth(cfg), middleware.CatalogCache(), handler.Get)

	adminRoutes := router.Group("", middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	adminRoutes.Post("/", handler.Create)
	adminRoutes.Put("/:id", handler.Update)
	adminRoutes.Delete("/:id", handler.Delete)
}

// setupMembershipRoutes configures membership routes (Authenticated)
func setupMembershipRoutes(router fiber.Router, handler *handlers.MembershipHandler, verifyLimiter *middleware.TokenBucket) {
	router.Post("/subscribe", handler.Subscribe)
	router.Get("/me", middleware.NoCacheHeaders(), handler.MyMemberships)

	// Admin only, registered before /:id; verify is the point-of-use scanner
	router.Post("/verify", middleware.AdminOnly(), verifyLimiter.Handler(), handler.Verify)
	router.Get("/", middleware.AdminOnly(), handler.List)
	router.Post("/sweep", middleware.AdminOnly(), handler.Sweep)
	router.Put("/:id/approve", middleware.AdminOnly(), handler.Approve)

	router.Get("/:id", middleware.NoCacheHeaders(), handler.GetMembership)
	router.Get("/:id/qr", middleware.NoCacheHeaders(), handler.TemporaryQR)
}

// setupNotificationRoutes configures notification routes (Authenticated)
func setupNotificationRoutes(router fiber.Router, handler *handlers.NotificationHandler) {
	router.Get("/", middleware.NoCacheHeaders(), handler.List)
	router.Patch("/:id/read", handler.MarkRead)
	router.Delete("/:id", handler.Delete)
}

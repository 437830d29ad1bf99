package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/authbase/identity-api/docs"
	"github.com/authbase/identity-api/internal/api/handler"
	"github.com/authbase/identity-api/internal/api/middleware"
	"github.com/authbase/identity-api/internal/core/domain"
	"github.com/authbase/identity-api/internal/core/ports"
	"github.com/authbase/identity-api/internal/core/service"
	"github.com/authbase/identity-api/internal/infrastructure/config"
	mongostore "github.com/authbase/identity-api/internal/infrastructure/db/mongo"
	redisstore "github.com/authbase/identity-api/internal/infrastructure/db/redis"
	"github.com/authbase/identity-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil, which disables login throttling and marks redis as absent
// in the readiness probe.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	hasher := service.NewBcryptHasher(0)
	var limiter ports.LoginLimiter
	if rdb != nil {
		limiter = redisstore.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
	}
	authService := service.NewAuthService(userRepo, hasher, limiter, cfg.JWTSecret, cfg.TokenTTL)
	userService := service.NewUserService(userRepo, log)
	authHandler := handler.NewAuthHandler(authService, userService)
	authMiddleware := middleware.Auth(cfg.JWTSecret, userRepo)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	roles := auth.Group("/roles", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	roles.POST("/:userId", authHandler.AddRole)
	roles.DELETE("/:userId/remove/:role", authHandler.RemoveRole)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}

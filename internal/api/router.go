package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/simpleusers/users-service/internal/api/handler"
	"github.com/simpleusers/users-service/internal/api/middleware"
	"github.com/simpleusers/users-service/internal/core/authz"
	"github.com/simpleusers/users-service/internal/core/ports"
)

// Dependencies is everything the HTTP layer needs from the composition root.
type Dependencies struct {
	Logger zerolog.Logger
	Users  ports.UserService
	Auth   ports.AuthService
	Tokens ports.TokenValidator
	Hasher ports.PasswordHasher
	// Checks are pinged by the readiness probe, keyed by dependency name.
	Checks map[string]handler.PingFunc
	// Swagger mounts the API docs UI at /swagger/*.
	Swagger bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(middleware.Metrics())

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users, deps.Hasher)
	authn := middleware.Auth(deps.Tokens)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)

	// --- User routes ---
	users := e.Group("/users")
	users.POST("", userHandler.Create, middleware.Authorize(authz.OpCreateUser))
	users.GET("", userHandler.List, authn, middleware.Authorize(authz.OpListUsers))
	users.GET("/:id", userHandler.Get, authn, middleware.Authorize(authz.OpGetUser))
	users.PUT("/:id", userHandler.Update, authn, middleware.Authorize(authz.OpUpdateUser))
	users.DELETE("/:id", userHandler.Delete, authn, middleware.Authorize(authz.OpDeleteUser))
	users.POST("/:id/address", userHandler.AddAddress, authn, middleware.Authorize(authz.OpAddAddress))
	users.DELETE("/:id/address", userHandler.RemoveAddress, authn, middleware.Authorize(authz.OpRemoveAddress))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if deps.Swagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e
}

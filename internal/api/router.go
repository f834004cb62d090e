package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/cumroad/commerce-soap/internal/api/handler"
	"github.com/cumroad/commerce-soap/internal/core/service"
	"github.com/cumroad/commerce-soap/internal/infrastructure/db/sqlite"
	"github.com/cumroad/commerce-soap/internal/pkg/config"
	"github.com/cumroad/commerce-soap/internal/soap"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *sql.DB, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("cumroad"))

	// --- Dependencies ---
	userRepo := sqlite.NewUserRepository(db)
	productRepo := sqlite.NewProductRepository(db)
	orderRepo := sqlite.NewOrderRepository(db)

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	userService := service.NewUserService(userRepo, tokenService, log)
	authService := service.NewAuthService(userRepo, tokenService, log)
	productService := service.NewProductService(productRepo, log)
	orderService := service.NewOrderService(orderRepo, productRepo, log)

	registry := soap.NewRegistry(userService, authService, productService, orderService)
	dispatcher := soap.NewDispatcher(registry, tokenService, log)
	log.Info().Int("operations", len(registry.Operations())).Msg("soap registry built")

	// --- SOAP endpoint ---
	soapHandler := handler.NewSoapHandler(dispatcher)
	wsdlHandler := handler.NewWsdlHandler()

	e.POST("/soap", soapHandler.Handle)
	e.GET("/soap", wsdlHandler.Serve) // service description for GET
	e.GET("/wsdl", wsdlHandler.Serve)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}

package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/velorent/rentalsync/internal/adapter/handler/http"
	"github.com/velorent/rentalsync/internal/config"
	"github.com/velorent/rentalsync/internal/domain/feed"
	"github.com/velorent/rentalsync/internal/infrastructure/database"
	"github.com/velorent/rentalsync/internal/middleware/auth"
	"github.com/velorent/rentalsync/internal/usecase"
)

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	repos  *database.Repositories
}

func NewServer(cfg *config.Config, logger *zap.Logger, repos *database.Repositories) *Server {
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST},
	}))

	return &Server{
		config: cfg,
		logger: logger,
		echo:   e,
		repos:  repos,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "rentalsync",
		})
	})

	location, err := time.LoadLocation(s.config.Sync.Timezone)
	if err != nil {
		s.logger.Warn("Unknown business timezone, using UTC",
			zap.String("timezone", s.config.Sync.Timezone))
		location = time.UTC
	}

	opts := usecase.Options{
		Location:        location,
		DefaultCurrency: s.config.Sync.DefaultCurrency,
		AllowedColumns:  s.config.Sync.BookingColumns,
	}
	vevsCfg := s.config.Sync.Feeds.VEVS
	ddCfg := s.config.Sync.Feeds.DreamDrives
	reconcilers := map[string]*usecase.Reconciler{
		feed.VEVS.Source: usecase.NewReconciler(s.repos,
			feed.VEVS.WithOverrides(vevsCfg.ReferencePrefix, vevsCfg.StatusPolicy, vevsCfg.NestedPayments), opts, s.logger),
		feed.DreamDrives.Source: usecase.NewReconciler(s.repos,
			feed.DreamDrives.WithOverrides(ddCfg.ReferencePrefix, ddCfg.StatusPolicy, ddCfg.NestedPayments), opts, s.logger),
	}

	portalHandler := handlers.NewPortalHandler(s.repos, s.logger)
	syncHandler := handlers.NewSyncHandler(reconcilers, s.repos.Booking, s.config.Sync.MaxReportedErrors, s.logger)

	// Customer-facing portal lookup; the token itself is the capability.
	s.echo.GET("/p/b/:token", portalHandler.GetBooking)

	// Admin routes require a bearer token.
	jwtConfig := auth.JWTConfig{
		Secret: s.config.Service.JWTSecret,
		Logger: s.logger,
	}
	v1 := s.echo.Group("/api/v1", auth.JWTMiddleware(jwtConfig))
	v1.POST("/sync/:source", syncHandler.Sync)
	v1.GET("/bookings/:reference", syncHandler.GetBooking)
}

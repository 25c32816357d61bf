package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"catalog-inventory/internal/config"
	"catalog-inventory/internal/database"
	"catalog-inventory/internal/media"
	"catalog-inventory/internal/metrics"
	custommiddleware "catalog-inventory/internal/middleware"
	"catalog-inventory/internal/repository"
	"catalog-inventory/internal/service"
	"catalog-inventory/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Resources are the external connections a server is built on
type Resources struct {
	DB      database.Service
	Redis   *redis.Client
	MediaFs afero.Fs
	Metrics *metrics.Metrics
}

type Server struct {
	*http.Server
	config    *config.Config
	logger    *zap.Logger
	resources Resources
	users     service.UserService
}

func NewServer(cfg *config.Config, logger *zap.Logger, res Resources) *Server {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack(logger)...)
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsDevelopment()))
	router.Use(res.Metrics.Middleware)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		dbHealth := res.DB.Health()
		health := map[string]interface{}{"database": dbHealth}
		status := http.StatusOK
		if dbHealth["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		if err := res.Redis.Ping(r.Context()).Err(); err != nil {
			health["redis"] = "down"
		} else {
			health["redis"] = "up"
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})
	router.Handle("/metrics", res.Metrics.Handler())

	// Initialize repositories
	store := repository.NewStore(res.DB.DBx())
	repos := store.Repos()

	// Initialize services
	storage := media.NewStorage(res.MediaFs, cfg.Media.Root, cfg.Media.BaseURL)
	deps := service.Deps{
		Store:   store,
		Storage: storage,
		Images:  media.NewValidator(cfg.Media.MaxImageBytes),
		Metrics: res.Metrics,
		Logger:  logger,
	}
	userService := service.NewUserService(repos.Users, repos.RefreshTokens, service.NewTokenConfig(cfg.JWT), logger)

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService, logger)
	adminHandler := transport.NewAdminHandler(transport.Services{
		Catalog:   service.NewCatalogService(deps),
		Variants:  service.NewVariantService(deps),
		Stock:     service.NewStockService(deps),
		Discounts: service.NewDiscountService(deps),
		Reviews:   service.NewReviewService(deps),
		Coupons:   service.NewCouponService(deps),
	}, logger)

	authMiddleware := custommiddleware.AuthMiddleware(userService, logger)
	rateLimit := custommiddleware.RateLimitMiddleware(res.Redis, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         "ratelimit",
	}, logger)

	// Register routes
	if route, ok := mediaRoute(cfg.Media.BaseURL); ok {
		router.Get(route, transport.MediaHandler(storage, logger))
	}
	userHandler.RegisterRoutes(router.With(rateLimit), authMiddleware)
	router.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(custommiddleware.RequireRole(custommiddleware.StaffRoles, logger))
		r.Use(rateLimit)
		adminHandler.RegisterRoutes(r)
	})

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:    cfg,
		logger:    logger,
		resources: res,
		users:     userService,
	}
}

// mediaRoute turns a local media base URL into a wildcard route. Absolute
// URLs point at an external file server and get no route.
func mediaRoute(baseURL string) (string, bool) {
	if !strings.HasPrefix(baseURL, "/") || baseURL == "/" {
		return "", false
	}
	return strings.TrimSuffix(baseURL, "/") + "/*", true
}

// EnsureAdmin seeds the configured admin account when none exists.
func (s *Server) EnsureAdmin(ctx context.Context) error {
	return s.users.EnsureAdmin(ctx, s.config.Admin)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.resources.Redis != nil {
		if err := s.resources.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.resources.DB != nil {
		if err := s.resources.DB.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}

// Package server contains the HTTP handlers and routing for the LiveLy API
// and the single-page front end.
package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	_ "lively/docs" // swagger docs
	"lively/internal/cache"
	"lively/internal/config"
	"lively/internal/database"
	"lively/internal/middleware"
	"lively/internal/models"
	"lively/internal/repository"
	"lively/internal/service"
	"lively/internal/session"
	"lively/web"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       session.Store
	signer         *session.Signer
	webFS          fs.FS
	userRepo       repository.UserRepository
	artistRepo     repository.ArtistRepository
	reviewRepo     repository.ReviewRepository
	authService    *service.AuthService
	artistService  *service.ArtistService
	reviewService  *service.ReviewService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil redisClient selects the in-process session store.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	webFS, err := staticFS(cfg)
	if err != nil {
		return nil, err
	}

	var store session.Store
	if redisClient != nil {
		store = session.NewRedisStore(redisClient, cfg.SessionTTL())
	} else {
		middleware.Logger.Warn("Redis unavailable, sessions are kept in process memory")
		store = session.NewMemoryStore(cfg.SessionTTL())
	}

	userRepo := repository.NewUserRepository(db)
	artistRepo := repository.NewArtistRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("lively-api"),
		sessions:       store,
		signer:         session.NewSigner(cfg.SessionSecret, cfg.SessionTTL()),
		webFS:          webFS,
		userRepo:       userRepo,
		artistRepo:     artistRepo,
		reviewRepo:     reviewRepo,
		authService:    service.NewAuthService(userRepo),
		artistService:  service.NewArtistService(artistRepo, reviewRepo),
		reviewService:  service.NewReviewService(reviewRepo),
	}
	s.app = s.NewApp()
	return s, nil
}

func staticFS(cfg *config.Config) (fs.FS, error) {
	if cfg.StaticDir == "" {
		return web.FS(), nil
	}
	info, err := os.Stat(cfg.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("STATIC_DIR: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("STATIC_DIR %q is not a directory", cfg.StaticDir)
	}
	return os.DirFS(cfg.StaticDir), nil
}

// NewApp builds the fiber application with middleware and routes attached.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "LiveLy API",
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
		slog.String("path", c.Path()), slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware registers the global middleware chain.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// The SPA loads only same-origin scripts and styles.
	app.Use(helmet.New(helmet.Config{
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' https: data:; style-src 'self'; script-src 'self'",
		// Artist images are hotlinked from third-party hosts without CORP headers.
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes registers API, probe, metrics, docs and SPA routes.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	api.Post("/register", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	api.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	api.Post("/logout", s.Logout)
	api.Get("/me", s.Me)

	api.Get("/artists", s.GetArtists)
	api.Post("/artists", s.AuthRequired(), s.AdminRequired(), s.CreateArtist)
	api.Get("/artists/:id/reviews", s.GetArtistReviews)
	api.Get("/artists/:id", s.GetArtist)
	api.Get("/search", middleware.RateLimit(s.redis, 60, time.Minute, "search"), s.SearchArtists)

	api.Post("/reviews", s.AuthRequired(), s.CreateReview)

	api.All("/*", func(c *fiber.Ctx) error {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Route", c.Path()).WithMessage("Not found"))
	})

	app.Get("/*", s.ServeSPA)
}

// Start listens on the configured port until Shutdown is called.
func (s *Server) Start() error {
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing sql DB", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}

// Package server contains the HTTP handlers for the corkboard API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "corkboard/docs" // swagger docs
	"corkboard/internal/auth"
	"corkboard/internal/cache"
	"corkboard/internal/config"
	"corkboard/internal/database"
	"corkboard/internal/middleware"
	"corkboard/internal/models"
	"corkboard/internal/repository"
	"corkboard/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
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
	store          repository.Store
	identity       *service.IdentityService
	authService    *service.AuthService
	boardService   *service.BoardService
	postService    *service.PostService
}

// NewServer connects to the database and Redis and wires all services.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if _, err := database.ConnectRead(cfg); err != nil {
		middleware.Logger.Warn("read replica unavailable, using primary for reads", slog.String("error", err.Error()))
	}

	redisClient, err := cache.InitRedis(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if redisClient == nil {
		return nil, errors.New("redis is required for sessions")
	}

	store := repository.NewStore(db)
	sessions := auth.NewSessionStore(redisClient)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("corkboard-api"),
		store:          store,
		identity:       service.NewIdentityService(sessions, store.Users()),
		authService:    service.NewAuthService(store, sessions, auth.NewBcryptHasher(cfg.BcryptCost)),
		boardService:   service.NewBoardService(store),
		postService:    service.NewPostService(store),
	}
	s.app = s.newApp()
	return s, nil
}

// App returns the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Corkboard API",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return models.RespondWithError(c, fe.Code, models.NewValidationError(fe.Message))
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Tracing first so the trace id is in locals when the context is built.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8080"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Corkboard Metrics",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	api.Post("/login", s.Login)
	api.Post("/logout", s.SessionRequired(), s.Logout)

	users := api.Group("/users")
	users.Post("/signup", s.Signup)
	users.Get("/me", s.SessionRequired(), s.GetMe)
	users.Delete("/me", s.SessionRequired(), s.DeleteMe)

	boards := api.Group("/boards")
	boards.Get("/", s.SessionOptional(), s.ListBoards)
	boards.Post("/", s.SessionRequired(), s.CreateBoard)
	boards.Get("/:boardId", s.SessionOptional(), s.GetBoard)
	boards.Patch("/:boardId", s.SessionRequired(), s.UpdateBoard)
	boards.Delete("/:boardId", s.SessionRequired(), s.DeleteBoard)

	posts := boards.Group("/:boardId/posts")
	posts.Get("/", s.SessionOptional(), s.ListPosts)
	posts.Post("/", s.SessionRequired(), s.CreatePost)
	posts.Get("/:postId", s.SessionOptional(), s.GetPost)
	posts.Patch("/:postId", s.SessionRequired(), s.UpdatePost)
	posts.Delete("/:postId", s.SessionRequired(), s.DeletePost)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether both the database and Redis answer.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if err := s.redis.Ping(ctx).Err(); err != nil {
		redisStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start serves HTTP on the configured port until Shutdown is called.
func (s *Server) Start() error {
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown stops the HTTP server and closes the database and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http: %w", err))
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("close database: %w", cerr))
		}
	}
	if replica := database.GetReadDB(); replica != nil {
		if sqlDB, err := replica.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				errs = append(errs, fmt.Errorf("close read replica: %w", cerr))
			}
		}
	}

	if err := s.redis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}

	middleware.Logger.Info("server shutdown complete")
	return errors.Join(errs...)
}

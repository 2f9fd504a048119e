// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"

	"quorum/internal/cache"
	"quorum/internal/config"
	"quorum/internal/database"
	"quorum/internal/middleware"
	"quorum/internal/ratelimit"
	"quorum/internal/repository"
	"quorum/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	limiter        *ratelimit.Limiter
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo      repository.UserRepository
	threadRepo    repository.ThreadRepository
	commentRepo   repository.CommentRepository
	communityRepo repository.CommunityRepository
	voteRepo      repository.VoteRepository

	voteService      *service.VoteService
	threadService    *service.ThreadService
	commentService   *service.CommentService
	communityService *service.CommunityService
	userService      *service.UserService
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
// Tests use this with an in-memory database and no Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		limiter:        ratelimit.New(cfg.RateLimitMaxRequests, cfg.RateLimitWindow()),
		promMiddleware: middleware.InitMetrics("quorum-api"),
		userRepo:       repository.NewUserRepository(db),
		threadRepo:     repository.NewThreadRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		communityRepo:  repository.NewCommunityRepository(db),
		voteRepo:       repository.NewVoteRepository(db),
	}

	server.userService = service.NewUserService(server.userRepo, server.voteRepo)
	server.voteService = service.NewVoteService(server.voteRepo, server.threadRepo, server.commentRepo)
	server.threadService = service.NewThreadService(server.threadRepo, server.communityRepo, server.userService.IsAdmin)
	server.commentService = service.NewCommentService(server.commentRepo, server.threadRepo, server.userService.IsAdmin)
	server.communityService = service.NewCommunityService(server.communityRepo)

	return server, nil
}

// Limiter exposes the rate limiter so the bootstrap layer can start and
// stop its background sweeper alongside the server lifecycle.
func (s *Server) Limiter() *ratelimit.Limiter {
	return s.limiter
}

// Shutdown releases server-owned resources: the limiter's sweeper, the
// Redis connection and the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	cache.Close()

	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Distributed tracing spans
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (the rate
	// limiter) so browser clients still receive CORS headers on 429s.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Fixed-window rate limiting on mutating requests, keyed by (IP, route).
	app.Use(middleware.RateLimit(s.limiter))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Public community routes
	communities := api.Group("/communities")
	communities.Get("/", s.GetCommunities)
	communities.Get("/:slug", s.GetCommunityBySlug)
	communities.Get("/:slug/threads", s.GetCommunityThreads)

	// Public thread routes
	threads := api.Group("/threads")
	threads.Get("/", s.GetThreads)
	threads.Get("/:id/comments", s.GetComments)
	threads.Get("/:id", s.GetThread)

	// Public vote aggregates
	api.Get("/votes/:targetType", s.GetVoteCounts)

	// User profiles
	api.Get("/users/:id", s.GetUserProfile)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	protected.Post("/communities", s.CreateCommunity)
	protected.Post("/threads", s.CreateThread)
	protected.Delete("/threads/:id", s.DeleteThread)
	protected.Post("/threads/:id/comments", s.CreateComment)
	protected.Delete("/comments/:id", s.DeleteComment)

	// Vote routes: cast, change, retract
	protected.Post("/votes/:targetType/:targetId", s.CastVote)
	protected.Put("/votes/:targetType/:targetId", s.ChangeVote)
	protected.Delete("/votes/:targetType/:targetId", s.RetractVote)
}

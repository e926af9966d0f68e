// Package server implements the development gateway server: the campus API
// the client core talks to in dev and integration tests, enforcing the same
// contracts as the production backend.
package server

import (
	"context"
	"fmt"
	"time"

	"campushub/internal/cache"
	"campushub/internal/config"
	"campushub/internal/database"
	"campushub/internal/middleware"
	"campushub/internal/repository"
	"campushub/internal/seed"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config      *config.Config
	db          *gorm.DB
	redis       *redis.Client
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:      cfg,
		db:          db,
		redis:       cache.GetClient(),
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
	}

	if cfg.SeedDemoData {
		if err := seed.Run(db); err != nil {
			return nil, fmt.Errorf("demo data seeding failed: %w", err)
		}
	}

	return server, nil
}

// NewServerWithDB creates a server on an existing database connection.
// Handler tests use it with an in-memory sqlite database.
func NewServerWithDB(cfg *config.Config, db *gorm.DB) *Server {
	middleware.InitMiddleware(cfg)
	return &Server{
		config:      cfg,
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
	}
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(requestid.New())
	app.Use(middleware.StructuredLogger())

	prometheus := fiberprometheus.New("campushub-gatewayd")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:5173,http://localhost:3000",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/", s.HealthCheck)

	api.Post("/token", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Token)
	api.Post("/users", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	api.Get("/users/me", middleware.AuthRequired, s.Me)

	posts := api.Group("/posts")
	posts.Get("/", middleware.AuthOptional, s.GetPosts)
	posts.Get("/unmoderated", middleware.AuthRequired, s.GetUnmoderatedPosts)
	posts.Post("/", middleware.AuthRequired, middleware.RateLimit(s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Post("/:id/moderate", middleware.AuthRequired, s.ModeratePost)
	posts.Post("/:id/like", middleware.AuthRequired, s.LikePost)
	posts.Get("/:id", middleware.AuthOptional, s.GetPost)
	posts.Delete("/:id", middleware.AuthRequired, s.DeletePost)

	comments := api.Group("/comments")
	comments.Get("/", s.GetComments)
	comments.Post("/", middleware.AuthRequired, middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
}

// HealthCheck handles GET /api/
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	cache.Close()
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// currentUserID returns the authenticated user id, or 0 for anonymous viewers.
func (s *Server) currentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

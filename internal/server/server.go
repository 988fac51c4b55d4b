// Package server contains the HTTP handlers rendering the application's views
// and binding them to the backend API.
package server

import (
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/redis/go-redis/v9"

	"animhub/internal/api"
	"animhub/internal/cache"
	"animhub/internal/config"
	"animhub/internal/middleware"
	"animhub/internal/models"
	"animhub/internal/session"
	"animhub/web"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config   *config.Config
	api      *api.Client
	sessions *session.Manager
	redis    *redis.Client
}

var (
	promOnce       sync.Once
	promMiddleware *fiberprometheus.FiberPrometheus
)

// metrics returns the process-wide Prometheus middleware. Collectors register
// against the default registry, so the instance is created once no matter how
// many apps are built.
func metrics() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMiddleware = fiberprometheus.New("animhub")
	})
	return promMiddleware
}

// New creates a server instance wired to the configured backend and Redis.
// When Redis is unreachable, sessions fall back to process-local storage.
func New(cfg *config.Config) *Server {
	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()

	var store session.Store
	if rdb != nil {
		store = session.NewRedisStore(rdb)
	} else {
		store = session.NewMemoryStore()
	}

	return NewWithDeps(cfg, api.NewClient(cfg.BackendURL), session.NewManager(store, cfg.SessionSecret), rdb)
}

// NewWithDeps creates a Server using already-initialized dependencies.
// Used by tests to inject a stub backend and an in-memory session store.
func NewWithDeps(cfg *config.Config, client *api.Client, sessions *session.Manager, rdb *redis.Client) *Server {
	return &Server{
		config:   cfg,
		api:      client,
		sessions: sessions,
		redis:    rdb,
	}
}

// Sessions exposes the session manager, mainly for test setup.
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// NewRenderer builds the HTML view engine over the embedded templates.
func NewRenderer() *html.Engine {
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")
	// Raw passthrough for user-authored animation CSS. The surrounding system
	// treats authors as trusted; nothing is sanitized here.
	engine.AddFunc("rawcss", func(css string) template.CSS {
		return template.CSS(css)
	})
	engine.AddFunc("timeago", timeAgo)
	engine.AddFunc("monthyear", func(t time.Time) string {
		return t.Format("Jan 2006")
	})
	engine.AddFunc("initial", models.Initial)
	return engine
}

// NewApp builds the Fiber application with views, middleware and routes.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:     "CSS Animation Hub",
		Views:       NewRenderer(),
		ViewsLayout: "layouts/main",
		BodyLimit:   1 * 1024 * 1024,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	app.Use(metrics().Middleware)

	// OpenTelemetry tracing (no-op spans unless a provider was installed)
	app.Use(middleware.Tracing())

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).
				SendString("Too many requests, please try again later.")
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(web.Static()),
		MaxAge: 3600,
	}))

	// Metrics endpoint for Prometheus
	metrics().RegisterAt(app, "/metrics")

	// Landing and auth
	app.Get("/", middleware.LoadSession(s.sessions), s.Landing)
	app.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	app.Post("/logout", s.Logout)

	// Gated views: without a session these redirect to the landing page
	gated := app.Group("", middleware.RequireSession(s.sessions))
	gated.Get("/dashboard", s.Dashboard)
	gated.Post("/animations", s.CreateAnimation)
	gated.Post("/animations/:id/like", s.ToggleLike)
	gated.Get("/animation/:id", s.ShowAnimation)
	gated.Get("/profile/:id", s.ShowProfile)
	gated.Post("/profile/:id/follow", s.Follow)
	gated.Post("/profile/:id/unfollow", s.Unfollow)
	gated.Get("/api/users/search", s.SearchUsers)
}

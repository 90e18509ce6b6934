package server

import (
	"context"
	"time"

	"github.com/Davidxcr/YelpCamp/internal/auth"
	"github.com/Davidxcr/YelpCamp/internal/campground"
	"github.com/Davidxcr/YelpCamp/internal/config"
	"github.com/Davidxcr/YelpCamp/internal/db"
	"github.com/Davidxcr/YelpCamp/internal/geocode"
	"github.com/Davidxcr/YelpCamp/internal/imagestore"
	"github.com/Davidxcr/YelpCamp/internal/logging"
	"github.com/Davidxcr/YelpCamp/internal/metrics"
	"github.com/Davidxcr/YelpCamp/internal/response"
	"github.com/Davidxcr/YelpCamp/internal/review"
	"github.com/Davidxcr/YelpCamp/internal/stats"
	"github.com/Davidxcr/YelpCamp/internal/stream"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

const bodyLimit = 20 * 1024 * 1024

// Options carries the collaborators the routes are built on. Only DB is
// required; the rest degrade to their documented fallbacks when nil.
type Options struct {
	DB       db.Querier
	Redis    *redis.Client
	Images   imagestore.Store
	Geocoder geocode.Geocoder
}

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	Stream *stream.Hub
}

func NewServer(ctx context.Context, cfg config.Config, opts Options) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "YelpCamp API",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: response.ErrorHandler,
		BodyLimit:    bodyLimit,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logging.Middleware())
	app.Use(metrics.Middleware())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	s := &Server{
		App:    app,
		Cfg:    cfg,
		Stream: stream.NewHub(ctx, opts.Redis),
	}

	registerRoutes(s, opts)
	return s
}

// Close releases the stream subscription.
func (s *Server) Close() error {
	return s.Stream.Close()
}

func registerRoutes(s *Server, opts Options) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", metrics.Handler())

	api := s.App.Group("/api")
	if s.Cfg.RateLimitPerMinute > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:        s.Cfg.RateLimitPerMinute,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return fiber.ErrTooManyRequests
			},
		}))
	}

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	campgrounds := campground.NewService(opts.DB, opts.Images, opts.Geocoder, s.Stream)
	reviews := review.NewService(opts.DB, s.Stream)

	auth.RegisterRoutes(api.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, opts.DB), jwtMiddleware)
	campground.RegisterRoutes(api.Group("/campgrounds"), campgrounds, jwtMiddleware)
	review.RegisterRoutes(api.Group("/campgrounds/:id/reviews"), reviews, jwtMiddleware)
	stats.RegisterRoutes(api.Group("/stats"), stats.NewAggregator(opts.DB))
	stream.RegisterRoutes(api.Group("/stream"), s.Stream)
}

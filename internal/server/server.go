// Package server composes the middleware pipeline and HTTP handlers.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Angelito-Alit/comments-api/internal/clock"
	"github.com/Angelito-Alit/comments-api/internal/comment"
	"github.com/Angelito-Alit/comments-api/internal/config"
	"github.com/Angelito-Alit/comments-api/internal/demo"
	"github.com/Angelito-Alit/comments-api/internal/health"
	"github.com/Angelito-Alit/comments-api/internal/observability/logger"
	"github.com/Angelito-Alit/comments-api/internal/observability/metrics"
	"github.com/Angelito-Alit/comments-api/internal/ratelimit"
	"github.com/Angelito-Alit/comments-api/internal/weather"
)

type Params struct {
	fx.In

	Config   config.Config
	Log      *zap.Logger
	Clock    clock.Clock
	Comments *comment.Store
	Weather  *weather.Client
	Demo     *demo.Client
	Checker  *health.Checker
	Limiters *ratelimit.Set
	Registry *prometheus.Registry
}

type Server struct {
	cfg      config.Config
	log      *zap.Logger
	clk      clock.Clock
	comments *comment.Store
	weather  *weather.Client
	demo     *demo.Client
	checker  *health.Checker
	limiters *ratelimit.Set
	registry *prometheus.Registry
}

func NewServer(p Params) *Server {
	s := &Server{
		cfg:      p.Config,
		log:      p.Log.Named("server"),
		clk:      p.Clock,
		comments: p.Comments,
		weather:  p.Weather,
		demo:     p.Demo,
		checker:  p.Checker,
		limiters: p.Limiters,
		registry: p.Registry,
	}
	s.registerUpstreamProbes()
	return s
}

// NewEngine builds the gin engine with the cross-cutting middleware chain:
// recovery, request logging, metrics, health counters and header decoration.
func NewEngine(cfg config.Config, log *zap.Logger, clk clock.Clock, node *snowflake.Node, httpMetrics *metrics.HTTPMetrics, checker *health.Checker) (*gin.Engine, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	requestLogger, err := logger.GinMiddleware(logger.MiddlewareConfig{
		Node:      node,
		SkipPaths: []string{"/health", "/metrics"},
	})
	if err != nil {
		return nil, err
	}

	engine.Use(Recovery(log))
	engine.Use(requestLogger)
	engine.Use(metrics.GinMiddleware(httpMetrics))
	engine.Use(health.Middleware(checker))
	engine.Use(SecurityHeaders(clk))

	engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
	engine.NoMethod(func(c *gin.Context) {
		AbortWithError(c, ErrMethodNotAllowed)
	})
	return engine, nil
}

// RegisterRoutes binds handlers with their per-route rate-limit policies.
// Write routes carry the stricter policy.
func (s *Server) RegisterRoutes(engine *gin.Engine) {
	readLimit := ratelimit.Middleware(s.limiters.Read, s.log)
	writeLimit := ratelimit.Middleware(s.limiters.Write, s.log)

	engine.GET("/", s.Home)
	engine.GET("/health", s.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	engine.GET("/comments", readLimit, s.ListComments)
	engine.POST("/comments", writeLimit, s.CreateComment)
	engine.GET("/comments/:id", readLimit, s.GetComment)
	engine.DELETE("/comments/:id", writeLimit, s.DeleteComment)

	engine.GET("/weather/:city", readLimit, s.Weather)
	engine.GET("/api-demo", readLimit, s.APIDemo)
}

func (s *Server) registerUpstreamProbes() {
	s.checker.RegisterProbe("weather_api", func(ctx context.Context) health.Probe {
		if s.weather.DemoMode() {
			return health.Probe{Status: health.StatusWarning, Message: "using demo mode"}
		}
		return timedProbe(ctx, s.weather.Ping)
	})
	s.checker.RegisterProbe("demo_api", func(ctx context.Context) health.Probe {
		return timedProbe(ctx, s.demo.Ping)
	})
}

func timedProbe(ctx context.Context, ping func(context.Context) error) health.Probe {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := ping(ctx); err != nil {
		return health.Probe{Status: health.StatusUnhealthy, Error: err.Error()}
	}
	return health.Probe{
		Status:         health.StatusHealthy,
		ResponseTimeMS: float64(time.Since(start).Milliseconds()),
	}
}

// RunHTTP starts the HTTP listener on fx startup and drains it on shutdown.
func RunHTTP(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

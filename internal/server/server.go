// Package server exposes blueprint generation and retrieval over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/discipleshipbydesign/blueprint/internal/auth"
	"github.com/discipleshipbydesign/blueprint/internal/logger"
	"github.com/discipleshipbydesign/blueprint/internal/pipeline"
	"github.com/discipleshipbydesign/blueprint/internal/store"
)

// Generator runs the generation pipeline on a raw intake body.
type Generator interface {
	RunJSON(ctx context.Context, ownerID string, body []byte) (*pipeline.Result, error)
}

type RouterConfig struct {
	Generator  Generator
	Blueprints store.BlueprintRepo
	Resolver   auth.Resolver
	// EnvCheck reports which credentials are configured.
	EnvCheck func() map[string]bool

	Log         *logger.Logger
	CORSOrigins []string
	ServiceName string
	// Ready, when set, backs /readyz.
	Ready func(context.Context) error
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "blueprint"
	}

	h := &handlers{
		gen:        cfg.Generator,
		blueprints: cfg.Blueprints,
		envCheck:   cfg.EnvCheck,
		ready:      cfg.Ready,
		log:        log.With("component", "http"),
	}

	r := gin.New()
	r.Use(Recover(log))
	r.Use(otelgin.Middleware(serviceName))
	r.Use(AttachTraceContext())
	r.Use(RequestLogger(log))
	r.Use(CORS(cfg.CORSOrigins))

	r.GET("/healthcheck", h.healthCheck)
	r.GET("/readyz", h.readyCheck)

	api := r.Group("/api")
	api.GET("/env-check", h.envCheckHandler)

	protected := api.Group("/")
	protected.Use(RequireUser(cfg.Resolver, log))
	{
		protected.POST("/generate-blueprint", h.generate)
		protected.POST("/blueprints", h.generate)
		protected.GET("/blueprints", h.list)
		protected.GET("/blueprints/:id", h.get)
	}
	return r
}

type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	http            *http.Server
	shutdownTimeout time.Duration
	log             *logger.Logger
}

func NewServer(cfg Config, engine *gin.Engine, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           engine,
			ReadHeaderTimeout: cfg.ReadTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             log,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.log.Info("http server shutting down")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/discipleshipbydesign/blueprint/internal/auth"
	"github.com/discipleshipbydesign/blueprint/internal/config"
	"github.com/discipleshipbydesign/blueprint/internal/llm"
	"github.com/discipleshipbydesign/blueprint/internal/logger"
	"github.com/discipleshipbydesign/blueprint/internal/observability"
	"github.com/discipleshipbydesign/blueprint/internal/pipeline"
	"github.com/discipleshipbydesign/blueprint/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	log, err := logger.New(cfg.Logging.Mode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOtel := observability.InitOTel(ctx, log, cfg.Otel)

	s, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	resolver, err := buildResolver(cfg, log)
	if err != nil {
		return err
	}

	inv := llm.NewInvoker(ctx, cfg.LLM, s.EventRepo(), log)
	if err := inv.Ready(); err != nil {
		// Keep serving; generate requests report the config stage.
		log.Warn("llm not configured", "error", err)
	} else {
		log.Info("llm configured", "provider", cfg.LLM.Provider, "model", inv.ModelID())
	}

	gin.SetMode(cfg.Server.Mode)
	orch := pipeline.New(inv, s.BlueprintRepo(),
		pipeline.WithLogger(log.With("component", "pipeline")),
		pipeline.WithTracer(observability.Tracer("blueprint/pipeline")),
	)
	router := server.NewRouter(server.RouterConfig{
		Generator:   orch,
		Blueprints:  s.BlueprintRepo(),
		Resolver:    resolver,
		EnvCheck:    cfg.EnvCheck,
		Log:         log,
		CORSOrigins: cfg.Server.CORSOrigins,
		ServiceName: cfg.Otel.ServiceName,
		Ready:       s.Ping,
	})
	srv := server.NewServer(server.Config{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownOtel(flushCtx); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
		return nil
	})
	return g.Wait()
}

// buildResolver picks the identity resolvers enabled in cfg. At least one
// must be available.
func buildResolver(cfg *config.Config, log *logger.Logger) (auth.Resolver, error) {
	var chain auth.Chain
	if cfg.Auth.JWTSecret != "" {
		jwtRes, err := auth.NewJWTResolver(cfg.Auth.JWTSecret)
		if err != nil {
			return nil, err
		}
		chain = append(chain, jwtRes)
	}
	if cfg.Auth.DevHeader {
		log.Warn("development identity header enabled; do not use in production",
			"header", devHeaderName(cfg))
		chain = append(chain, auth.DevHeaderResolver{Header: cfg.Auth.DevHeaderName})
	}
	if len(chain) == 0 {
		return nil, errors.New("no identity resolver configured: set " + config.EnvJWTSecret +
			" or enable auth.dev_header")
	}
	return chain, nil
}

func devHeaderName(cfg *config.Config) string {
	if cfg.Auth.DevHeaderName != "" {
		return cfg.Auth.DevHeaderName
	}
	return auth.DefaultDevHeader
}

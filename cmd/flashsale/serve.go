package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"flashsale-dashboard/internal/cache"
	"flashsale-dashboard/internal/config"
	"flashsale-dashboard/internal/middleware"
	"flashsale-dashboard/internal/server"
	"flashsale-dashboard/internal/services"
)

const cacheConnectTimeout = 5 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().String("host", "", "listen host (default localhost)")
	cmd.Flags().Int("port", 0, "listen port (default 8084)")
	_ = c.v.BindPFlag("server.host", cmd.Flags().Lookup("host"))
	_ = c.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	return cmd
}

func (c *cli) runServe(ctx context.Context) error {
	cfg, logger := c.cfg, c.logger

	logger.Info("starting application",
		"version", version,
		"addr", cfg.Address(),
		"csv_file", cfg.Data.CSVFile,
		"cache_enabled", cfg.Cache.RedisAddr != "",
	)

	connectCtx, cancel := context.WithTimeout(ctx, cacheConnectTimeout)
	store, err := cache.Connect(connectCtx, cache.Options{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
		TTL:      cfg.Cache.TTL,
	})
	cancel()
	if err != nil {
		return fmt.Errorf("connect cache: %w", err)
	}

	analytics, err := c.loadAnalytics(ctx, store, nil)
	if err != nil {
		_ = store.Close()
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, analytics, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)
	gracefulServer.RegisterShutdownHook(func(context.Context) error {
		logger.Info("closing dashboard cache")
		return store.Close()
	})

	if err := gracefulServer.Run(ctx); err != nil {
		logger.Error("server failed", "error", err)
		return err
	}

	logger.Info("application stopped gracefully")
	return nil
}

// newHandler wraps the router in the full middleware chain.
func newHandler(cfg *config.Config, analytics *services.Analytics, logger *slog.Logger) http.Handler {
	srv := server.NewServer(analytics, logger, cfg.Security)
	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	chain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(cfg.Security),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)
	return chain(srv)
}

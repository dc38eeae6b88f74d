package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"storyteller/internal/authutils"
	"storyteller/internal/config"
	"storyteller/internal/gateway"
	"storyteller/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newGateCmd(a *app) *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Run the JWT gate in front of the story backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadGatewayConfig(envFile)
			if err != nil {
				return err
			}
			return runGate(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&envFile, "env", ".env", "optional .env file")
	return cmd
}

func runGate(ctx context.Context, cfg *config.GatewayConfig) error {
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: "json"})
	if err != nil {
		return err
	}
	defer log.Sync()

	upstream, err := url.Parse(cfg.UpstreamURL)
	if err != nil || upstream.Host == "" {
		return fmt.Errorf("invalid STORY_BACKEND_URL %q", cfg.UpstreamURL)
	}

	verifier, err := authutils.NewJWTVerifier(cfg.JWTSecret, cfg.AllowedAlgs, log)
	if err != nil {
		return err
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		log.Info("Rate limits are shared through redis", zap.String("addr", cfg.RedisAddr))
	}

	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	opts := gateway.Options{
		Upstream:       upstream,
		Verifier:       verifier,
		AllowedOrigins: cfg.GetAllowedOrigins(),
		RateLimit:      cfg.RateLimitPerMinute,
		RedisClient:    rdb,
		Metrics:        cfg.MetricsEnabled,
		Logger:         log,
	}
	router, err := gateway.NewRouter(opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // генерация истории бывает долгой
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting story gate", zap.String("port", cfg.Port), zap.String("upstream", upstream.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("story gate listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down story gate...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Story gate forced to shutdown", zap.Error(err))
		return err
	}
	log.Info("Story gate exited")
	return nil
}

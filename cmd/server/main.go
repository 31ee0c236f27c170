package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"memeshare/internal/api"
	"memeshare/internal/api/middleware"
	"memeshare/internal/app/service"
	"memeshare/internal/app/worker"
	"memeshare/internal/common/security"
	"memeshare/internal/platform/config"
	"memeshare/internal/platform/database"
	"memeshare/internal/platform/logger"
	"memeshare/internal/platform/queue"
)

var (
	envFiles   []string
	initSchema bool
	noWorker   bool
)

var rootCmd = &cobra.Command{
	Use:   "memeshare-server",
	Short: "HTTP API for sharing, tagging and collecting memes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "Env files to load before the environment (default .env)")
	rootCmd.Flags().BoolVar(&initSchema, "init-schema", false, "Create missing tables on startup")
	rootCmd.Flags().BoolVar(&noWorker, "no-worker", false, "Do not run the stats worker in this process")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// 1. Configuration and logging
	cfg := config.Load(envFiles...)
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// 2. JWT
	security.InitJWT(cfg.JWTKey, cfg.JWTExp)

	// 3. Storage
	stores, err := database.Stores(ctx, cfg, initSchema)
	if err != nil {
		return err
	}
	defer database.Close()

	// 4. Stats pipeline
	var statEvents service.StatEventPublisher
	var workers sync.WaitGroup
	workerCtx, workerCancel := context.WithCancel(context.Background())
	stopWorkers := func() {
		workerCancel()
		workers.Wait()
	}
	defer stopWorkers()
	if cfg.StatsAsync {
		if err := queue.ConnectRedis(ctx, cfg); err != nil {
			return err
		}
		defer queue.CloseRedis()
		statEvents = service.NewRedisStatQueue(queue.RDB, cfg.StatsQueueName)

		if !noWorker {
			w := worker.NewStatsWorker(queue.RDB, cfg.StatsQueueName, stores)
			workers.Add(1)
			go func() {
				defer workers.Done()
				w.Start(workerCtx)
			}()
			// deferred after CloseRedis so it runs first
			defer stopWorkers()
		}
	}

	// 5. Router and HTTP server
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log)
	cleanupDone := make(chan struct{})
	defer close(cleanupDone)
	limiter.StartCleanup(cleanupDone, time.Minute)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      api.NewRouter(stores, statEvents, limiter, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.APIPort).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("could not listen on %s: %w", cfg.APIPort, err)
		}
		close(serveErr)
	}()

	// 6. Graceful shutdown
	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	stopWorkers()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server and worker stopped gracefully")
	return nil
}


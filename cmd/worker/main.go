package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"memeshare/internal/app/worker"
	"memeshare/internal/platform/config"
	"memeshare/internal/platform/database"
	"memeshare/internal/platform/logger"
	"memeshare/internal/platform/queue"
)

var envFiles []string

var rootCmd = &cobra.Command{
	Use:   "memeshare-worker",
	Short: "Applies queued meme view, download and share events",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "Env files to load before the environment (default .env)")
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
	cfg := config.Load(envFiles...)
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// A separate process cannot see the server's in-memory tables.
	if cfg.DBDriver == config.DriverMemory {
		return fmt.Errorf("worker needs a shared database, DB_DRIVER=%s is process local", cfg.DBDriver)
	}

	stores, err := database.Stores(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := queue.ConnectRedis(ctx, cfg); err != nil {
		return err
	}
	defer queue.CloseRedis()

	worker.NewStatsWorker(queue.RDB, cfg.StatsQueueName, stores).Start(ctx)
	log.Info("Stats worker stopped")
	return nil
}

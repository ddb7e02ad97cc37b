package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"yrhacks/hackbot/internal/api"
	"yrhacks/hackbot/internal/common"
	"yrhacks/hackbot/internal/config"
	"yrhacks/hackbot/internal/db"
	"yrhacks/hackbot/internal/jobs"
	"yrhacks/hackbot/internal/logging"
	"yrhacks/hackbot/internal/metrics"
	"yrhacks/hackbot/internal/routes"
	"yrhacks/hackbot/internal/workers"
)

func serveCmd() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the notification workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), skipMigrate)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not run schema migrations on startup")
	return cmd
}

func runServer(parent context.Context, skipMigrate bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Secrets.Validate(); err != nil {
		return err
	}

	if err := logging.Init(cfg.Server.AppEnv); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logging.Close()

	logging.Info("hackbot starting up",
		"environment", cfg.Server.AppEnv,
		"guild_id", cfg.Bot.GuildID,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.InitPostgresORM(cfg.Secrets.DatabaseURL)
	if err != nil {
		return err
	}
	logging.Info("Connected to Postgres (GORM)")

	if !skipMigrate {
		if err := db.Migrate(gdb); err != nil {
			return err
		}
		logging.Info("Schema migrated")
	}

	sdb, err := db.InitPostgres(cfg.Secrets.DatabaseURL)
	if err != nil {
		return err
	}
	defer sdb.Close()
	logging.Info("Connected to Postgres (sqlx)")

	directory, err := common.LoadRegistrationDirectory(cfg.Registrations.Path)
	if err != nil {
		return err
	}
	logging.Info("Loaded registrations", "path", cfg.Registrations.Path, "count", directory.Len())

	m := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)

	ext := api.Externals{
		Gorm:      gdb,
		Sqlx:      sdb,
		Directory: directory,
	}

	if cfg.Secrets.RedisAddr != "" {
		client := common.NewRedisClient(cfg.Secrets.RedisAddr, cfg.Secrets.RedisPassword)
		queue := common.NewRedisQueueService(client, "hackbot", 10000)
		if err := queue.CreateConsumerGroup(ctx); err != nil {
			return err
		}
		ext.Redis = client
		ext.Cache = common.NewRedisCacheService(client, m)
		ext.Queue = queue
	} else {
		logging.Warn("REDIS_HOST not set, using in-process cache and queue")
		ext.Cache = common.NewCacheService(5*time.Minute, 10*time.Minute, m)
		ext.Queue = common.NewChannelQueue(1024)
	}
	defer ext.Cache.Close()

	discord, err := common.NewDiscordService(cfg.Secrets.DiscordToken)
	if err != nil {
		return err
	}
	ext.Messenger = discord

	deps := api.InitDependencies(cfg, ext, m)

	workers.InitWorkers(ctx, ext.Queue, discord, deps.Services.Embeds, cfg.Bot.LogChannelID, m)
	jobs.InitializeJobs(ctx, deps.Repo.Invites, m, cfg.Teams.InviteTTL)

	srv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           routes.RegisterRoutes(deps, prometheus.DefaultGatherer, time.Now()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server starting", "listen", cfg.Server.Listen, "environment", cfg.Server.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

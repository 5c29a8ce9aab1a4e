package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ANUPAM4545/taskboard-pro/internal/config"
	"github.com/ANUPAM4545/taskboard-pro/internal/engine"
	"github.com/ANUPAM4545/taskboard-pro/internal/events"
	"github.com/ANUPAM4545/taskboard-pro/internal/idgen"
	"github.com/ANUPAM4545/taskboard-pro/internal/reminder"
	"github.com/ANUPAM4545/taskboard-pro/internal/server"
	"github.com/ANUPAM4545/taskboard-pro/internal/store"
	"github.com/ANUPAM4545/taskboard-pro/internal/store/postgres"
	"github.com/ANUPAM4545/taskboard-pro/internal/store/rediscache"
	"github.com/ANUPAM4545/taskboard-pro/internal/store/sqlite"
	boardsync "github.com/ANUPAM4545/taskboard-pro/internal/sync"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the board server",
	GroupID: "system",
	Args:    cobra.NoArgs,
	// The server is its own backend; no HTTP client is needed.
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		st, err := openStore(cfg, logger)
		if err != nil {
			return err
		}

		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				st.Close()
				return fmt.Errorf("connecting to NATS: %w", err)
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (TASKBOARD_NATS_URL not set)")
		}

		ids, err := idgen.ForStyle(cfg.IDStyle)
		if err != nil {
			publisher.Close()
			st.Close()
			return err
		}

		bs, err := server.NewBoardServer(context.Background(), st, publisher, engine.New(ids), server.Options{
			Location:  cfg.Location,
			TopLabels: cfg.TopLabels,
			Logger:    logger,
		})
		if err != nil {
			publisher.Close()
			st.Close()
			return err
		}

		grpcServer, healthServer := server.NewGRPCServer(cfg.AuthToken)
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			publisher.Close()
			st.Close()
			return err
		}
		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server error", "err", err)
			}
		}()

		// Event streams hold their requests open; cancelling the base
		// context lets Shutdown finish.
		baseCtx, cancelStreams := context.WithCancel(context.Background())
		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           bs.NewHTTPHandler(cfg.AuthToken),
			ReadHeaderTimeout: 10 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return baseCtx },
		}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		var reminders *reminder.Scheduler
		if cfg.ReminderInterval > 0 {
			reminders = reminder.NewScheduler(bs.Board, bs, cfg.ReminderInterval, bs.Today, logger)
			reminders.Start()
			logger.Info("reminder scheduler started", "interval", cfg.ReminderInterval)
		}

		var syncer *boardsync.Scheduler
		if cfg.SyncEnabled() {
			if dests := syncDestinations(cfg, logger); len(dests) > 0 {
				syncer = boardsync.NewScheduler(st, dests, cfg.SyncInterval, logger)
				syncer.Start()
				logger.Info("sync scheduler started", "interval", cfg.SyncInterval)
			}
		}

		logger.Info("board server started",
			"grpc_addr", cfg.GRPCAddr,
			"http_addr", cfg.HTTPAddr,
			"timezone", cfg.Location.String(),
		)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(server.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

		if reminders != nil {
			reminders.Stop()
			logger.Info("reminder scheduler stopped")
		}
		if syncer != nil {
			syncer.Stop()
			logger.Info("sync scheduler stopped")
		}

		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")

		cancelStreams()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}

// openStore opens Postgres when a database URL is configured and SQLite
// otherwise, optionally fronted by the Redis board cache.
func openStore(cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st = pg
		logger.Info("store: postgres")
	} else {
		lite, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		st = lite
		logger.Info("store: sqlite", "path", cfg.SQLitePath)
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("TASKBOARD_REDIS_URL: %w", err)
		}
		st = rediscache.New(st, redis.NewClient(opts), cfg.RedisTTL)
		logger.Info("board cache enabled", "redis", opts.Addr, "ttl", cfg.RedisTTL)
	}
	return st, nil
}

func syncDestinations(cfg *config.Config, logger *slog.Logger) []boardsync.Destination {
	var dests []boardsync.Destination
	if cfg.SyncS3Bucket != "" {
		s3Dest, err := boardsync.NewS3Destination(context.Background(), boardsync.S3Options{
			Bucket:   cfg.SyncS3Bucket,
			Key:      cfg.SyncS3Key,
			Region:   cfg.SyncS3Region,
			Endpoint: cfg.SyncS3Endpoint,
		})
		if err != nil {
			logger.Error("failed to create S3 sync destination", "err", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("sync S3 destination enabled", "bucket", cfg.SyncS3Bucket, "key", cfg.SyncS3Key)
		}
	}
	if cfg.SyncGitRepo != "" {
		dests = append(dests, boardsync.NewGitDestination(cfg.SyncGitRepo, cfg.SyncGitFile, cfg.SyncGitBranch))
		logger.Info("sync git destination enabled", "repo", cfg.SyncGitRepo, "file", cfg.SyncGitFile)
	}
	return dests
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/alfredjeanlab/facets/internal/config"
	"github.com/alfredjeanlab/facets/internal/events"
	"github.com/alfredjeanlab/facets/internal/fieldset"
	"github.com/alfredjeanlab/facets/internal/server"
	"github.com/alfredjeanlab/facets/internal/store/postgres"
	facetsync "github.com/alfredjeanlab/facets/internal/sync"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:               "serve",
	Short:             "Start the facets HTTP and gRPC server",
	GroupID:           "system",
	PersistentPreRunE: noClient,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fields := fieldset.Default()
		if cfg.FieldsFile != "" {
			if fields, err = fieldset.Load(cfg.FieldsFile); err != nil {
				return err
			}
			logger.Info("field set loaded", "file", cfg.FieldsFile, "fields", len(fields.Fields()))
		}

		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (FACETS_NATS_URL not set)")
		}

		srv := server.New(store, publisher, server.Options{
			Fields:       fields,
			DefaultLimit: cfg.DefaultLimit,
			Logger:       logger,
		})
		grpcServer, healthServer := srv.NewGRPCServer(cfg.AuthToken)

		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			publisher.Close()
			store.Close()
			return err
		}
		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("gRPC server error", "err", err)
			}
		}()

		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           srv.NewHTTPHandler(cfg.AuthToken),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		scheduler := startSync(cfg, store, logger)

		logger.Info("facets server started",
			"grpc_addr", cfg.GRPCAddr,
			"http_addr", cfg.HTTPAddr,
			"default_limit", cfg.DefaultLimit,
		)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		healthServer.SetServingStatus(server.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("sync scheduler stopped")
		}

		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}

// startSync starts the view export scheduler when an interval and at
// least one destination are configured. It returns nil otherwise.
func startSync(cfg *config.Config, store *postgres.PostgresStore, logger *slog.Logger) *facetsync.Scheduler {
	if cfg.SyncInterval <= 0 {
		return nil
	}

	var dests []facetsync.Destination
	if cfg.SyncS3Bucket != "" {
		s3Dest, err := facetsync.NewS3Destination(
			context.Background(),
			cfg.SyncS3Bucket,
			cfg.SyncS3Key,
			cfg.SyncS3Region,
			cfg.SyncS3Endpoint,
		)
		if err != nil {
			logger.Error("failed to create S3 sync destination", "err", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("sync destination enabled", "dest", s3Dest)
		}
	}
	if cfg.SyncGitRepo != "" {
		gitDest := facetsync.NewGitDestination(cfg.SyncGitRepo, cfg.SyncGitFile, cfg.SyncGitBranch)
		dests = append(dests, gitDest)
		logger.Info("sync destination enabled", "dest", gitDest)
	}
	if len(dests) == 0 {
		return nil
	}

	scheduler := facetsync.NewScheduler(store, dests, cfg.SyncInterval, logger)
	scheduler.Start()
	logger.Info("sync scheduler started", "interval", cfg.SyncInterval)
	return scheduler
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dp-catalog/internal/bloom"
	"dp-catalog/internal/catalog"
	"dp-catalog/internal/config"
	"dp-catalog/internal/httpapi"
	"dp-catalog/internal/kstream"
	"dp-catalog/internal/logging"
	"dp-catalog/internal/projections"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.Production())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	for _, rej := range cat.Rejections() {
		logger.Warn("catalog entry dropped", zap.String("scope", rej.Scope), zap.String("reason", rej.Reason))
	}
	logger.Info("catalog loaded",
		zap.String("path", cfg.Catalog.Path),
		zap.Int("categories", len(cat.Categories())),
		zap.Int("items", len(cat.Items())))

	stack := newEnquiryStack(cfg, logger)
	defer stack.Close()

	g, ctx := errgroup.WithContext(ctx)

	apiOpts := httpapi.Options{
		Logger:         logger,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}
	if rdb := stack.rdb; rdb != nil {
		customers := bloom.New(rdb, logger)
		customers.Reserve(ctx)
		apiOpts.Stats = projections.NewReader(rdb)

		if cfg.Kafka.Broker != "" {
			projector := projections.NewProjector(rdb, customers, logger)
			reader := kstream.KafkaReader(cfg.Kafka.Broker, kstream.TopicEnquirySubmitted, cfg.Kafka.Group)
			g.Go(func() error {
				return consumeEnquiryStream(ctx, reader, projector.Apply, logger)
			})
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpapi.NewServer(cat, stack.svc, apiOpts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("catalog api listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

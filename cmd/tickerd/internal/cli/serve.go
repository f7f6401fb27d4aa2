package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/protocol"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/server"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/session"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/view"
	"github.com/shubham-shewale/afs-ticker/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the websocket server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Logger)
	if err != nil {
		return err
	}
	defer logger.Sync()

	instruments := config.DefaultInstruments()
	if cfg.Ticker.InstrumentsFile != "" {
		if instruments, err = config.LoadInstruments(cfg.Ticker.InstrumentsFile); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	opts := server.Options{Backend: backend, Instruments: instruments}

	if cfg.Kafka.Enabled {
		writer := openMirror(ctx, cfg.Kafka, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("Error closing Kafka writer", zap.Error(err))
			}
		}()
		opts.Mirror = func(sessionID, board string) []view.Port {
			if board != protocol.BoardTicker && board != protocol.BoardLive {
				return nil
			}
			return []view.Port{view.NewKafkaFeed(logger, writer, sessionID, board)}
		}
	}

	srv := server.New(cfg, logger, opts)
	httpSrv := &http.Server{Addr: cfg.App.Port, Handler: srv}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server Started", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown", zap.Error(err))
	}
	srv.Shutdown()

	logger.Info("Shutdown Complete")
	return nil
}

func openBackend(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (session.Backend, error) {
	if !cfg.Enabled {
		logger.Info("Session store: memory", zap.Duration("ttl", cfg.SessionTTL))
		return session.NewMemoryBackend(cfg.SessionTTL), nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	backend := session.NewRedisBackend(rdb, cfg.SessionTTL)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := backend.Ping(pingCtx); err != nil {
		backend.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}

	logger.Info("Session store: redis", zap.String("addr", cfg.Addr), zap.Duration("ttl", cfg.SessionTTL))
	return backend, nil
}

func openMirror(ctx context.Context, cfg config.KafkaConfig, logger *zap.Logger) *kafka.Writer {
	creator := view.NewTopicCreator(logger, &view.RealKafkaDialer{Dialer: &kafka.Dialer{Timeout: 10 * time.Second}}, time.Sleep)
	if err := creator.Create(ctx, cfg.Brokers, cfg.Topic); err != nil {
		logger.Warn("Topic setup failed, mirror writes may be dropped", zap.Error(err))
	}

	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
	}
}

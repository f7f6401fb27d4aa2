package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/feed"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/view"
	"github.com/shubham-shewale/afs-ticker/pkg/config"
)

var tailBoard string

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print board updates mirrored to Kafka",
	Long: `Follow the mirror topic that "tickerd serve" writes when kafka.enabled is set,
printing one line per instrument update.

Example:
  tickerd tail --board live`,
	RunE: runTail,
}

func init() {
	rootCmd.AddCommand(tailCmd)
	tailCmd.Flags().StringVar(&tailBoard, "board", "", "only show this board (ticker or live)")
}

func runTail(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Logger)
	if err != nil {
		return err
	}
	defer logger.Sync()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           cfg.Kafka.Brokers,
		Topic:             cfg.Kafka.Topic,
		GroupID:           cfg.Kafka.GroupID,
		MinBytes:          1,
		MaxBytes:          10e6,
		MaxWait:           200 * time.Millisecond,
		CommitInterval:    time.Second,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    10 * time.Second,
	})
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Error closing Kafka reader", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	tl := feed.NewTailer(logger, reader, cfg.Kafka.TailWorkers, cfg.Redis.SessionTTL, func(_ int, rec view.FeedRecord) {
		if tailBoard != "" && rec.Board != tailBoard {
			return
		}
		r := rec.Record
		fmt.Fprintf(out, "%s %-8s %-6s %-12s %10s %s\n",
			time.UnixMicro(rec.Timestamp).Format(time.TimeOnly), rec.Board, rec.Kind, r.Symbol, r.PriceText, r.MoveText)
	})

	return tl.Run(ctx)
}

// Package feed consumes the board mirror topic written by view.KafkaFeed.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"hash/fnv"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/view"
)

// KafkaReader abstracts the input stream
type KafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Handler receives each record that is newer than the last one seen for its
// session, board and symbol. Calls for one symbol come from one worker.
type Handler func(worker int, rec view.FeedRecord)

type Tailer struct {
	logger     *zap.Logger
	reader     KafkaReader
	handle     Handler
	numWorkers int
	horizon    time.Duration
}

// NewTailer builds a tailer. Per-symbol state older than horizon behind the
// newest record is dropped; a horizon <= 0 keeps it forever.
func NewTailer(logger *zap.Logger, reader KafkaReader, numWorkers int, horizon time.Duration, handle Handler) *Tailer {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Tailer{logger: logger, reader: reader, handle: handle, numWorkers: numWorkers, horizon: horizon}
}

// Run reads until ctx ends or the reader fails for good, then drains the workers.
func (t *Tailer) Run(ctx context.Context) error {
	workerChans := make([]chan []byte, t.numWorkers)
	var wg sync.WaitGroup

	for i := 0; i < t.numWorkers; i++ {
		workerChans[i] = make(chan []byte, 100)
		wg.Add(1)
		go t.worker(i, workerChans[i], &wg)
	}

	t.logger.Info("Tail Started", zap.Int("workers", t.numWorkers))

	var runErr error
	for {
		m, err := t.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break
			}
			// a closed reader returns io.EOF
			if errors.Is(err, io.EOF) {
				runErr = err
				break
			}
			t.logger.Error("Kafka Read Error", zap.Error(err))
			continue
		}

		// Same symbol always goes to the same worker.
		workerID := getWorkerID(m.Key, t.numWorkers)

		select {
		case workerChans[workerID] <- m.Value:
		case <-ctx.Done():
		default:
			t.logger.Warn("Dropping slow record", zap.String("key", string(m.Key)), zap.Int("worker_id", workerID))
		}
	}

	for _, ch := range workerChans {
		close(ch)
	}
	wg.Wait()
	t.logger.Info("Tail stopped")

	return runErr
}

func (t *Tailer) worker(id int, msgs <-chan []byte, wg *sync.WaitGroup) {
	defer wg.Done()

	// only sound because of the symbol sharding
	seen := newRecency(t.horizon)

	for payload := range msgs {
		var rec view.FeedRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			t.logger.Error("JSON Unmarshal Error", zap.Error(err))
			continue
		}

		key := rec.Session + "|" + rec.Board + "|" + rec.Record.Symbol
		if !seen.admit(key, rec.Timestamp) {
			t.logger.Debug("Skipping stale record", zap.String("key", key), zap.Int64("timestamp", rec.Timestamp))
			continue
		}

		t.handle(id, rec)
	}
}

func getWorkerID(key []byte, numWorkers int) int {
	h := fnv.New32a()
	h.Write(key)
	return int(h.Sum32() % uint32(numWorkers))
}

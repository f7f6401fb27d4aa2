package view

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/shubham-shewale/afs-ticker/pkg/models"
)

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// FeedRecord is the message value mirrored to the feed topic.
type FeedRecord struct {
	Session   string               `json:"session"`
	Board     string               `json:"board"`
	Kind      string               `json:"kind"` // "render" or "patch"
	Record    models.DisplayRecord `json:"record"`
	Timestamp int64                `json:"timestamp"` // unix micro
}

// KafkaFeed mirrors a board's records to a topic, keyed by symbol so each
// instrument stays on one partition. Phase changes are not mirrored.
type KafkaFeed struct {
	logger  *zap.Logger
	writer  KafkaWriter
	session string
	board   string
	now     func() time.Time
}

func NewKafkaFeed(logger *zap.Logger, writer KafkaWriter, sessionID, board string) *KafkaFeed {
	return &KafkaFeed{
		logger:  logger,
		writer:  writer,
		session: sessionID,
		board:   board,
		now:     time.Now,
	}
}

func (f *KafkaFeed) Render(records []models.DisplayRecord) { f.write("render", records) }
func (f *KafkaFeed) Patch(records []models.DisplayRecord)  { f.write("patch", records) }
func (f *KafkaFeed) SetPhase(float64, float64)             {}

func (f *KafkaFeed) write(kind string, records []models.DisplayRecord) {
	ts := f.now().UnixMicro()
	msgs := make([]kafka.Message, 0, len(records))
	for _, rec := range records {
		payload, err := json.Marshal(FeedRecord{Session: f.session, Board: f.board, Kind: kind, Record: rec, Timestamp: ts})
		if err != nil {
			f.logger.Error("JSON Marshal Error", zap.Error(err))
			continue
		}
		msgs = append(msgs, kafka.Message{Key: []byte(rec.Symbol), Value: payload})
	}
	if len(msgs) == 0 {
		return
	}

	if err := f.writer.WriteMessages(context.Background(), msgs...); err != nil {
		f.logger.Error("Kafka Write Error", zap.Error(err), zap.String("board", f.board))
	}
}

package testutils

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/protocol"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/session"
	"github.com/shubham-shewale/afs-ticker/cmd/tickerd/internal/view"
	"github.com/shubham-shewale/afs-ticker/pkg/models"
)

// MockClock returns a fixed time until moved
type MockClock struct {
	CurrentTime time.Time
	Mu          sync.Mutex
}

func (m *MockClock) Now() time.Time {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.CurrentTime
}

func (m *MockClock) Advance(d time.Duration) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.CurrentTime = m.CurrentTime.Add(d)
}

// SeqRand cycles through Values; an empty sequence always yields 0.5 (no change).
type SeqRand struct {
	Values []float64
	idx    int
	Mu     sync.Mutex
}

func (m *SeqRand) Float64() float64 {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if len(m.Values) == 0 {
		return 0.5
	}
	v := m.Values[m.idx%len(m.Values)]
	m.idx++
	return v
}

// RecordingView captures everything a board would have drawn
type RecordingView struct {
	Renders [][]models.DisplayRecord
	Patches [][]models.DisplayRecord
	Phases  []float64
	Times   []string
	Mu      sync.Mutex
}

func (v *RecordingView) Render(records []models.DisplayRecord) {
	v.Mu.Lock()
	defer v.Mu.Unlock()
	v.Renders = append(v.Renders, records)
}

func (v *RecordingView) Patch(records []models.DisplayRecord) {
	v.Mu.Lock()
	defer v.Mu.Unlock()
	v.Patches = append(v.Patches, records)
}

func (v *RecordingView) SetPhase(offsetSeconds, cycleSeconds float64) {
	v.Mu.Lock()
	defer v.Mu.Unlock()
	v.Phases = append(v.Phases, offsetSeconds)
}

func (v *RecordingView) ShowTime(text string) {
	v.Mu.Lock()
	defer v.Mu.Unlock()
	v.Times = append(v.Times, text)
}

func (v *RecordingView) RenderCount() int {
	v.Mu.Lock()
	defer v.Mu.Unlock()
	return len(v.Renders)
}

func (v *RecordingView) PatchCount() int {
	v.Mu.Lock()
	defer v.Mu.Unlock()
	return len(v.Patches)
}

// ErrStorage is what FailingStore returns for every call
var ErrStorage = errors.New("storage disabled")

// FailingStore simulates session storage that is full or switched off
type FailingStore struct {
	Gets int
	Sets int
	Mu   sync.Mutex
}

func (f *FailingStore) Get(ctx context.Context, key string) (string, error) {
	f.Mu.Lock()
	defer f.Mu.Unlock()
	f.Gets++
	return "", ErrStorage
}

func (f *FailingStore) Set(ctx context.Context, key, value string) error {
	f.Mu.Lock()
	defer f.Mu.Unlock()
	f.Sets++
	return ErrStorage
}

// FlakyStore fails the first FailReads reads and passes everything else to Store.
type FlakyStore struct {
	Store     session.Store
	FailReads int
	Sets      int
	Mu        sync.Mutex
}

func (f *FlakyStore) Get(ctx context.Context, key string) (string, error) {
	f.Mu.Lock()
	if f.FailReads > 0 {
		f.FailReads--
		f.Mu.Unlock()
		return "", ErrStorage
	}
	f.Mu.Unlock()
	return f.Store.Get(ctx, key)
}

func (f *FlakyStore) Set(ctx context.Context, key, value string) error {
	f.Mu.Lock()
	f.Sets++
	f.Mu.Unlock()
	return f.Store.Set(ctx, key, value)
}

// MockClient simulates a connected websocket client
type MockClient struct {
	IDVal    string
	Messages []protocol.WSResponse // Stores every JSON frame
	RawBytes []string
	Closed   bool
	Mu       sync.Mutex
}

func NewMockClient(id string) *MockClient {
	return &MockClient{IDVal: id, Messages: make([]protocol.WSResponse, 0)}
}

func (m *MockClient) ID() string { return m.IDVal }

func (m *MockClient) Close() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Closed = true
}

func (m *MockClient) SendJSON(v interface{}) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if resp, ok := v.(protocol.WSResponse); ok {
		m.Messages = append(m.Messages, resp)
	}
}

func (m *MockClient) SendBytes(b []byte) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.RawBytes = append(m.RawBytes, string(b))
}

func (m *MockClient) LastMsgType() string {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if len(m.Messages) == 0 {
		return ""
	}
	return m.Messages[len(m.Messages)-1].Type
}

// Frames returns the frames of one type, optionally filtered by board/request id.
func (m *MockClient) Frames(frameType, id string) []protocol.WSResponse {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	var out []protocol.WSResponse
	for _, msg := range m.Messages {
		if msg.Type == frameType && (id == "" || msg.ID == id) {
			out = append(out, msg)
		}
	}
	return out
}

type MockKafkaWriter struct {
	Messages   []kafka.Message
	Mu         sync.Mutex
	ShouldFail bool
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.ShouldFail {
		return errors.New("kafka error")
	}
	m.Messages = append(m.Messages, msgs...)
	return nil
}

func (m *MockKafkaWriter) Close() error { return nil }

type MockKafkaReader struct {
	Messages []kafka.Message
	Index    int
	Mu       sync.Mutex
	// Closed simulates a closed reader
	Closed bool
}

// ReadMessage returns DeadlineExceeded once the messages run out, which ends a tail cleanly.
func (m *MockKafkaReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if m.Closed {
		return kafka.Message{}, io.EOF
	}
	if m.Index >= len(m.Messages) {
		return kafka.Message{}, context.DeadlineExceeded
	}

	msg := m.Messages[m.Index]
	m.Index++
	return msg, nil
}

func (m *MockKafkaReader) Close() error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Closed = true
	return nil
}

type MockKafkaConn struct {
	CreatedTopics []string
	NotReady      bool
}

func (m *MockKafkaConn) Controller() (kafka.Broker, error) {
	return kafka.Broker{Host: "localhost", Port: 9092}, nil
}
func (m *MockKafkaConn) Close() error { return nil }
func (m *MockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	for _, t := range topics {
		m.CreatedTopics = append(m.CreatedTopics, t.Topic)
	}
	return nil
}
func (m *MockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	if m.NotReady {
		return nil, nil
	}
	return []kafka.Partition{{ID: 0}}, nil
}

type MockKafkaDialer struct {
	ConnSpy *MockKafkaConn
	Dialed  []string
}

func (m *MockKafkaDialer) DialContext(ctx context.Context, network, address string) (view.KafkaConn, error) {
	m.Dialed = append(m.Dialed, address)
	if m.ConnSpy == nil {
		m.ConnSpy = &MockKafkaConn{}
	}
	return m.ConnSpy, nil
}

package view

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaDialer interface {
	DialContext(ctx context.Context, network, address string) (KafkaConn, error)
}

type KafkaConn interface {
	Controller() (kafka.Broker, error)
	Close() error
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
}

// RealKafkaConn adapts a *kafka.Conn to our interface
type RealKafkaConn struct{ *kafka.Conn }

func (c *RealKafkaConn) Controller() (kafka.Broker, error) { return c.Conn.Controller() }
func (c *RealKafkaConn) Close() error                      { return c.Conn.Close() }
func (c *RealKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	return c.Conn.CreateTopics(topics...)
}
func (c *RealKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	return c.Conn.ReadPartitions(topics...)
}

// RealKafkaDialer adapts *kafka.Dialer
type RealKafkaDialer struct{ *kafka.Dialer }

func (d *RealKafkaDialer) DialContext(ctx context.Context, network, address string) (KafkaConn, error) {
	conn, err := d.Dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, err
	}
	return &RealKafkaConn{Conn: conn}, nil
}

// TopicCreator makes sure the feed topic exists before the first write.
type TopicCreator struct {
	logger     *zap.Logger
	dialer     KafkaDialer
	sleep      func(time.Duration)
	partitions int
}

func NewTopicCreator(logger *zap.Logger, dialer KafkaDialer, sleep func(time.Duration)) *TopicCreator {
	return &TopicCreator{
		logger:     logger,
		dialer:     dialer,
		sleep:      sleep,
		partitions: 4,
	}
}

func (tc *TopicCreator) Create(ctx context.Context, brokers []string, topicName string) error {
	if len(brokers) == 0 {
		return fmt.Errorf("no brokers for topic %s", topicName)
	}

	var conn KafkaConn
	var err error

	for _, addr := range brokers {
		conn, err = tc.dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			break
		}
	}
	if conn == nil {
		return fmt.Errorf("dial brokers: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("get controller: %w", err)
	}

	controllerAddr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))
	controllerConn, err := tc.dialer.DialContext(ctx, "tcp", controllerAddr)
	if err != nil {
		return fmt.Errorf("dial controller %s: %w", controllerAddr, err)
	}
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topicName,
		NumPartitions:     tc.partitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		tc.logger.Info("Topic creation finished (might already exist)", zap.Error(err))
	} else {
		tc.logger.Info("Topic creation request sent", zap.String("topic", topicName))
	}

	return tc.waitForTopic(conn, topicName)
}

func (tc *TopicCreator) waitForTopic(conn KafkaConn, topicName string) error {
	for i := 0; i < 5; i++ {
		tc.sleep(200 * time.Millisecond)
		partitions, err := conn.ReadPartitions(topicName)
		if err == nil && len(partitions) > 0 {
			tc.logger.Info("Topic is ready", zap.String("topic", topicName), zap.Int("partitions", len(partitions)))
			return nil
		}
	}
	return fmt.Errorf("topic %s not ready", topicName)
}

// Package notifier fans recorded alerts out to external systems.
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"

	"printwatch/internal/models"
)

var (
	ErrNotifierClosed  = errors.New("notifier is closed")
	ErrSerializeFailed = errors.New("failed to serialize alert")
)

// KafkaConfig is read from the kafka.* config keys.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	Compression  string // none | gzip | snappy | lz4 | zstd
	WriteTimeout time.Duration
	MaxAttempts  int
	BatchSize    int
	BatchTimeout time.Duration
}

// messageWriter is the subset of *kafka.Writer the notifier needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// alertMessage is the payload published for every recorded alert.
type alertMessage struct {
	Source string       `json:"source"`
	Alert  models.Alert `json:"alert"`
}

// Kafka publishes alerts to a topic, keyed by anomaly code.
type Kafka struct {
	writer messageWriter
	closed atomic.Bool
}

func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("topic is required")
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	// Notify runs synchronously on a rule loop, so flush each alert on its own.
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequireOne,
		Compression:  getCompression(cfg.Compression),
		MaxAttempts:  cfg.MaxAttempts,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
	}
	return newKafka(w), nil
}

func newKafka(w messageWriter) *Kafka {
	return &Kafka{writer: w}
}

func getCompression(name string) compress.Compression {
	switch name {
	case "gzip":
		return compress.Gzip
	case "snappy":
		return compress.Snappy
	case "lz4":
		return compress.Lz4
	case "zstd":
		return compress.Zstd
	default:
		return compress.None
	}
}

// Notify publishes one alert. It is called after the alert is persisted.
func (k *Kafka) Notify(ctx context.Context, a models.Alert) error {
	if k.closed.Load() {
		return ErrNotifierClosed
	}

	data, err := json.Marshal(alertMessage{Source: "printwatch", Alert: a})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerializeFailed, err)
	}

	msg := kafka.Message{
		Key:   []byte(a.Code),
		Value: data,
		Headers: []kafka.Header{
			{Key: "alert_id", Value: []byte(strconv.FormatInt(a.ID, 10))},
			{Key: "category", Value: []byte(a.Category)},
			{Key: "severity", Value: []byte(a.Severity)},
		},
		Time: a.CreatedAt,
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish alert %d: %w", a.ID, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	if k.closed.Swap(true) {
		return nil
	}
	return k.writer.Close()
}

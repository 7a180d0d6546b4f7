package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/draogmims2caom2/internal/caom"
	"github.com/couchcryptid/draogmims2caom2/internal/config"
)

// messageWriter is the subset of *kafkago.Writer the sink uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes observations to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
	now    func() time.Time
}

// NewWriter creates a Kafka producer for the configured observation topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		WriteTimeout: cfg.ShutdownTimeout,
	}
	return &Writer{writer: w, logger: logger, now: time.Now}
}

// Load serializes obs and publishes it, keyed by collection and observation ID
// so every version of an observation lands on the same partition.
func (w *Writer) Load(ctx context.Context, obs *caom.Observation) error {
	msg, err := serializeToMessage(obs, w.now())
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish observation %s: %w", obs.ObservationID, err)
	}
	w.logger.Debug("observation published", "key", string(msg.Key))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Observation into a Kafka message.
func serializeToMessage(obs *caom.Observation, processedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(obs)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(obs.Collection + "/" + obs.ObservationID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "collection", Value: []byte(obs.Collection)},
			{Key: "observation_id", Value: []byte(obs.ObservationID)},
			{Key: "processed_at", Value: []byte(processedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}

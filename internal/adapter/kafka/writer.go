package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/bike-collision-map-service/internal/config"
	"github.com/couchcryptid/bike-collision-map-service/internal/domain"
)

// Writer publishes distribution snapshots to a Kafka topic. It implements
// pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishDistributions writes one message per attribute in a single batch.
// Messages are keyed by attribute so a compacted topic keeps the latest
// snapshot of each.
func (w *Writer) PublishDistributions(ctx context.Context, loadedAt time.Time, dists []domain.Distribution) error {
	if len(dists) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(dists))
	for i := range dists {
		msg, err := serializeToMessage(dists[i], loadedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write distributions: %w", err)
	}
	w.logger.Info("distributions published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// snapshot is the message value.
type snapshot struct {
	domain.Distribution
	LoadedAt time.Time `json:"loaded_at"`
}

func serializeToMessage(dist domain.Distribution, loadedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(snapshot{Distribution: dist, LoadedAt: loadedAt.UTC()})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s distribution: %w", dist.Attribute, err)
	}
	return kafkago.Message{
		Key:   []byte(dist.Attribute),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "attribute", Value: []byte(dist.Attribute)},
			{Key: "loaded_at", Value: []byte(loadedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}

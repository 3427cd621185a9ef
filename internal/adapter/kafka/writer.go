package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/epea-data-etl/internal/config"
	"github.com/couchcryptid/epea-data-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes campaigns to the campaign feed topic.
// It implements pipeline.CampaignPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured campaign topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaCampaignTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishCampaigns writes one message per campaign in a single
// WriteMessages call. Keys are "<year>-<month>", so hashing keeps every
// update of a slot on the same partition.
func (w *Writer) PublishCampaigns(ctx context.Context, doc domain.Document) error {
	if len(doc.Campaigns) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(doc.Campaigns))
	for i := range doc.Campaigns {
		msg, err := serializeToMessage(doc.Campaigns[i], doc.Metadata.LastUpdated)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write campaign messages: %w", err)
	}
	w.logger.Info("campaigns published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a campaign into a Kafka message.
func serializeToMessage(c domain.Campaign, lastUpdated string) (kafkago.Message, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize campaign %s: %w", c.Key(), err)
	}
	visits := domain.NA
	if c.NroVisitas != nil {
		visits = *c.NroVisitas
	}
	return kafkago.Message{
		Key:   []byte(c.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "nro_visitas", Value: []byte(visits)},
			{Key: "last_updated", Value: []byte(lastUpdated)},
		},
	}, nil
}

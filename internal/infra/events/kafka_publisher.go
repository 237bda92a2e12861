package events

import (
	"context"
	"log/slog"

	"shopcart/internal/domain/entity"
	"shopcart/internal/domain/service"
	"shopcart/internal/errors"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the slice of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaPublisher implements EventPublisher with a kafka-go writer. Events
// are keyed by user so one user's events land on one partition in order.
type kafkaPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewKafkaPublisher creates a synchronous writer for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) service.EventPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	logger.Info("Kafka publisher initialized",
		slog.Any("brokers", brokers),
		slog.String("topic", topic),
	)

	return &kafkaPublisher{writer: writer, logger: logger}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event *entity.DomainEvent) error {
	msg, err := toKafkaMessage(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrapf(err, "write %s", event.Type)
	}

	p.logger.DebugContext(ctx, "[Kafka] Event published",
		slog.String("event_type", event.Type.String()),
		slog.String("event_id", event.ID.String()),
	)

	return nil
}

func (p *kafkaPublisher) Close() error {
	return errors.WithStack(p.writer.Close())
}

func toKafkaMessage(event *entity.DomainEvent) (kafka.Message, error) {
	data, attributes, err := encode(event)
	if err != nil {
		return kafka.Message{}, err
	}

	headers := make([]kafka.Header, 0, len(attributes))
	for key, value := range attributes {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(value)})
	}

	return kafka.Message{
		Key:     []byte(orderingKey(event)),
		Value:   data,
		Headers: headers,
		Time:    event.OccurredAt,
	}, nil
}

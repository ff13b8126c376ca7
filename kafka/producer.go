package kafka

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"storefront/services"
)

// Producer publishes purchase events to Kafka.
type Producer struct {
	writer *kafkago.Writer
	topic  string
	logger *zap.Logger
}

func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	w := &kafkago.Writer{
		Addr:     kafkago.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafkago.LeastBytes{},
	}
	logger.Info("kafka producer initialized",
		zap.String("topic", topic),
		zap.Strings("brokers", brokers),
	)
	return &Producer{writer: w, topic: topic, logger: logger}
}

// PublishPurchaseCompleted implements services.EventPublisher.
func (p *Producer) PublishPurchaseCompleted(evt services.PurchaseEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	msg := kafkago.Message{
		Key:   []byte(evt.PurchaseID.String()),
		Value: data,
	}
	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		p.logger.Error("failed to publish purchase event",
			zap.String("purchase_id", evt.PurchaseID.String()),
			zap.String("topic", p.topic),
			zap.Error(err),
		)
		return err
	}
	p.logger.Info("purchase event published",
		zap.String("purchase_id", evt.PurchaseID.String()),
		zap.String("topic", p.topic),
	)
	return nil
}

func (p *Producer) Close() error {
	p.logger.Info("closing kafka writer", zap.String("topic", p.topic))
	return p.writer.Close()
}

package messaging

import (
	"context"
	"fmt"
	"time"

	"bookstore/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const producerService = "bookstore-service"

// KafkaProducer отправляет события об отзывах в топик review_events.
// Ключ сообщения ISBN книги, поэтому события одной книги идут по порядку.
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    100,
		// Запись синхронная и идет в рамках HTTP запроса
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}

	return &KafkaProducer{writer: writer, topic: topic}
}

func (p *KafkaProducer) Topic() string {
	return p.topic
}

func (p *KafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	timer := metrics.NewKafkaProduceTimer(producerService, p.topic)

	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		timer.Error()
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	timer.Success()
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// NoopPublisher используется, когда KAFKA_BROKERS не задан
type NoopPublisher struct{}

func (NoopPublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}

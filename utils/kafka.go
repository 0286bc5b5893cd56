package utils

import (
	"context"
	"log"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/codechella/console-backend/config"
)

// KafkaWriter publishes console notification events
var KafkaWriter *kafka.Writer

var kafkaBrokers []string
var kafkaTopic string

// InitializeKafka sets up the shared writer. Kafka is optional: with no
// brokers configured the console degrades to direct in-app delivery.
func InitializeKafka(cfg *config.Config) {
	if cfg.KafkaBrokers == "" {
		log.Println("ℹ️ Kafka disabled (no brokers configured)")
		return
	}

	kafkaBrokers = strings.Split(cfg.KafkaBrokers, ",")
	kafkaTopic = cfg.KafkaNotificationTopic

	KafkaWriter = &kafka.Writer{
		Addr:     kafka.TCP(kafkaBrokers...),
		Topic:    kafkaTopic,
		Balancer: &kafka.LeastBytes{},
	}

	log.Printf("✅ Kafka writer ready (topic=%s)", kafkaTopic)
}

// IsKafkaEnabled reports whether the notification pipeline runs through Kafka
func IsKafkaEnabled() bool {
	return KafkaWriter != nil
}

// PublishNotificationEvent writes one event to the notification topic
func PublishNotificationEvent(ctx context.Context, key string, payload []byte) error {
	if KafkaWriter == nil {
		return nil
	}
	return KafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

// NewNotificationReader builds a consumer for the notification topic
func NewNotificationReader(groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: kafkaBrokers,
		Topic:   kafkaTopic,
		GroupID: groupID,
	})
}

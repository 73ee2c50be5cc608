package kafka

import (
	"context"
	"crypto/tls"
	"fmt"
	"sort"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

const defaultBatchTimeout = 10 * time.Millisecond

// Message is a record to publish. Headers are written in key order.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer publishes to any topic through one shared writer. Messages with
// the same key land on the same partition.
type Producer struct {
	writer messageWriter
}

func NewProducer(cfg Config) *Producer {
	transport := &kafkago.Transport{ClientID: cfg.ClientID}
	if cfg.TLS {
		transport.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = defaultBatchTimeout
	}

	return &Producer{writer: &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Balancer:               &kafkago.Hash{},
		BatchTimeout:           batchTimeout,
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: cfg.AutoCreateTopics,
		Transport:              transport,
	}}
}

// Publish writes messages to topic and blocks until the brokers acknowledge
// them or ctx ends.
func (p *Producer) Publish(ctx context.Context, topic string, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}
	if err := p.writer.WriteMessages(ctx, toKafkaMessages(topic, messages)...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", topic, err)
	}
	return nil
}

// Close flushes pending batches and releases connections.
func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("kafka close writer: %w", err)
	}
	return nil
}

func toKafkaMessages(topic string, messages []Message) []kafkago.Message {
	out := make([]kafkago.Message, len(messages))
	for i, msg := range messages {
		keys := make([]string, 0, len(msg.Headers))
		for k := range msg.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		headers := make([]kafkago.Header, len(keys))
		for j, k := range keys {
			headers[j] = kafkago.Header{Key: k, Value: []byte(msg.Headers[k])}
		}
		out[i] = kafkago.Message{Topic: topic, Key: msg.Key, Value: msg.Value, Headers: headers}
	}
	return out
}

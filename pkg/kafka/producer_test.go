package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	writeErr error
	closeErr error
	written  []kafkago.Message
	calls    int
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.calls++
	f.written = append(f.written, msgs...)
	return f.writeErr
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return f.closeErr
}

func TestNewProducer(t *testing.T) {
	p := NewProducer(Config{
		Brokers:  []string{"localhost:9092", "localhost:9093"},
		ClientID: "scam-service",
	})

	w, ok := p.writer.(*kafkago.Writer)
	require.True(t, ok)
	assert.Equal(t, "tcp", w.Addr.Network())
	assert.Contains(t, w.Addr.String(), "localhost:9093")
	assert.Empty(t, w.Topic, "topic is set per message")
	assert.Equal(t, defaultBatchTimeout, w.BatchTimeout)
	assert.Equal(t, kafkago.RequireAll, w.RequiredAcks)
	assert.False(t, w.AllowAutoTopicCreation)

	transport, ok := w.Transport.(*kafkago.Transport)
	require.True(t, ok)
	assert.Equal(t, "scam-service", transport.ClientID)
	assert.Nil(t, transport.TLS)
}

func TestNewProducerWithOptions(t *testing.T) {
	p := NewProducer(Config{Brokers: []string{"kafka:9093"}, TLS: true, BatchTimeout: time.Second, AutoCreateTopics: true})

	w := p.writer.(*kafkago.Writer)
	assert.Equal(t, time.Second, w.BatchTimeout)
	assert.True(t, w.AllowAutoTopicCreation)
	assert.NotNil(t, w.Transport.(*kafkago.Transport).TLS)
}

func TestPublish(t *testing.T) {
	fw := &fakeWriter{}
	p := &Producer{writer: fw}

	err := p.Publish(context.Background(), "scam.events",
		Message{Key: []byte("a"), Value: []byte("1")},
		Message{Key: []byte("b"), Value: []byte("2")},
	)

	require.NoError(t, err)
	assert.Equal(t, 1, fw.calls, "one batch per publish")
	require.Len(t, fw.written, 2)
	for _, m := range fw.written {
		assert.Equal(t, "scam.events", m.Topic)
	}
	assert.Equal(t, []byte("b"), fw.written[1].Key)
}

func TestPublishWrapsWriterError(t *testing.T) {
	fw := &fakeWriter{writeErr: kafkago.LeaderNotAvailable}
	p := &Producer{writer: fw}

	err := p.Publish(context.Background(), "scam.events", Message{Value: []byte("x")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scam.events")
	assert.True(t, errors.Is(err, kafkago.LeaderNotAvailable))
}

func TestPublishNothingIsNoop(t *testing.T) {
	fw := &fakeWriter{}
	p := &Producer{writer: fw}

	require.NoError(t, p.Publish(context.Background(), "scam.events"))
	assert.Zero(t, fw.calls)
}

func TestClose(t *testing.T) {
	fw := &fakeWriter{closeErr: errors.New("flush failed")}
	p := &Producer{writer: fw}

	err := p.Close()

	assert.True(t, fw.closed)
	assert.ErrorContains(t, err, "flush failed")
}

func TestToKafkaMessages(t *testing.T) {
	msgs := toKafkaMessages("scam.events", []Message{{
		Key:   []byte("assessment-1"),
		Value: []byte(`{"risk_score":99}`),
		Headers: map[string]string{
			"event_type":   "scam.assessment.completed",
			"content-type": "application/json",
		},
	}})

	require.Len(t, msgs, 1)
	assert.Equal(t, "scam.events", msgs[0].Topic)
	assert.Equal(t, []byte("assessment-1"), msgs[0].Key)
	require.Len(t, msgs[0].Headers, 2)
	assert.Equal(t, "content-type", msgs[0].Headers[0].Key)
	assert.Equal(t, "event_type", msgs[0].Headers[1].Key)
	assert.Equal(t, []byte("scam.assessment.completed"), msgs[0].Headers[1].Value)
}

package kafka

import "time"

// Config holds Kafka connection parameters.
type Config struct {
	ClientID string
	Brokers  []string

	// BatchTimeout bounds how long the writer waits to fill a batch.
	BatchTimeout time.Duration

	TLS bool

	// AutoCreateTopics lets the first publish create a missing topic on
	// brokers that allow it.
	AutoCreateTopics bool
}

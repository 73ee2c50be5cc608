package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, had := os.LookupEnv(key)
	_ = os.Unsetenv(key)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, prev)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_PORT", "GRPC_PORT", "LOG_FORMAT", "OPENAI_MODEL", "PHONE_DEFAULT_REGION",
		"PROVIDER_TIMEOUT", "REPUTATION_CACHE_TTL", "MAX_UPLOAD_BYTES", "KAFKA_BROKERS",
		"KAFKA_TOPIC", "SAFE_BROWSING_API_KEY", "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN",
	} {
		unsetEnv(t, key)
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, ":9090", cfg.GRPCAddress())
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, "TW", cfg.PhoneDefaultRegion)
	assert.Equal(t, "scam.events", cfg.KafkaTopic)

	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 24*time.Hour, cfg.ReputationCacheTTL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.SafeBrowsingEnabled())
	assert.False(t, cfg.TwilioEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "18080")
	t.Setenv("GRPC_PORT", "19090")
	t.Setenv("PROVIDER_TIMEOUT", "3s")
	t.Setenv("REPUTATION_CACHE_TTL", "1h")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,,")
	t.Setenv("SAFE_BROWSING_API_KEY", "sb-key")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GRPC_REFLECTION", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4317")
	t.Setenv("TRACE_SAMPLE_RATE", "0.25")
	unsetEnv(t, "VISION_API_KEY")

	cfg := Load()

	assert.Equal(t, ":18080", cfg.HTTPAddress())
	assert.Equal(t, ":19090", cfg.GRPCAddress())
	assert.Equal(t, 3*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, time.Hour, cfg.ReputationCacheTTL)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.SafeBrowsingEnabled())
	assert.True(t, cfg.TwilioEnabled())
	assert.True(t, cfg.OpenAIEnabled())
	assert.False(t, cfg.VisionEnabled())
	assert.True(t, cfg.GRPCReflection)
	assert.True(t, cfg.TracingEnabled())
	assert.Equal(t, 0.25, cfg.TraceSampleRate)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PROVIDER_TIMEOUT", "soon")
	t.Setenv("MAX_UPLOAD_BYTES", "-5")
	t.Setenv("TRACE_SAMPLE_RATE", "2")

	cfg := Load()

	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 1.0, cfg.TraceSampleRate)
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the scam service. It is read once at
// startup and never mutated afterwards.
type Config struct {
	GRPCPort    string
	HTTPPort    string
	Environment string
	LogLevel    string
	LogFormat   string

	OTLPEndpoint    string
	TraceSampleRate float64

	GRPCTLSCertFile string
	GRPCTLSKeyFile  string
	GRPCReflection  bool

	SafeBrowsingAPIKey  string
	SafeBrowsingBaseURL string

	TwilioAccountSID    string
	TwilioAuthToken     string
	TwilioLookupBaseURL string
	PhoneDefaultRegion  string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	ModelServerURL         string
	ONNXModelDir           string
	ONNXRuntimeLibraryPath string

	VisionAPIKey  string
	VisionBaseURL string

	RedisAddr     string
	RedisPassword string

	DatabaseURL   string
	MigrationsDir string

	KafkaTopic   string
	KafkaBrokers []string

	TrainingCSVPath string

	ProviderTimeout    time.Duration
	ReputationCacheTTL time.Duration
	MaxUploadBytes     int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		GRPCPort:    getEnv("GRPC_PORT", "9090"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),

		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		TraceSampleRate: getEnvFloat("TRACE_SAMPLE_RATE", 1),

		GRPCTLSCertFile: getEnv("GRPC_TLS_CERT_FILE", ""),
		GRPCTLSKeyFile:  getEnv("GRPC_TLS_KEY_FILE", ""),
		GRPCReflection:  getEnv("GRPC_REFLECTION", "") == "true",

		SafeBrowsingAPIKey:  getEnv("SAFE_BROWSING_API_KEY", ""),
		SafeBrowsingBaseURL: getEnv("SAFE_BROWSING_BASE_URL", "https://safebrowsing.googleapis.com/v4"),

		TwilioAccountSID:    getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:     getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioLookupBaseURL: getEnv("TWILIO_LOOKUP_BASE_URL", "https://lookups.twilio.com/v2"),
		PhoneDefaultRegion:  getEnv("PHONE_DEFAULT_REGION", "TW"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		ModelServerURL:         getEnv("MODEL_SERVER_URL", ""),
		ONNXModelDir:           getEnv("ONNX_MODEL_DIR", ""),
		ONNXRuntimeLibraryPath: getEnv("ONNXRUNTIME_SHARED_LIBRARY_PATH", ""),

		VisionAPIKey:  getEnv("VISION_API_KEY", ""),
		VisionBaseURL: getEnv("VISION_BASE_URL", "https://vision.googleapis.com/v1"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "file://migrations"),

		KafkaBrokers: getEnvList("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "scam.events"),

		TrainingCSVPath: getEnv("TRAINING_CSV_PATH", ""),

		ProviderTimeout:    getEnvDuration("PROVIDER_TIMEOUT", 10*time.Second),
		ReputationCacheTTL: getEnvDuration("REPUTATION_CACHE_TTL", 24*time.Hour),
		MaxUploadBytes:     getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
	}
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

// SafeBrowsingEnabled reports whether URL reputation lookups are configured.
func (c *Config) SafeBrowsingEnabled() bool { return c.SafeBrowsingAPIKey != "" }

// TwilioEnabled reports whether phone reputation lookups are configured.
func (c *Config) TwilioEnabled() bool { return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" }

// OpenAIEnabled reports whether the semantic classifier and narrative generator are configured.
func (c *Config) OpenAIEnabled() bool { return c.OpenAIAPIKey != "" }

// VisionEnabled reports whether text extraction is configured.
func (c *Config) VisionEnabled() bool { return c.VisionAPIKey != "" }

// TracingEnabled reports whether spans are exported to an OTLP collector.
func (c *Config) TracingEnabled() bool { return c.OTLPEndpoint != "" }

// GRPCTLSEnabled reports whether the gRPC server should serve TLS.
func (c *Config) GRPCTLSEnabled() bool { return c.GRPCTLSCertFile != "" && c.GRPCTLSKeyFile != "" }

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil && i > 0 {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 && f <= 1 {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty entries.
func getEnvList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

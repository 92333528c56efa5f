package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	// Server
	HTTPAddr string
	LogLevel string
	LogJSON  bool // plain JSON lines instead of the console writer

	// Notifications: per-subscriber buffer for the websocket toast stream
	NotifyBufferSize int

	// Storage backend: "local" (JSON key-value file) or "postgres"
	StorageBackend string
	LocalStorePath string
	DatabaseURL    string

	// Gemini ambient defaults. Per-user provider choice and keys live in the settings store.
	GeminiAPIKey      string // used when settings carry no explicit Gemini key
	GeminiAPIEndpoint string // if set, overrides default Gemini API base URL
	GeminiModelImage  string // cover art, e.g. gemini-2.5-flash-image
	GeminiModelTTS    string // TTS model, e.g. gemini-2.5-flash-preview-tts
	GeminiTTSVoice    string // prebuilt voice name, e.g. Puck

	// Kafka (optional; empty brokers disables event publishing)
	KafkaBrokers     []string
	KafkaTopicEvents string
	KafkaGroupRelay  string // consumer group of the webhook relay

	// Webhook relay target for generation events (cmd/relay)
	EventsWebhookURL    string
	EventsWebhookSecret string // HMAC-SHA256 signing secret; empty sends unsigned

	// S3/Storage for asset export (optional; empty bucket disables export)
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	// Auth: bcrypt hash of the API bearer token. Empty disables auth.
	APIKeyHash string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogJSON:  getEnvBool("LOG_JSON", false),

		NotifyBufferSize: clampMin(getEnvInt("NOTIFY_BUFFER_SIZE", 16), 1),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", "local")),
		LocalStorePath: getEnv("LOCAL_STORE_PATH", "data/studio.json"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),

		GeminiAPIKey:      getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
		GeminiAPIEndpoint: getEnv("GEMINI_API_ENDPOINT", ""),
		GeminiModelImage:  getEnv("GEMINI_MODEL_IMAGE", "gemini-2.5-flash-image"),
		GeminiModelTTS:    getEnv("GEMINI_MODEL_TTS", "gemini-2.5-flash-preview-tts"),
		GeminiTTSVoice:    getEnv("GEMINI_TTS_VOICE", "Puck"),

		KafkaBrokers:     getEnvList("KAFKA_BROKERS"),
		KafkaTopicEvents: getEnv("KAFKA_TOPIC_EVENTS", "dearme.events.v1"),
		KafkaGroupRelay:  getEnv("KAFKA_GROUP_RELAY", "dearme-webhook-relay"),

		EventsWebhookURL:    getEnv("EVENTS_WEBHOOK_URL", ""),
		EventsWebhookSecret: getEnv("EVENTS_WEBHOOK_SECRET", ""),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3PublicURL: getEnv("S3_PUBLIC_URL", ""),

		APIKeyHash: getEnv("STUDIO_API_KEY_HASH", ""),
	}
}

// ExportEnabled reports whether an S3 bucket is configured for asset export.
func (c *Config) ExportEnabled() bool {
	return c.S3Bucket != ""
}

// UsePostgres reports whether projects and settings are persisted in Postgres.
func (c *Config) UsePostgres() bool {
	return c.StorageBackend == "postgres"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping empty entries. Unset yields nil.
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// clampMin returns v if v >= min, otherwise min.
func clampMin(v, min int) int {
	if v < min {
		return min
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

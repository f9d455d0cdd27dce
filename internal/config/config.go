package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Chroma   ChromaConfig
	LLM      LLMConfig
	Upstream UpstreamConfig
	Quota    QuotaConfig
	Chat     ChatConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	UploadDir          string
	JWTSecret          string
	TikaURL            string
	EventTopic         string
}

type DatabaseConfig struct {
	Connection string
}

// ChromaConfig holds the connection settings for the external vector store.
// Tenant and Database scope every collection operation.
type ChromaConfig struct {
	Host     string
	Port     string
	Tenant   string
	Database string
	Token    string
}

type LLMConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	TitleModel     string
	EmbeddingURL   string
	EmbeddingModel string
	TimeoutSeconds int
}

// UpstreamConfig configures the external conversation-management API that
// admin agent operations are mirrored to. Client-credentials OAuth2.
type UpstreamConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scope        string
}

type QuotaConfig struct {
	AlertThresholds []int
}

type ChatConfig struct {
	MaxMessageLength int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			TikaURL:            getEnv("TIKA_SERVER_URL", "http://localhost:9998"),
			EventTopic:         getEnv("MESSAGE_CREATED_TOPIC_NAME", "MESSAGE_CREATED"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Chroma: ChromaConfig{
			Host:     getEnv("CHROMA_HOST", "localhost"),
			Port:     getEnv("CHROMA_PORT", "8000"),
			Tenant:   getEnv("CHROMA_TENANT", "default_tenant"),
			Database: getEnv("CHROMA_DATABASE", "default_database"),
			Token:    getEnv("CHROMA_TOKEN", ""),
		},
		LLM: LLMConfig{
			BaseURL:        getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
			APIKey:         getEnv("LLM_API_KEY", ""),
			Model:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			TitleModel:     getEnv("LLM_TITLE_MODEL", "gpt-4o-mini"),
			EmbeddingURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:11434"),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			TimeoutSeconds: getEnvAsInt("LLM_TIMEOUT_SECONDS", 60),
		},
		Upstream: UpstreamConfig{
			BaseURL:      getEnv("UPSTREAM_BASE_URL", ""),
			TokenURL:     getEnv("UPSTREAM_TOKEN_URL", ""),
			ClientID:     getEnv("UPSTREAM_CLIENT_ID", ""),
			ClientSecret: getEnv("UPSTREAM_CLIENT_SECRET", ""),
			Scope:        getEnv("UPSTREAM_SCOPE", "agents"),
		},
		Quota: QuotaConfig{
			AlertThresholds: getEnvAsIntSlice("QUOTA_ALERT_THRESHOLDS", []int{50, 25, 10}),
		},
		Chat: ChatConfig{
			MaxMessageLength: getEnvAsInt("CHAT_MAX_MESSAGE_LENGTH", 4000),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsIntSlice(key string, fallback []int) []int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	parts := strings.Split(strValue, ",")
	values := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fallback
		}
		values = append(values, v)
	}
	return values
}

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Products ProductAPIConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	EventTopic         string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JwtSecret      string
	AccessTokenTTL int // minutes
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type ProductAPIConfig struct {
	BaseURL     string
	ApiKey      string
	CacheTTLMin int
}

type AIConfig struct {
	Provider      string // "openai" or "ollama"
	ApiKey        string
	BaseURL       string // OpenAI-compatible endpoint, e.g. https://api.x.ai/v1
	Model         string
	OllamaBaseURL string
	OllamaModel   string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			EventTopic:         getEnv("ACTIVITY_EVENT_TOPIC_NAME", "USER_ACTIVITY"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret:      getEnv("JWT_SECRET", ""),
			AccessTokenTTL: getEnvAsInt("ACCESS_TOKEN_TTL_MINUTES", 30),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "ShopQuery"),
		},
		Products: ProductAPIConfig{
			BaseURL:     getEnv("PRODUCT_API_BASE_URL", "https://data.unwrangle.com/api/getter/"),
			ApiKey:      getEnv("PRODUCT_API_KEY", ""),
			CacheTTLMin: getEnvAsInt("PRODUCT_CACHE_TTL_MINUTES", 10),
		},
		Ai: AIConfig{
			Provider:      getEnv("AI_PROVIDER", "openai"),
			ApiKey:        getEnv("AI_API_KEY", ""),
			BaseURL:       getEnv("AI_BASE_URL", "https://api.x.ai/v1"),
			Model:         getEnv("AI_MODEL", "grok-3-mini"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:   getEnv("OLLAMA_MODEL", "llama3"),
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

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Console
	JWTSecret           string
	ConsolePasswordHash string
	FrontendURL         string

	// Answer backend
	AnswerProvider string
	AnswerAPIKey   string
	AnswerBaseURL  string
	ModelName      string
	MaxTokens      int
	AnswerTimeout  int

	// Conversation
	MaxResponseLength    int
	MaxHistoryEntries    int
	TopicResetEnabled    bool
	TopicResetMinOverlap int
	PersonaPath          string

	// Skill
	SkillID string

	// Persistence
	StoreDriver string

	// Workers
	ArchiveWorkers int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		RedisURL:    mustGetEnv("REDIS_URL"),

		JWTSecret:           mustGetEnv("JWT_SECRET"),
		ConsolePasswordHash: mustGetEnv("CONSOLE_PASSWORD_HASH"),
		FrontendURL:         getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),

		AnswerProvider: getEnvOrDefault("ANSWER_PROVIDER", "anthropic"),
		AnswerAPIKey:   getEnvOrDefault("ANSWER_API_KEY", ""),
		AnswerBaseURL:  getEnvOrDefault("ANSWER_BASE_URL", ""),
		ModelName:      getEnvOrDefault("MODEL_NAME", ""),
		MaxTokens:      getEnvAsIntOrDefault("MAX_TOKENS", 1024),
		AnswerTimeout:  getEnvAsIntOrDefault("ANSWER_TIMEOUT_SECONDS", 8),

		MaxResponseLength:    getEnvAsIntOrDefault("MAX_RESPONSE_LENGTH", 8000),
		MaxHistoryEntries:    getEnvAsIntOrDefault("MAX_HISTORY_ENTRIES", 10),
		TopicResetEnabled:    getEnvAsBoolOrDefault("TOPIC_RESET_ENABLED", false),
		TopicResetMinOverlap: getEnvAsIntOrDefault("TOPIC_RESET_MIN_OVERLAP", 1),
		PersonaPath:          getEnvOrDefault("PERSONA_PATH", ""),

		SkillID: getEnvOrDefault("SKILL_ID", ""),

		StoreDriver: getEnvOrDefault("STORE_DRIVER", "none"),

		ArchiveWorkers: getEnvAsIntOrDefault("ARCHIVE_WORKERS", 2),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

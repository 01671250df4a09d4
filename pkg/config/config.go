package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Search   SearchConfig
	Popular  PopularConfig
	OTEL     OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SearchConfig holds search engine tunables.
//
// The hybrid weights control how the normalized lexical rank, fuzzy
// similarity and semantic cosine similarity are combined into one score.
// EmbeddingDim and IVFFlatLists shape the approximate vector index; the
// right lists value depends on corpus size, so it is configuration, not
// a constant.
type SearchConfig struct {
	LexicalWeight   float64
	FuzzyWeight     float64
	SemanticWeight  float64
	FuzzyThreshold  float64
	CandidateLimit  int
	DefaultLimit    int
	MaxLimit        int
	EmbeddingDim    int
	IVFFlatLists    int
	IVFFlatProbes   int
	HistoryDays     int
	SuggestionLimit int
}

// PopularConfig holds popular-search aggregation configuration
type PopularConfig struct {
	WindowDays      int
	MinOccurrences  int
	Limit           int
	RefreshInterval time.Duration
	CacheTTLSeconds int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "search_index"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Search: SearchConfig{
			LexicalWeight:   getEnvAsFloat("SEARCH_LEXICAL_WEIGHT", 0.5),
			FuzzyWeight:     getEnvAsFloat("SEARCH_FUZZY_WEIGHT", 0.2),
			SemanticWeight:  getEnvAsFloat("SEARCH_SEMANTIC_WEIGHT", 0.3),
			FuzzyThreshold:  getEnvAsFloat("SEARCH_FUZZY_THRESHOLD", 0.3),
			CandidateLimit:  getEnvAsInt("SEARCH_CANDIDATE_LIMIT", 200),
			DefaultLimit:    getEnvAsInt("SEARCH_DEFAULT_LIMIT", 20),
			MaxLimit:        getEnvAsInt("SEARCH_MAX_LIMIT", 100),
			EmbeddingDim:    getEnvAsInt("SEARCH_EMBEDDING_DIM", 1536),
			IVFFlatLists:    getEnvAsInt("SEARCH_IVFFLAT_LISTS", 100),
			IVFFlatProbes:   getEnvAsInt("SEARCH_IVFFLAT_PROBES", 10),
			HistoryDays:     getEnvAsInt("SEARCH_HISTORY_DAYS", 90),
			SuggestionLimit: getEnvAsInt("SEARCH_SUGGESTION_LIMIT", 10),
		},
		Popular: PopularConfig{
			WindowDays:      getEnvAsInt("POPULAR_WINDOW_DAYS", 30),
			MinOccurrences:  getEnvAsInt("POPULAR_MIN_OCCURRENCES", 5),
			Limit:           getEnvAsInt("POPULAR_LIMIT", 100),
			RefreshInterval: getEnvAsDuration("POPULAR_REFRESH_INTERVAL", time.Hour),
			CacheTTLSeconds: getEnvAsInt("POPULAR_CACHE_TTL_SECONDS", 300),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "search-service"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

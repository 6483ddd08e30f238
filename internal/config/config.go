// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	LLM      LLMConfig
	Slack    SlackConfig
	Docs     DocsConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings. An empty Addr disables the
// pub/sub fanout; audits still run, but websocket watchers are unavailable.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
	RateLimit    float64
	RateBurst    int
}

// LLMConfig holds judgment model settings. The default base URL targets
// Groq's OpenAI-compatible endpoint.
type LLMConfig struct {
	Provider    string
	APIKey      string //nolint:gosec // G117: API credential config
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	MaxRetries  int
}

// SlackConfig holds audit notification settings. Both fields must be set
// for notifications to be enabled.
type SlackConfig struct {
	BotToken string
	Channel  string
}

// DocsConfig points at the model documentation directory ingested at
// startup. Empty Dir skips ingestion.
type DocsConfig struct {
	Dir string
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("SENTINEL_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("SENTINEL_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("SENTINEL_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("SENTINEL_SERVER_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	// Streamed audits hold the response open for the whole run.
	writeTimeout, err := getEnvDuration("SENTINEL_SERVER_WRITE_TIMEOUT", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateLimit, err := getEnvFloat("SENTINEL_SERVER_RATE_LIMIT", 10)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateBurst, err := getEnvInt("SENTINEL_SERVER_RATE_BURST", 20)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	llmMaxTokens, err := getEnvInt("SENTINEL_LLM_MAX_TOKENS", 2048)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	llmTemperature, err := getEnvFloat("SENTINEL_LLM_TEMPERATURE", 0.1)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	llmTimeout, err := getEnvDuration("SENTINEL_LLM_TIMEOUT", 45*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	llmMaxRetries, err := getEnvInt("SENTINEL_LLM_MAX_RETRIES", 3)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("SENTINEL_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("SENTINEL_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("SENTINEL_DB_USER", "sentinel"),
			Password: getEnv("SENTINEL_DB_PASSWORD", ""),
			DBName:   getEnv("SENTINEL_DB_NAME", "sentinel_dev"),
			SSLMode:  getEnv("SENTINEL_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("SENTINEL_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("SENTINEL_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Server: ServerConfig{
			Addr:         getEnv("SENTINEL_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
			RateLimit:    rateLimit,
			RateBurst:    rateBurst,
		},
		LLM: LLMConfig{
			Provider:    getEnv("SENTINEL_LLM_PROVIDER", "openai"),
			APIKey:      getEnv("SENTINEL_LLM_API_KEY", ""),
			BaseURL:     getEnv("SENTINEL_LLM_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:       getEnv("SENTINEL_LLM_MODEL", "llama-3.3-70b-versatile"),
			MaxTokens:   llmMaxTokens,
			Temperature: llmTemperature,
			Timeout:     llmTimeout,
			MaxRetries:  llmMaxRetries,
		},
		Slack: SlackConfig{
			BotToken: getEnv("SENTINEL_SLACK_BOT_TOKEN", ""),
			Channel:  getEnv("SENTINEL_SLACK_CHANNEL", ""),
		},
		Docs: DocsConfig{
			Dir: getEnv("SENTINEL_DOCS_DIR", ""),
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	if c.LLM.APIKey == "" {
		return errors.New("SENTINEL_LLM_API_KEY is required")
	}
	if c.LLM.Provider != "openai" && c.LLM.Provider != "anthropic" {
		return fmt.Errorf("SENTINEL_LLM_PROVIDER must be 'openai' or 'anthropic', got %q", c.LLM.Provider)
	}

	if c.Database.SSLMode == "disable" {
		log.Warn().Msg("SENTINEL_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("SENTINEL_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("SENTINEL_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("SENTINEL_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("SENTINEL_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("SENTINEL_SERVER_RATE_LIMIT must be positive, got %g", c.Server.RateLimit)
	}
	if c.Server.RateBurst < 1 {
		return fmt.Errorf("SENTINEL_SERVER_RATE_BURST must be >= 1, got %d", c.Server.RateBurst)
	}
	if c.LLM.MaxTokens < 1 {
		return fmt.Errorf("SENTINEL_LLM_MAX_TOKENS must be >= 1, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("SENTINEL_LLM_TEMPERATURE must be 0-2, got %g", c.LLM.Temperature)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("SENTINEL_LLM_TIMEOUT must be positive, got %s", c.LLM.Timeout)
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("SENTINEL_LLM_MAX_RETRIES must be >= 0, got %d", c.LLM.MaxRetries)
	}
	if c.Slack.BotToken != "" && c.Slack.Channel == "" {
		return errors.New("SENTINEL_SLACK_CHANNEL is required when SENTINEL_SLACK_BOT_TOKEN is set")
	}

	return nil
}

// SlackEnabled reports whether audit notifications should be posted.
func (c *Config) SlackEnabled() bool {
	return c.Slack.BotToken != "" && c.Slack.Channel != ""
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Env              string
	Port             string
	CORSAllowOrigins []string
	LogLevel         string
	LogFormat        string
	DatabaseURL      string
	RedisURL         string

	Anthropic AnthropicConfig
	RateLimit RateLimitConfig
	Report    ReportConfig
	Notify    NotifyConfig
}

// AnthropicConfig configures the report generation model.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	BaseURL   string
	Timeout   time.Duration
}

// RateLimitConfig bounds audit submissions per identity and per IP within a
// fixed window.
type RateLimitConfig struct {
	IdentityLimit int
	IPLimit       int
	Window        time.Duration
}

// ReportConfig tunes report generation and the read path.
type ReportConfig struct {
	MinWait          time.Duration
	PollInterval     time.Duration
	PollTimeout      time.Duration
	PollMinInterval  time.Duration
}

// NotifyConfig configures operator email notifications.
type NotifyConfig struct {
	Enabled   bool
	AWSRegion string
	From      string
	To        []string
}

// Load reads configuration from the environment, with .env files applied
// first for local development. Missing values fall back to defaults; only
// values that would make the process unusable return an error.
func Load() (Config, error) {
	// Best effort: absent files are the normal case outside dev.
	_ = godotenv.Load(".env", "cmd/.env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ANTHROPIC_MODEL", "claude-sonnet-4-20250514")
	v.SetDefault("ANTHROPIC_MAX_TOKENS", 4000)
	v.SetDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com")
	v.SetDefault("ANTHROPIC_TIMEOUT", "60s")

	v.SetDefault("RATE_LIMIT_IDENTITY", 3)
	v.SetDefault("RATE_LIMIT_IP", 10)
	v.SetDefault("RATE_LIMIT_WINDOW", "24h")

	v.SetDefault("REPORT_MIN_WAIT", "8s")
	v.SetDefault("REPORT_POLL_INTERVAL", "4s")
	v.SetDefault("REPORT_POLL_TIMEOUT", "90s")
	v.SetDefault("REPORT_POLL_MIN_INTERVAL", "1s")

	v.SetDefault("NOTIFY_ENABLED", false)
	v.SetDefault("AWS_REGION", "us-east-1")

	cfg := Config{
		Env:              normalizeEnv(v.GetString("ENV")),
		Port:             v.GetString("PORT"),
		CORSAllowOrigins: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		RedisURL:         v.GetString("REDIS_URL"),
		Anthropic: AnthropicConfig{
			APIKey:    v.GetString("ANTHROPIC_API_KEY"),
			Model:     v.GetString("ANTHROPIC_MODEL"),
			MaxTokens: v.GetInt("ANTHROPIC_MAX_TOKENS"),
			BaseURL:   v.GetString("ANTHROPIC_BASE_URL"),
			Timeout:   v.GetDuration("ANTHROPIC_TIMEOUT"),
		},
		RateLimit: RateLimitConfig{
			IdentityLimit: v.GetInt("RATE_LIMIT_IDENTITY"),
			IPLimit:       v.GetInt("RATE_LIMIT_IP"),
			Window:        v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Report: ReportConfig{
			MinWait:         v.GetDuration("REPORT_MIN_WAIT"),
			PollInterval:    v.GetDuration("REPORT_POLL_INTERVAL"),
			PollTimeout:     v.GetDuration("REPORT_POLL_TIMEOUT"),
			PollMinInterval: v.GetDuration("REPORT_POLL_MIN_INTERVAL"),
		},
		Notify: NotifyConfig{
			Enabled:   v.GetBool("NOTIFY_ENABLED"),
			AWSRegion: v.GetString("AWS_REGION"),
			From:      v.GetString("NOTIFY_FROM"),
			To:        splitAndTrim(v.GetString("NOTIFY_TO")),
		},
	}

	if cfg.Env == "production" && cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required in production")
	}
	if cfg.Notify.Enabled && cfg.Notify.From == "" {
		return cfg, fmt.Errorf("NOTIFY_FROM is required when NOTIFY_ENABLED is set")
	}

	return cfg, nil
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

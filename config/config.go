package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// General
	Platforms     []string // platforms queried when none are specified
	LiveMode      bool     // hit real marketplace endpoints instead of synthetic data
	RespectRobots bool
	DelayProfile  string // "cautious", "normal", "aggressive"
	DataDir       string // local JSON stores (favorites, history, alerts)

	// Rate limiting
	RatePerSecond float64
	RateBurst     int

	// HTTP server
	HTTPPort string
	APIKey   string

	// Image recognition
	OpenRouterKey string
	OpenAIKey     string
	VisionModel   string

	// Hosted backend
	DatabaseURL string
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Platforms:     []string{"shopee", "pchome", "momo", "1688"},
		RespectRobots: true,
		DelayProfile:  "normal",
		DataDir:       filepath.Join(home, ".pricelens"),
		RatePerSecond: 2.0,
		RateBurst:     3,
		HTTPPort:      "8080",
	}
}

// LoadFromEnv loads .env file (if present) then overrides config from environment variables.
func (c *Config) LoadFromEnv() {
	// Auto-load .env file; silently ignored if missing
	_ = godotenv.Load()

	if v := os.Getenv("PRICELENS_PLATFORMS"); v != "" {
		c.Platforms = splitList(v)
	}
	if v := os.Getenv("PRICELENS_LIVE"); v == "true" || v == "1" {
		c.LiveMode = true
	}
	if v := os.Getenv("PRICELENS_DELAY_PROFILE"); v != "" {
		c.DelayProfile = v
	}
	if v := os.Getenv("PRICELENS_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("PRICELENS_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("PRICELENS_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateBurst = n
		}
	}
	if v := os.Getenv("PRICELENS_RESPECT_ROBOTS"); v == "false" {
		c.RespectRobots = false
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTPPort = v
	}
	if v := os.Getenv("PRICELENS_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		c.OpenRouterKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAIKey = v
	}
	if v := os.Getenv("PRICELENS_VISION_MODEL"); v != "" {
		c.VisionModel = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

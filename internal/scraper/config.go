package scraper

import (
	"os"
	"strconv"
	"time"
)

// Config holds scraper configuration
type Config struct {
	BaseURL          string
	IndexURL         string
	UserAgent        string
	RequestDelay     time.Duration
	Timeout          time.Duration
	MaxPages         int
	ActiveUnsoldOnly bool
}

// NewConfig creates a new scraper configuration from environment variables
func NewConfig() *Config {
	base := getEnvOrDefault("SCRAPER_BASE_URL", "https://anabi.just.ro")

	delay := 1 * time.Second
	if v := os.Getenv("SCRAPER_REQUEST_DELAY"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			delay = parsed
		}
	}

	timeout := 30 * time.Second
	if v := os.Getenv("SCRAPER_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	maxPages := 50
	if v := os.Getenv("SCRAPER_MAX_PAGES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxPages = parsed
		}
	}

	return &Config{
		BaseURL:          base,
		IndexURL:         base + "/licitatiionline/ads",
		UserAgent:        getEnvOrDefault("SCRAPER_USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		RequestDelay:     delay,
		Timeout:          timeout,
		MaxPages:         maxPages,
		ActiveUnsoldOnly: os.Getenv("SCRAPE_ACTIVE_UNSOLD_ONLY") == "true",
	}
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

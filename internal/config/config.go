package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/basel-ax/imagegen/internal/domain"
)

const defaultModel = "gemini-2.5-flash-image"

// Config holds all configuration for the application
type Config struct {
	APIKey             string
	Endpoint           string
	Model              string
	HTTPTimeout        time.Duration
	DefaultAspectRatio string
	PromptHistoryLimit int
}

// Load loads the configuration from environment variables. An absent API key
// is not an error: the application falls back to local placeholder images.
func Load() (*Config, error) {
	// A .env file is optional for a desktop install
	_ = godotenv.Load()

	config := &Config{
		APIKey:   os.Getenv("GEMINI_API_KEY"),
		Endpoint: os.Getenv("GEMINI_ENDPOINT"),
		Model:    os.Getenv("GEMINI_MODEL"),
	}

	if config.Model == "" {
		config.Model = defaultModel
	}

	if timeout, err := strconv.Atoi(os.Getenv("GEMINI_HTTP_TIMEOUT")); err == nil && timeout > 0 {
		config.HTTPTimeout = time.Duration(timeout) * time.Second
	} else {
		config.HTTPTimeout = 60 * time.Second // default value
	}

	if ratio := os.Getenv("DEFAULT_ASPECT_RATIO"); ratio != "" {
		config.DefaultAspectRatio = ratio
	} else {
		config.DefaultAspectRatio = "1:1" // default value
	}

	if limit, err := strconv.Atoi(os.Getenv("PROMPT_HISTORY_LIMIT")); err == nil && limit > 0 {
		config.PromptHistoryLimit = limit
	} else {
		config.PromptHistoryLimit = 50 // default value
	}

	// Validate the aspect ratio against the values the providers accept
	if !validAspectRatio(config.DefaultAspectRatio) {
		return nil, fmt.Errorf("DEFAULT_ASPECT_RATIO must be one of %v, got %q", domain.AspectRatios, config.DefaultAspectRatio)
	}

	return config, nil
}

// HasAPIKey reports whether remote generation is configured.
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}

func validAspectRatio(ratio string) bool {
	for _, r := range domain.AspectRatios {
		if r == ratio {
			return true
		}
	}
	return false
}

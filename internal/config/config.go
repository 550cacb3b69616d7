// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"vibefeed/internal/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Seed sources understood by SEED_SOURCE besides a YAML file path.
const (
	SeedDefaults  = "defaults"
	SeedGenerated = "generated"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Env                string  `mapstructure:"APP_ENV"`
	LogLevel           string  `mapstructure:"LOG_LEVEL"`
	LogFormat          string  `mapstructure:"LOG_FORMAT"`
	LogFile            string  `mapstructure:"LOG_FILE"`
	FeedbackLifetimeMS int     `mapstructure:"FEEDBACK_LIFETIME_MS"`
	SeedSource         string  `mapstructure:"SEED_SOURCE"`
	SeedCount          int     `mapstructure:"SEED_COUNT"`
	SeedRandom         int64   `mapstructure:"SEED_RANDOM"`
	ViewerName         string  `mapstructure:"VIEWER_NAME"`
	ViewerUsername     string  `mapstructure:"VIEWER_USERNAME"`
	ViewerAvatarURL    string  `mapstructure:"VIEWER_AVATAR_URL"`
	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingSampler     float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
	TracingFile        string  `mapstructure:"TRACING_FILE"`
	MetricsEnabled     bool    `mapstructure:"METRICS_ENABLED"`
	MetricsFile        string  `mapstructure:"METRICS_FILE"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	// A local .env file is optional and never overrides the real environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env != "" && env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config.%s.yml: %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.SeedSource = strings.TrimSpace(config.SeedSource)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("LOG_FILE", "vibefeed.log")
	viper.SetDefault("FEEDBACK_LIFETIME_MS", 2000)
	viper.SetDefault("SEED_SOURCE", SeedDefaults)
	viper.SetDefault("SEED_COUNT", 10)
	viper.SetDefault("SEED_RANDOM", 0)
	viper.SetDefault("VIEWER_NAME", models.DefaultViewer.Name)
	viper.SetDefault("VIEWER_USERNAME", models.DefaultViewer.Username)
	viper.SetDefault("VIEWER_AVATAR_URL", models.DefaultViewer.AvatarURL)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)
	viper.SetDefault("TRACING_FILE", "")
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("METRICS_FILE", "")
}

// Validate ensures that required configuration values are present and consistent.
func (c *Config) Validate() error {
	if c.FeedbackLifetimeMS <= 0 {
		return errors.New("FEEDBACK_LIFETIME_MS must be positive")
	}
	if c.SeedSource == "" {
		return errors.New("SEED_SOURCE is required")
	}
	if c.SeedSource == SeedGenerated && c.SeedCount <= 0 {
		return errors.New("SEED_COUNT must be positive when SEED_SOURCE is generated")
	}
	if strings.TrimSpace(c.ViewerName) == "" {
		return errors.New("VIEWER_NAME is required")
	}
	if c.TracingSampler < 0 || c.TracingSampler > 1 {
		return errors.New("TRACING_SAMPLER_RATIO must be between 0 and 1")
	}
	if c.FeedbackLifetimeMS != 2000 {
		log.Printf("WARNING: FEEDBACK_LIFETIME_MS is %d; the reaction animation is designed for 2000", c.FeedbackLifetimeMS)
	}
	return nil
}

// FeedbackLifetime returns the configured feedback lifetime.
func (c *Config) FeedbackLifetime() time.Duration {
	return time.Duration(c.FeedbackLifetimeMS) * time.Millisecond
}

// Viewer returns the local viewer profile.
func (c *Config) Viewer() models.Author {
	return models.Author{
		Name:      c.ViewerName,
		Username:  c.ViewerUsername,
		AvatarURL: c.ViewerAvatarURL,
	}
}

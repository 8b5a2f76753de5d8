package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalogue CatalogueConfig
	Recommend RecommendConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	UI        UIConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogueConfig says where the perfume table is read from
type CatalogueConfig struct {
	Source string `mapstructure:"source"` // "csv" or "sqlite"
	Path   string `mapstructure:"path"`
	Table  string `mapstructure:"table"` // sqlite only
}

// RecommendConfig holds ranking parameters
type RecommendConfig struct {
	MaxAccords         int      `mapstructure:"max_accords"`
	AccordLimit        int      `mapstructure:"accord_limit"`
	NameLimit          int      `mapstructure:"name_limit"`
	Workers            int      `mapstructure:"workers"`
	StopWords          []string `mapstructure:"stop_words"`
	EnableDebugLogging bool     `mapstructure:"debug"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type       string        `mapstructure:"type"` // "memory" or "none"
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
	Burst int `mapstructure:"burst"`
}

// UIConfig holds page settings
type UIConfig struct {
	Title        string `mapstructure:"title"`
	SimilarTitle string `mapstructure:"similar_title"`
	ImagePath    string `mapstructure:"image_path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/fragrance/")

	// Environment variable settings
	v.SetEnvPrefix("FRAGRANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load(".env")
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:8080"})

	// Catalogue defaults
	v.SetDefault("catalogue.source", "csv")
	v.SetDefault("catalogue.path", "Data/fivek_subset_data.csv")
	v.SetDefault("catalogue.table", "perfumes")

	// Ranking defaults
	v.SetDefault("recommend.max_accords", 3)
	v.SetDefault("recommend.accord_limit", 5)
	v.SetDefault("recommend.name_limit", 10)
	v.SetDefault("recommend.workers", 4)
	v.SetDefault("recommend.stop_words", []string{})
	v.SetDefault("recommend.debug", false)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.max_entries", 1000)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.burst", 20)

	// UI defaults
	v.SetDefault("ui.title", "Fragrance Finder")
	v.SetDefault("ui.similar_title", "Fragrance Recommender System")
	v.SetDefault("ui.image_path", "Images/fragrance.png")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Catalogue.Path == "" {
		return fmt.Errorf("catalogue path is required (set FRAGRANCE_CATALOGUE_PATH)")
	}

	switch config.Catalogue.Source {
	case "csv":
	case "sqlite":
		if config.Catalogue.Table == "" {
			return fmt.Errorf("catalogue table is required when source is 'sqlite'")
		}
	default:
		return fmt.Errorf("catalogue source must be 'csv' or 'sqlite', got: %s", config.Catalogue.Source)
	}

	if config.Recommend.MaxAccords < 1 {
		return fmt.Errorf("recommend.max_accords must be at least 1, got: %d", config.Recommend.MaxAccords)
	}
	if config.Recommend.AccordLimit < 1 || config.Recommend.NameLimit < 1 {
		return fmt.Errorf("recommendation limits must be at least 1")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "none" {
		return fmt.Errorf("cache type must be 'memory' or 'none', got: %s", config.Cache.Type)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit.per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}

package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerPort string `mapstructure:"server_port"`
	ServerHost string `mapstructure:"server_host"`

	// Database configuration
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_ssl_mode"`

	// Redis configuration
	RedisHost     string `mapstructure:"redis_host"`
	RedisPort     string `mapstructure:"redis_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisURL      string `mapstructure:"redis_url"`

	// JWT configuration
	JWTSecret string `mapstructure:"jwt_secret"`

	// Generative endpoint configuration
	GeminiAPIKey   string `mapstructure:"gemini_api_key"`
	GeminiAPIURL   string `mapstructure:"gemini_api_url"`
	PromptTemplate string `mapstructure:"prompt_template"`

	// Payment gateway configuration (redirect-based checkout)
	PaymentInitiateURL string `mapstructure:"payment_initiate_url"`
	PaymentAPIKey      string `mapstructure:"payment_api_key"`

	// Object storage for profile pictures
	S3Bucket  string `mapstructure:"s3_bucket"`
	AWSRegion string `mapstructure:"aws_region"`

	// CORS allowed origins, comma separated
	AllowedOrigins []string

	LogLevel string `mapstructure:"log_level"`
}

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash-preview-09-2025:generateContent"

// LoadConfig reads configuration from the environment (and a local .env file
// when present) and validates it. Missing required values are a startup
// error, not a recoverable runtime state.
func LoadConfig() (*Config, error) {
	// A missing .env is fine outside development; the environment wins.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server_port", "8080")
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("gemini_api_url", defaultGeminiURL)
	v.SetDefault("allowed_origins", "http://localhost:3000")
	v.SetDefault("log_level", "info")

	for _, key := range []string{
		"server_port", "server_host",
		"db_host", "db_port", "db_user", "db_password", "db_name", "db_ssl_mode",
		"redis_host", "redis_port", "redis_password", "redis_db", "redis_url",
		"jwt_secret",
		"gemini_api_key", "gemini_api_url", "prompt_template",
		"payment_initiate_url", "payment_api_key",
		"s3_bucket", "aws_region",
		"allowed_origins", "log_level",
	} {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.AllowedOrigins = splitOrigins(v.GetString("allowed_origins"))

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that every value the service cannot run without is present.
// The prompt template is deliberately in this list: a missing template
// disables generation entirely rather than substituting fallback content.
func Validate(cfg *Config) error {
	required := []struct {
		name  string
		value string
	}{
		{"JWT_SECRET", cfg.JWTSecret},
		{"DB_USER", cfg.DBUser},
		{"DB_PASSWORD", cfg.DBPassword},
		{"DB_NAME", cfg.DBName},
		{"GEMINI_API_KEY", cfg.GeminiAPIKey},
		{"GEMINI_API_URL", cfg.GeminiAPIURL},
		{"PROMPT_TEMPLATE", cfg.PromptTemplate},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

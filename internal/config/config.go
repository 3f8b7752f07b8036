package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// APIServerConfig holds the HTTP API server settings.
type APIServerConfig struct {
	Host         string          `mapstructure:"HOST"`
	Port         string          `mapstructure:"PORT"`
	ReadTimeout  time.Duration   `mapstructure:"READ_TIMEOUT"`
	WriteTimeout time.Duration   `mapstructure:"WRITE_TIMEOUT"`
	IdleTimeout  time.Duration   `mapstructure:"IDLE_TIMEOUT"`
	CORS         CORSConfig      `mapstructure:"CORS"`
	RateLimit    RateLimitConfig `mapstructure:"RATE_LIMIT"`
}

// CORSConfig holds configuration for CORS.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"ALLOWED_ORIGINS"`
	AllowedMethods   []string `mapstructure:"ALLOWED_METHODS"`
	AllowedHeaders   []string `mapstructure:"ALLOWED_HEADERS"`
	ExposedHeaders   []string `mapstructure:"EXPOSED_HEADERS"`
	AllowCredentials bool     `mapstructure:"ALLOW_CREDENTIALS"`
	MaxAge           int      `mapstructure:"MAX_AGE"`
}

// RateLimitConfig configures the per-client request limiter.
// A zero RequestsPerMinute disables limiting. Clients are keyed by peer
// address; TrustProxy keys them by X-Forwarded-For instead.
type RateLimitConfig struct {
	RequestsPerMinute int  `mapstructure:"REQUESTS_PER_MINUTE"`
	Burst             int  `mapstructure:"BURST"`
	TrustProxy        bool `mapstructure:"TRUST_PROXY"`
}

// RedisConfig holds configuration for Redis.
type RedisConfig struct {
	Addr     string `mapstructure:"ADDR"`
	Password string `mapstructure:"PASSWORD"`
	DB       int    `mapstructure:"DB"`
}

// Config holds all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AppName    string           `mapstructure:"APP_NAME"`
	AppVersion string           `mapstructure:"APP_VERSION"`
	AppEnv     string           `mapstructure:"APP_ENV"`
	LogLevel   string           `mapstructure:"LOG_LEVEL"`
	APIServer  APIServerConfig  `mapstructure:"API_SERVER"`
	Kafka      KafkaConfig      `mapstructure:"KAFKA"`
	Database   DatabaseConfig   `mapstructure:"DATABASE"`
	Auth       AuthConfig       `mapstructure:"AUTH"`
	Redis      RedisConfig      `mapstructure:"REDIS"`
	Chat       ChatConfig       `mapstructure:"CHAT"`
	Pagination PaginationConfig `mapstructure:"PAGINATION"`
}

// KafkaConfig holds configuration for Kafka.
// An empty Brokers list disables event publishing.
type KafkaConfig struct {
	Brokers         []string `mapstructure:"BROKERS"`
	ClientID        string   `mapstructure:"CLIENT_ID"`
	Protocol        string   `mapstructure:"PROTOCOL"`
	ChatEventsTopic string   `mapstructure:"CHAT_EVENTS_TOPIC"`
}

// DatabaseConfig holds configuration for the database.
type DatabaseConfig struct {
	Type     string `mapstructure:"TYPE"`
	Host     string `mapstructure:"HOST"`
	Port     int    `mapstructure:"PORT"`
	User     string `mapstructure:"USER"`
	Password string `mapstructure:"PASSWORD"`
	DBName   string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"SSL_MODE"`
	LogLevel string `mapstructure:"LOG_LEVEL"` // silent, error, warn, info
}

// AuthConfig holds configuration for bearer token validation.
type AuthConfig struct {
	JWTSecretKey string `mapstructure:"JWT_SECRET_KEY"`
	JWTIssuer    string `mapstructure:"JWT_ISSUER"`
}

// ChatConfig holds presentation settings for chat previews.
type ChatConfig struct {
	// SelfLabel replaces the author name when the requester wrote the message.
	SelfLabel string `mapstructure:"SELF_LABEL"`
}

// PaginationConfig bounds the page sizes accepted by list endpoints.
type PaginationConfig struct {
	DefaultPageSize int `mapstructure:"DEFAULT_PAGE_SIZE"`
	MaxPageSize     int `mapstructure:"MAX_PAGE_SIZE"`
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in the working directory, when present, is loaded into the
// process environment first.
func LoadConfig(path string) (config Config, err error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("APP_NAME", "testgram")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("API_SERVER.HOST", "0.0.0.0")
	v.SetDefault("API_SERVER.PORT", "8081")
	v.SetDefault("API_SERVER.READ_TIMEOUT", 30*time.Second)
	v.SetDefault("API_SERVER.WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("API_SERVER.IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("API_SERVER.CORS.ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	v.SetDefault("API_SERVER.CORS.ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("API_SERVER.CORS.ALLOWED_HEADERS", []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("API_SERVER.CORS.EXPOSED_HEADERS", []string{"Content-Length", "X-Request-ID"})
	v.SetDefault("API_SERVER.CORS.ALLOW_CREDENTIALS", true)
	v.SetDefault("API_SERVER.CORS.MAX_AGE", 300)
	v.SetDefault("API_SERVER.RATE_LIMIT.REQUESTS_PER_MINUTE", 600)
	v.SetDefault("API_SERVER.RATE_LIMIT.BURST", 60)
	v.SetDefault("API_SERVER.RATE_LIMIT.TRUST_PROXY", false)

	v.SetDefault("KAFKA.BROKERS", []string{})
	v.SetDefault("KAFKA.CLIENT_ID", "testgram-api")
	v.SetDefault("KAFKA.PROTOCOL", "plaintext")
	v.SetDefault("KAFKA.CHAT_EVENTS_TOPIC", "testgram-chat-events")

	v.SetDefault("DATABASE.TYPE", "postgres")
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "password")
	v.SetDefault("DATABASE.DB_NAME", "testgram")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.LOG_LEVEL", "warn")

	v.SetDefault("AUTH.JWT_SECRET_KEY", "a_very_secret_key_that_should_be_changed")
	v.SetDefault("AUTH.JWT_ISSUER", "testgram-auth")

	v.SetDefault("REDIS.ADDR", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)

	v.SetDefault("CHAT.SELF_LABEL", "you")

	v.SetDefault("PAGINATION.DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("PAGINATION.MAX_PAGE_SIZE", 100)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// API_SERVER.PORT is overridden by API_SERVER_PORT.
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		// Defaults cover every key.
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Push Config
	ExpoPushURL     string        `env:"EXPO_PUSH_URL" envDefault:"https://exp.host/--/api/v2/push/send"`
	ExpoAccessToken string        `env:"EXPO_ACCESS_TOKEN"`
	PushTimeout     time.Duration `env:"PUSH_TIMEOUT" envDefault:"10s"`

	// Session / cache Config
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	DirectoryCacheTTL time.Duration `env:"DIRECTORY_CACHE_TTL" envDefault:"1m"`

	// Delivery queue Config
	DeliveryMaxRetries int           `env:"DELIVERY_MAX_RETRIES" envDefault:"5"`
	DeliveryBaseDelay  time.Duration `env:"DELIVERY_BASE_DELAY" envDefault:"1s"`

	// Alert webhook Config
	AlertWebhookURL     string        `env:"ALERT_WEBHOOK_URL"`
	AlertWebhookSecret  string        `env:"ALERT_WEBHOOK_SECRET"`
	AlertWebhookTimeout time.Duration `env:"ALERT_WEBHOOK_TIMEOUT" envDefault:"5s"`

	// Rate limit / scheduler Config
	TriggerRateLimit string `env:"TRIGGER_RATE_LIMIT" envDefault:"5-M"`
	QueueGaugeCron   string `env:"QUEUE_GAUGE_CRON" envDefault:"@every 1m"`

	// API Keys for provisioning
	APIKeys []string `env:"API_KEYS"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:           os.Getenv("REDIS_PASSWORD"),
		RedisDB:             getEnvAsInt("REDIS_DB", 0),
		ExpoPushURL:         getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		ExpoAccessToken:     os.Getenv("EXPO_ACCESS_TOKEN"),
		PushTimeout:         getEnvAsDuration("PUSH_TIMEOUT", 10*time.Second),
		SessionTTL:          getEnvAsDuration("SESSION_TTL", 720*time.Hour),
		DirectoryCacheTTL:   getEnvAsDuration("DIRECTORY_CACHE_TTL", time.Minute),
		DeliveryMaxRetries:  getEnvAsInt("DELIVERY_MAX_RETRIES", 5),
		DeliveryBaseDelay:   getEnvAsDuration("DELIVERY_BASE_DELAY", time.Second),
		AlertWebhookURL:     os.Getenv("ALERT_WEBHOOK_URL"),
		AlertWebhookSecret:  os.Getenv("ALERT_WEBHOOK_SECRET"),
		AlertWebhookTimeout: getEnvAsDuration("ALERT_WEBHOOK_TIMEOUT", 5*time.Second),
		TriggerRateLimit:    getEnv("TRIGGER_RATE_LIMIT", "5-M"),
		QueueGaugeCron:      getEnv("QUEUE_GAUGE_CRON", "@every 1m"),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.DeliveryMaxRetries < 1 {
		cfg.DeliveryMaxRetries = 1
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

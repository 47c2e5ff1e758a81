package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

var (
	ErrInvalidTimeout  = errors.New("SOURCE_TIMEOUT_MS must be positive")
	ErrInvalidProvider = errors.New("LLM_PROVIDER must be mock or openrouter")
	ErrMissingLLMKey   = errors.New("OPENROUTER_API_KEY is required for openrouter provider")
	ErrInvalidRate     = errors.New("RATE_LIMIT_PER_MINUTE must not be negative")
)

type Config struct {
	HTTP      HTTPConfig
	Sources   SourcesConfig
	Telegram  TelegramConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	LLM       LLMConfig
	Log       LogConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

type HTTPConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type SourcesConfig struct {
	Timeout       time.Duration
	MaxRetries    int
	YouTubeAPIKey string
	NewsAPIKey    string
	RedditAgent   string
	RapidAPI      RapidAPIConfig
	// BreakerFailures - подряд идущие ошибки до размыкания
	BreakerFailures int
	BreakerCooldown time.Duration
}

type RapidAPIConfig struct {
	Key           string
	XHost         string
	InstagramHost string
	TikTokHost    string
	LinkedInHost  string
	RPS           float64
}

type TelegramConfig struct {
	Token string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	URL string
}

type LLMConfig struct {
	Provider   string
	OpenRouter OpenRouterConfig
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type LogConfig struct {
	Level string
	// Format: json или console; пусто - по уровню
	Format string
}

type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Addr:            getEnvOrDefault("HTTP_ADDR", ":8080"),
			ShutdownTimeout: time.Duration(getEnvIntOrDefault("SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second,
		},
		Sources: SourcesConfig{
			Timeout:       time.Duration(getEnvIntOrDefault("SOURCE_TIMEOUT_MS", 5000)) * time.Millisecond,
			MaxRetries:    getEnvIntOrDefault("SOURCE_MAX_RETRIES", 1),
			YouTubeAPIKey: os.Getenv("YOUTUBE_API_KEY"),
			NewsAPIKey:    os.Getenv("NEWS_API_KEY"),
			RedditAgent:   os.Getenv("REDDIT_USER_AGENT"),
			RapidAPI: RapidAPIConfig{
				Key:           os.Getenv("RAPIDAPI_KEY"),
				XHost:         getEnvOrDefault("RAPIDAPI_X_HOST", "twitter-api45.p.rapidapi.com"),
				InstagramHost: getEnvOrDefault("RAPIDAPI_INSTAGRAM_HOST", "instagram-scraper-api2.p.rapidapi.com"),
				TikTokHost:    getEnvOrDefault("RAPIDAPI_TIKTOK_HOST", "tiktok-api23.p.rapidapi.com"),
				LinkedInHost:  getEnvOrDefault("RAPIDAPI_LINKEDIN_HOST", "linkedin-data-api.p.rapidapi.com"),
				RPS:           getEnvFloatOrDefault("RAPIDAPI_RPS", 5),
			},
			BreakerFailures: getEnvIntOrDefault("BREAKER_FAILURES", 5),
			BreakerCooldown: time.Duration(getEnvIntOrDefault("BREAKER_COOLDOWN_SEC", 30)) * time.Second,
		},
		Telegram: TelegramConfig{
			Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		LLM: LLMConfig{
			Provider: getEnvOrDefault("LLM_PROVIDER", "mock"),
			OpenRouter: OpenRouterConfig{
				APIKey:  os.Getenv("OPENROUTER_API_KEY"),
				Model:   getEnvOrDefault("OPENROUTER_MODEL", "deepseek/deepseek-chat"),
				BaseURL: getEnvOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			},
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: os.Getenv("LOG_FORMAT"),
		},
		Cache: CacheConfig{
			TTL:        time.Duration(getEnvIntOrDefault("CACHE_TTL_SEC", 60)) * time.Second,
			MaxEntries: getEnvIntOrDefault("CACHE_MAX_ENTRIES", 1000),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 60),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate: все внешние ключи опциональны, источник без ключа просто отдает пустой ответ
func (c *Config) Validate() error {
	if c.Sources.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	switch c.LLM.Provider {
	case "mock":
	case "openrouter":
		if c.LLM.OpenRouter.APIKey == "" {
			return ErrMissingLLMKey
		}
	default:
		return ErrInvalidProvider
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return ErrInvalidRate
	}
	return nil
}

// HistoryEnabled - история поисков пишется только при заданной БД
func (c *Config) HistoryEnabled() bool {
	return c.Database.URL != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr error
	}{
		{
			name:    "empty env is valid",
			envVars: map[string]string{},
			wantErr: nil,
		},
		{
			name: "all keys set",
			envVars: map[string]string{
				"YOUTUBE_API_KEY":    "yt",
				"RAPIDAPI_KEY":       "rapid",
				"TELEGRAM_BOT_TOKEN": "test_token",
				"DATABASE_URL":       "postgres://localhost:5432/test",
				"REDIS_URL":          "redis://localhost:6379/0",
			},
			wantErr: nil,
		},
		{
			name: "openrouter without key",
			envVars: map[string]string{
				"LLM_PROVIDER": "openrouter",
			},
			wantErr: ErrMissingLLMKey,
		},
		{
			name: "openrouter with key",
			envVars: map[string]string{
				"LLM_PROVIDER":       "openrouter",
				"OPENROUTER_API_KEY": "sk-test",
			},
			wantErr: nil,
		},
		{
			name: "unknown provider",
			envVars: map[string]string{
				"LLM_PROVIDER": "gigachat",
			},
			wantErr: ErrInvalidProvider,
		},
		{
			name: "zero source timeout",
			envVars: map[string]string{
				"SOURCE_TIMEOUT_MS": "0",
			},
			wantErr: ErrInvalidTimeout,
		},
		{
			name: "negative rate limit",
			envVars: map[string]string{
				"RATE_LIMIT_PER_MINUTE": "-1",
			},
			wantErr: ErrInvalidRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars()

			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}
			defer clearEnvVars()

			cfg, err := Load()

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error = %v", err)
				return
			}

			if cfg == nil {
				t.Error("Load() returned nil config")
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %v, want %v", cfg.Log.Level, "info")
	}
	if cfg.Sources.Timeout != 5*time.Second {
		t.Errorf("Sources.Timeout = %v, want 5s", cfg.Sources.Timeout)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %v, want :8080", cfg.HTTP.Addr)
	}
	if cfg.LLM.Provider != "mock" {
		t.Errorf("LLM.Provider = %v, want mock", cfg.LLM.Provider)
	}
	if cfg.Cache.TTL != time.Minute {
		t.Errorf("Cache.TTL = %v, want 1m", cfg.Cache.TTL)
	}
	if cfg.Cache.MaxEntries != 1000 {
		t.Errorf("Cache.MaxEntries = %v, want 1000", cfg.Cache.MaxEntries)
	}
	if cfg.RateLimit.RequestsPerMinute != 60 {
		t.Errorf("RateLimit.RequestsPerMinute = %v, want 60", cfg.RateLimit.RequestsPerMinute)
	}
	if cfg.Sources.RapidAPI.RPS != 5 {
		t.Errorf("RapidAPI.RPS = %v, want 5", cfg.Sources.RapidAPI.RPS)
	}
	if cfg.Sources.RapidAPI.XHost == "" || cfg.Sources.RapidAPI.LinkedInHost == "" {
		t.Error("RapidAPI hosts should have defaults")
	}
	if cfg.HistoryEnabled() {
		t.Error("history should be off without DATABASE_URL")
	}
}

func TestSourceTimeoutMillis(t *testing.T) {
	clearEnvVars()
	os.Setenv("SOURCE_TIMEOUT_MS", "1500")
	defer clearEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Sources.Timeout != 1500*time.Millisecond {
		t.Errorf("Sources.Timeout = %v, want 1.5s", cfg.Sources.Timeout)
	}
}

func TestGetEnvIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		defaultVal int
		want       int
	}{
		{"valid int", "42", 10, 42},
		{"empty string", "", 10, 10},
		{"invalid int", "abc", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TEST_INT", tt.envValue)
			defer os.Unsetenv("TEST_INT")

			got := getEnvIntOrDefault("TEST_INT", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvIntOrDefault() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvFloatOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		defaultVal float64
		want       float64
	}{
		{"valid float", "2.5", 1, 2.5},
		{"integer", "3", 1, 3},
		{"empty string", "", 1, 1},
		{"invalid", "fast", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TEST_FLOAT", tt.envValue)
			defer os.Unsetenv("TEST_FLOAT")

			got := getEnvFloatOrDefault("TEST_FLOAT", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvFloatOrDefault() = %v, want %v", got, tt.want)
			}
		})
	}
}

func clearEnvVars() {
	envVars := []string{
		"HTTP_ADDR",
		"SHUTDOWN_TIMEOUT_SEC",
		"SOURCE_TIMEOUT_MS",
		"SOURCE_MAX_RETRIES",
		"YOUTUBE_API_KEY",
		"NEWS_API_KEY",
		"REDDIT_USER_AGENT",
		"RAPIDAPI_KEY",
		"RAPIDAPI_X_HOST",
		"RAPIDAPI_INSTAGRAM_HOST",
		"RAPIDAPI_TIKTOK_HOST",
		"RAPIDAPI_LINKEDIN_HOST",
		"RAPIDAPI_RPS",
		"BREAKER_FAILURES",
		"BREAKER_COOLDOWN_SEC",
		"TELEGRAM_BOT_TOKEN",
		"DATABASE_URL",
		"REDIS_URL",
		"LLM_PROVIDER",
		"OPENROUTER_API_KEY",
		"OPENROUTER_MODEL",
		"OPENROUTER_BASE_URL",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"CACHE_TTL_SEC",
		"CACHE_MAX_ENTRIES",
		"RATE_LIMIT_PER_MINUTE",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

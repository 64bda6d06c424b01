package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for both binaries.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Webex     WebexConfig     `mapstructure:"webex"`
}

type AppConfig struct {
	Addr string `mapstructure:"addr"`
	Env  string `mapstructure:"env"` // e.g., "local", "prod"
}

type FeedConfig struct {
	Symbols         []string      `mapstructure:"symbols"`
	FinnhubToken    string        `mapstructure:"finnhub_token"`
	FinnhubURL      string        `mapstructure:"finnhub_url"`
	BroadcastPeriod time.Duration `mapstructure:"broadcast_period"`
	CacheMaxAge     time.Duration `mapstructure:"cache_max_age"`
}

type DashboardConfig struct {
	FeedURL        string        `mapstructure:"feed_url"`
	StartupTimeout time.Duration `mapstructure:"startup_timeout"`
	MockPeriod     time.Duration `mapstructure:"mock_period"`
	LogFile        string        `mapstructure:"log_file"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type WebexConfig struct {
	BotToken string `mapstructure:"bot_token"`
	RoomID   string `mapstructure:"room_id"`
}

// LoadConfig reads configuration from a .env file, environment variables, and
// defaults, in that order of increasing precedence for env vars.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Load .env into the process environment if present, so flat vars like
	// APP_ADDR are visible to viper's AutomaticEnv below.
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, relying on System Env Vars")
	}

	v.SetDefault("app.addr", ":8000")
	v.SetDefault("app.env", "local")

	v.SetDefault("feed.symbols", []string{"AAPL", "TSLA", "NVDA", "MSFT"})
	v.SetDefault("feed.finnhub_token", "")
	v.SetDefault("feed.finnhub_url", "https://finnhub.io/api/v1")
	v.SetDefault("feed.broadcast_period", 10*time.Second)
	v.SetDefault("feed.cache_max_age", 20*time.Second)

	v.SetDefault("dashboard.feed_url", "ws://localhost:8000/ws/prices")
	v.SetDefault("dashboard.startup_timeout", 2*time.Second)
	v.SetDefault("dashboard.mock_period", 2500*time.Millisecond)
	v.SetDefault("dashboard.log_file", "tickwatch.log")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("webex.bot_token", "")
	v.SetDefault("webex.room_id", "")

	// Map dot-notation keys to underscore env vars (feed.feed_url -> FEED_FEED_URL).
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnv(v, "app.addr", "app.env")
	bindEnv(v, "feed.symbols", "feed.finnhub_token", "feed.finnhub_url", "feed.broadcast_period", "feed.cache_max_age")
	bindEnv(v, "dashboard.feed_url", "dashboard.startup_timeout", "dashboard.mock_period", "dashboard.log_file")
	bindEnv(v, "redis.addr", "redis.password", "redis.db")
	bindEnv(v, "webex.bot_token", "webex.room_id")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %v", err)
	}

	if len(cfg.Feed.Symbols) == 0 {
		return nil, fmt.Errorf("feed symbols cannot be empty")
	}

	return &cfg, nil
}

// bindEnv is a helper to bind multiple keys at once
func bindEnv(v *viper.Viper, keys ...string) {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			log.Printf("Could not bind env var for key %s: %v", key, err)
		}
	}
}

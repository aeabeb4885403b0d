package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log     Logger        `mapstructure:"logger"`
	DB      Database      `mapstructure:"database"`
	API     API           `mapstructure:"api"`
	Monitor Monitor       `mapstructure:"monitor"`
	Yahoo   YahooFinance  `mapstructure:"yahoo_finance"`
	Cache   Cache         `mapstructure:"cache"`
	Sell    Sell          `mapstructure:"sell"`
	Notify  Notifications `mapstructure:"notify"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

// Monitor controls the periodic position evaluation loop.
type Monitor struct {
	MaxConcurrency    int           `mapstructure:"max_concurrency"`
	EvaluationTimeout time.Duration `mapstructure:"evaluation_timeout"`
	AutoStart         bool          `mapstructure:"auto_start"`
}

type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// Sell holds the exit-rule thresholds.
type Sell struct {
	StopLossPct     float64 `mapstructure:"stop_loss_pct"`
	TakeProfitPct   float64 `mapstructure:"take_profit_pct"`
	TrailPct        float64 `mapstructure:"trail_pct"`
	TimeStopDays    int     `mapstructure:"time_stop_days"`
	BreakevenBuffer float64 `mapstructure:"breakeven_buffer"`
}

type Notifications struct {
	Slack    SlackConfig    `mapstructure:"slack"`
	Email    EmailConfig    `mapstructure:"email"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type SlackConfig struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

func Load() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	// A missing config file is fine, env vars and defaults still apply.
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("api.port", 8080)

	viper.SetDefault("monitor.max_concurrency", 4)
	viper.SetDefault("monitor.evaluation_timeout", "30s")
	viper.SetDefault("monitor.auto_start", true)

	viper.SetDefault("yahoo_finance.base_url", "https://query2.finance.yahoo.com")
	viper.SetDefault("yahoo_finance.timeout", "15s")
	viper.SetDefault("yahoo_finance.max_request_per_minute", 30)

	viper.SetDefault("cache.default_expiration", "5m")
	viper.SetDefault("cache.cleanup_interval", "10m")

	viper.SetDefault("sell.stop_loss_pct", 0.40)
	viper.SetDefault("sell.take_profit_pct", 0.50)
	viper.SetDefault("sell.trail_pct", 0.35)
	viper.SetDefault("sell.time_stop_days", 5)
	viper.SetDefault("sell.breakeven_buffer", 2.0)

	viper.SetDefault("notify.slack.timeout", "10s")
	viper.SetDefault("notify.email.port", 587)
}

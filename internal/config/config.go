package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Watchlist struct {
		Path       string `yaml:"path" validate:"required"`
		MaxTickers int    `yaml:"max_tickers" validate:"gt=0"`
	} `yaml:"watchlist"`
	DataSource struct {
		Provider      string        `yaml:"provider" validate:"oneof=yahoo polygon"`
		TickerSuffix  string        `yaml:"ticker_suffix"`
		LookbackDays  int           `yaml:"lookback_days" validate:"gte=51"`
		Timeout       time.Duration `yaml:"timeout" validate:"gt=0"`
		PolygonAPIKey string        `yaml:"polygon_api_key" validate:"required_if=Provider polygon"`
	} `yaml:"data_source"`
	Strategy struct {
		ScoreThreshold int `yaml:"score_threshold" validate:"gte=1,lte=100"`
		TopN           int `yaml:"top_n" validate:"gt=0"`
	} `yaml:"strategy"`
	Report struct {
		ChartDays int    `yaml:"chart_days" validate:"gt=0"`
		TempDir   string `yaml:"temp_dir"`
		FontDir   string `yaml:"font_dir"`
	} `yaml:"report"`
	Notify struct {
		WebhookURL string        `yaml:"webhook_url" validate:"omitempty,url"`
		UploadURL  string        `yaml:"upload_url" validate:"required,url"`
		Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
	} `yaml:"notify"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Server struct {
		Addr string `yaml:"addr" validate:"required"`
	} `yaml:"server"`
	Schedule struct {
		Cron     string `yaml:"cron"`
		Timezone string `yaml:"timezone"`
	} `yaml:"schedule"`
	Proxy    string `yaml:"proxy" validate:"omitempty,url"`
	LogLevel string `yaml:"log_level" validate:"oneof=trace debug info warn error"`
}

// ResolvePath picks the config file location: the explicit flag value,
// then CONFIG_PATH, then DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Str("component", "config").Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Notify.WebhookURL, "N8N_WEBHOOK_URL")
	setString(&c.Notify.WebhookURL, "WEBHOOK_URL")
	setString(&c.Notify.UploadURL, "UPLOAD_URL")
	setString(&c.Watchlist.Path, "WATCHLIST_PATH")
	setString(&c.DataSource.PolygonAPIKey, "POLYGON_API_KEY")
	setString(&c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&c.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setString(&c.Proxy, "HTTPS_PROXY")
	setString(&c.Schedule.Cron, "SCAN_CRON")
	setString(&c.LogLevel, "LOG_LEVEL")
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if err := setInt(&c.Strategy.ScoreThreshold, "SCORE_THRESHOLD"); err != nil {
		return err
	}
	if err := setInt(&c.Report.ChartDays, "DAYS_OF_DATA"); err != nil {
		return err
	}
	return setInt(&c.DataSource.LookbackDays, "LOOKBACK_DAYS")
}

func (c *Config) applyDefaults() {
	if c.Watchlist.Path == "" {
		c.Watchlist.Path = "data/watchlist.csv"
	}
	if c.Watchlist.MaxTickers == 0 {
		c.Watchlist.MaxTickers = 500
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.TickerSuffix == "" && c.DataSource.Provider == "yahoo" {
		c.DataSource.TickerSuffix = ".NS"
	}
	if c.DataSource.LookbackDays == 0 {
		c.DataSource.LookbackDays = 126
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 10 * time.Second
	}
	if c.Strategy.ScoreThreshold == 0 {
		c.Strategy.ScoreThreshold = 75
	}
	if c.Strategy.TopN == 0 {
		c.Strategy.TopN = 5
	}
	if c.Report.ChartDays == 0 {
		c.Report.ChartDays = 120
	}
	if c.Report.TempDir == "" {
		c.Report.TempDir = os.TempDir()
	}
	if c.Notify.UploadURL == "" {
		c.Notify.UploadURL = "https://file.io"
	}
	if c.Notify.Timeout == 0 {
		c.Notify.Timeout = 60 * time.Second
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "Asia/Kolkata"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
}

// Validate checks field constraints and cross-field requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Schedule.Timezone != "" {
		if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
			return fmt.Errorf("invalid config: schedule.timezone: %w", err)
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = n
	return nil
}

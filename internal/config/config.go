package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/reddygautam98/Stock-Price-Prediction/internal/calculator"
)

// Config holds all application configuration.
type Config struct {
	Source     SourceConfig    `yaml:"source"`
	Indicators IndicatorConfig `yaml:"indicators"`
	Dataset    DatasetConfig   `yaml:"dataset"`
	Predictor  PredictorConfig `yaml:"predictor"`
	Output     OutputConfig    `yaml:"output"`
	Database   DatabaseConfig  `yaml:"database"`
	Telegram   TelegramConfig  `yaml:"telegram"`
	Schedule   ScheduleConfig  `yaml:"schedule"`
	Log        LogConfig       `yaml:"log"`
	Proxy      string          `yaml:"proxy"`
}

type SourceConfig struct {
	Type      string          `yaml:"type" default:"csv" validate:"oneof=csv yahoo synthetic"`
	Path      string          `yaml:"path" default:"data/prices.csv"`
	Symbol    string          `yaml:"symbol" default:"STOCK"`
	Days      int             `yaml:"days" validate:"gte=0"`
	BaseURL   string          `yaml:"base_url"`
	Synthetic SyntheticConfig `yaml:"synthetic"`
}

type SyntheticConfig struct {
	Shape      string  `yaml:"shape" default:"random_walk" validate:"oneof=linear flat random_walk"`
	StartPrice float64 `yaml:"start_price" default:"100" validate:"gt=0"`
	Slope      float64 `yaml:"slope" default:"1"`
	Volatility float64 `yaml:"volatility" default:"0.02" validate:"gte=0"`
	Rows       int     `yaml:"rows" default:"500" validate:"gt=0"`
	Seed       int64   `yaml:"seed" default:"42"`
}

// IndicatorConfig holds the indicator window sizes.
type IndicatorConfig struct {
	RSIPeriod       int     `yaml:"rsi_period" default:"14" validate:"gt=0"`
	MACDFast        int     `yaml:"macd_fast" default:"12" validate:"gt=0"`
	MACDSlow        int     `yaml:"macd_slow" default:"26" validate:"gt=0"`
	MACDSignal      int     `yaml:"macd_signal" default:"9" validate:"gt=0"`
	BollingerPeriod int     `yaml:"bollinger_period" default:"20" validate:"gte=2"`
	BollingerK      float64 `yaml:"bollinger_k" default:"2" validate:"gt=0"`
	MAPeriods       []int   `yaml:"ma_periods" default:"[50,200]" validate:"dive,gt=0"`
}

// DatasetConfig controls windowing, splitting and scaling.
type DatasetConfig struct {
	Features       []string `yaml:"features" default:"[\"Close\"]" validate:"min=1,dive,required"`
	Target         string   `yaml:"target" default:"Close" validate:"required"`
	Lookback       int      `yaml:"lookback" default:"60" validate:"gte=1"`
	TestFraction   float64  `yaml:"test_fraction" default:"0.2" validate:"gt=0,lt=1"`
	SplitPolicy    string   `yaml:"split_policy" default:"chronological" validate:"oneof=chronological random"`
	AllowShuffle   bool     `yaml:"allow_shuffle"`
	Seed           int64    `yaml:"seed" default:"42"`
	ScalerFitScope string   `yaml:"scaler_fit_scope" default:"train" validate:"oneof=train full"`
}

type PredictorConfig struct {
	Type         string  `yaml:"type" default:"linear" validate:"oneof=linear window_mean last_value gd_linear"`
	Ridge        float64 `yaml:"ridge" default:"1e-6" validate:"gte=0"`
	LearningRate float64 `yaml:"learning_rate" default:"0.05" validate:"gt=0"`
	Epochs       int     `yaml:"epochs" default:"500" validate:"gt=0"`
}

// OutputConfig names the artifact files. Relative file names resolve against Dir.
type OutputConfig struct {
	Dir             string `yaml:"dir" default:"output"`
	ResultsFile     string `yaml:"results_file" default:"analysis_results.csv"`
	PredictionsFile string `yaml:"predictions_file" default:"predictions.csv"`
	IndicatorsFile  string `yaml:"indicators_file" default:"indicators.csv"`
	MetricsTextfile string `yaml:"metrics_textfile"`
}

// DatabaseConfig enables run history when SQLitePath is set.
type DatabaseConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// Enabled reports whether reports should be sent.
func (t TelegramConfig) Enabled() bool { return t.BotToken != "" && t.ChatID != "" }

// ScheduleConfig turns on scheduled mode when Cron is set. Cron takes the
// six-field form with seconds.
type ScheduleConfig struct {
	Cron string `yaml:"cron"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout"`
}

// Load fills defaults, overlays the YAML file, then applies environment
// variable overrides. Values written in the file win over defaults, zero
// included. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
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
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("FORECASTER_SOURCE_PATH"); v != "" {
		c.Source.Path = v
	}
	if v := os.Getenv("FORECASTER_SOURCE_TYPE"); v != "" {
		c.Source.Type = v
	}
	if v := os.Getenv("FORECASTER_SYMBOL"); v != "" {
		c.Source.Symbol = v
	}
	if v := os.Getenv("LOOKBACK"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOOKBACK: %w", err)
		}
		c.Dataset.Lookback = n
	}
	if v := os.Getenv("TEST_FRACTION"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TEST_FRACTION: %w", err)
		}
		c.Dataset.TestFraction = f
	}
	if v := os.Getenv("PREDICTOR"); v != "" {
		c.Predictor.Type = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		c.Schedule.Cron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks field constraints and the rules that span several fields.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Windows().Validate(); err != nil {
		return fmt.Errorf("indicators: %w", err)
	}
	if !slices.Contains(c.Dataset.Features, c.Dataset.Target) {
		return fmt.Errorf("dataset.target %q must be one of dataset.features %v", c.Dataset.Target, c.Dataset.Features)
	}
	if c.Dataset.SplitPolicy == "random" && !c.Dataset.AllowShuffle {
		return fmt.Errorf("dataset.split_policy random leaks future rows into training; set dataset.allow_shuffle to use it")
	}
	switch c.Source.Type {
	case "csv":
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for csv sources")
		}
	case "yahoo":
		if c.Source.Symbol == "" {
			return fmt.Errorf("source.symbol is required for yahoo sources")
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// Windows converts the indicator settings.
func (c *Config) Windows() calculator.Windows {
	return calculator.Windows{
		RSI:             c.Indicators.RSIPeriod,
		MACDFast:        c.Indicators.MACDFast,
		MACDSlow:        c.Indicators.MACDSlow,
		MACDSignal:      c.Indicators.MACDSignal,
		BollingerPeriod: c.Indicators.BollingerPeriod,
		BollingerK:      c.Indicators.BollingerK,
		MAPeriods:       c.Indicators.MAPeriods,
	}
}

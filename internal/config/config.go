// Package config loads and validates the run configuration.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/rewired-gh/tickerhist/internal/models"
)

// Config is the complete, static run configuration. It is read once at
// process start and never mutated during a run.
type Config struct {
	Symbols  []string       `mapstructure:"symbols"`
	Range    RangeConfig    `mapstructure:"range"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Prices   PricesConfig   `mapstructure:"prices"`
	Output   OutputConfig   `mapstructure:"output"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Provider ProviderConfig `mapstructure:"provider"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// RangeConfig holds the optional inclusive date window as ISO date
// strings. An empty string leaves that side unbounded.
type RangeConfig struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// FetchConfig toggles each record kind independently.
type FetchConfig struct {
	Dividends    bool `mapstructure:"dividends"`
	Splits       bool `mapstructure:"splits"`
	CapitalGains bool `mapstructure:"capital_gains"`
	Prices       bool `mapstructure:"prices"`
}

// PricesConfig holds the price download parameters.
type PricesConfig struct {
	Interval string `mapstructure:"interval"` // 1d, 1wk, or 1mo
	Actions  bool   `mapstructure:"actions"`  // include dividend/split/gain columns
	Adjust   bool   `mapstructure:"adjust"`   // fold adjusted close into OHLC
}

// OutputConfig controls the CSV sink.
type OutputConfig struct {
	WriteCSV bool   `mapstructure:"write_csv"`
	Dir      string `mapstructure:"dir"`
}

// ArchiveConfig controls the optional SQLite archive.
type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TelegramConfig controls the optional run-summary notification.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// ProviderConfig holds the market-data endpoint settings.
type ProviderConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the file at path, with TICKERHIST_*
// environment variables taking precedence and defaults filling the rest.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("TICKERHIST")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err) // defaults always unmarshal
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("symbols", []string{"SPY", "QQQ", "NVDA", "FTABX"})

	v.SetDefault("range.start", "2010-01-01")
	v.SetDefault("range.end", "") // empty = no upper bound

	v.SetDefault("fetch.dividends", true)
	v.SetDefault("fetch.splits", true)
	v.SetDefault("fetch.capital_gains", true)
	v.SetDefault("fetch.prices", true)

	v.SetDefault("prices.interval", "1d")
	v.SetDefault("prices.actions", true)
	v.SetDefault("prices.adjust", false)

	v.SetDefault("output.write_csv", true)
	v.SetDefault("output.dir", ".")

	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.path", "./data/tickerhist.db")

	v.SetDefault("telegram.enabled", false)

	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.timeout", "30s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

var validIntervals = map[string]bool{"1d": true, "1wk": true, "1mo": true}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols must contain at least one entry")
	}

	rng, err := c.DateRange()
	if err != nil {
		return err
	}
	if !rng.From.IsZero() && !rng.To.IsZero() && rng.From.After(rng.To) {
		return fmt.Errorf("range.start %s must not be after range.end %s", rng.From, rng.To)
	}

	if !validIntervals[c.Prices.Interval] {
		return fmt.Errorf("prices.interval must be one of: 1d, 1wk, 1mo")
	}

	if c.Archive.Enabled && c.Archive.Path == "" {
		return fmt.Errorf("archive.path is required when archive is enabled")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("provider.timeout must be positive")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// DateRange parses the configured window into a Range. Empty strings map
// to unbounded sides.
func (c *Config) DateRange() (models.Range, error) {
	var rng models.Range
	if c.Range.Start != "" {
		from, err := models.ParseDate(c.Range.Start)
		if err != nil {
			return models.Range{}, fmt.Errorf("range.start: %w", err)
		}
		rng.From = from
	}
	if c.Range.End != "" {
		to, err := models.ParseDate(c.Range.End)
		if err != nil {
			return models.Range{}, fmt.Errorf("range.end: %w", err)
		}
		rng.To = to
	}
	return rng, nil
}

// AnyKindEnabled reports whether any record kind is enabled at all.
func (c *Config) AnyKindEnabled() bool {
	return c.Fetch.Dividends || c.Fetch.Splits || c.Fetch.CapitalGains || c.Fetch.Prices
}

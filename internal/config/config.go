// Package config loads and validates linkscout settings via Viper.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSettingsFile is read when no settings path is given.
const DefaultSettingsFile = "settings.json"

// Config captures all settings loaded via Viper.
type Config struct {
	URLs           []string      `mapstructure:"urls"`
	UserAgent      string        `mapstructure:"user_agent"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	BaseDir        string        `mapstructure:"base_dir"`
	Logs           LogsConfig    `mapstructure:"logs"`
	Logging        LoggingConfig `mapstructure:"logging"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

// LogsConfig names the two run logs, relative to BaseDir unless absolute.
type LogsConfig struct {
	ErrorFile string `mapstructure:"error_file"`
	URLFile   string `mapstructure:"url_file"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// MetricsConfig controls the optional Prometheus endpoint. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads the settings file at path (DefaultSettingsFile when empty),
// overlays LINKSCOUT_* environment variables, and validates the result.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultSettingsFile
	}

	v := newViper()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("json")
	}
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read settings %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Default returns the settings used when no file could be loaded. The log
// paths are still meaningful so a load failure can be recorded.
func Default() Config {
	var cfg Config
	// Defaults alone always decode.
	_ = newViper().Unmarshal(&cfg)
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("LINKSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("urls", []string{})
	v.SetDefault("user_agent", "")
	v.SetDefault("request_timeout", 15*time.Second)
	v.SetDefault("base_dir", ".")
	v.SetDefault("logs.error_file", "Error.log")
	v.SetDefault("logs.url_file", "Urls.log")
	v.SetDefault("logging.development", true)
	v.SetDefault("metrics.addr", "")
}

// Validate enforces required values. An empty URL list is not rejected here;
// the crawler records it as a run error.
func (c Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be > 0")
	}
	if strings.TrimSpace(c.Logs.ErrorFile) == "" {
		return errors.New("logs.error_file must be set")
	}
	if strings.TrimSpace(c.Logs.URLFile) == "" {
		return errors.New("logs.url_file must be set")
	}
	if c.Logs.ErrorFile == c.Logs.URLFile {
		return errors.New("logs.error_file and logs.url_file must differ")
	}
	for i, u := range c.URLs {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("urls[%d] is empty", i)
		}
	}
	return nil
}

// ErrorLogPath resolves the error log against BaseDir.
func (c Config) ErrorLogPath() string {
	return c.resolve(c.Logs.ErrorFile)
}

// URLLogPath resolves the URL log against BaseDir.
func (c Config) URLLogPath() string {
	return c.resolve(c.Logs.URLFile)
}

func (c Config) resolve(name string) string {
	if filepath.IsAbs(name) || c.BaseDir == "" {
		return name
	}
	return filepath.Join(c.BaseDir, name)
}

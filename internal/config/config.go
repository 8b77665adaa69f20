// Package config loads configs/config.yml through viper and keeps it in sync
// with the file on disk.
package config

import (
	"errors"
	"fmt"
	"time"

	"printwatch/internal/alerting"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "configs/config.yml"
	defaultPort       = "8080"
	defaultDBPath     = "app.db"
)

// Config is the whole process configuration.
type Config struct {
	Port      string            `mapstructure:"port"`
	DB        DBConfig          `mapstructure:"db"`
	Log       LogConfig         `mapstructure:"log"`
	Auth      AuthConfig        `mapstructure:"auth"`
	Telemetry TelemetryConfig   `mapstructure:"telemetry"`
	Simulator SimulatorConfig   `mapstructure:"simulator"`
	Kafka     KafkaConfig       `mapstructure:"kafka"`
	Rules     alerting.Settings `mapstructure:"rules"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type TelemetryConfig struct {
	// Snapshots older than this read as absent; 0 disables the check.
	MaxAge time.Duration `mapstructure:"max_age"`
}

type SimulatorConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Tick      time.Duration `mapstructure:"tick"`
	Fault     string        `mapstructure:"fault"`
	PrinterID string        `mapstructure:"printer_id"`
	Filename  string        `mapstructure:"filename"`
}

// KafkaConfig enables the alert notifier when Brokers is non-empty.
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	Compression  string        `mapstructure:"compression"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
}

// Default returns the values used for any key missing from the file.
func Default() Config {
	return Config{
		Port: defaultPort,
		DB:   DBConfig{Path: defaultDBPath},
		Log:  LogConfig{Level: "info"},
		Auth: AuthConfig{TokenTTL: time.Hour},
		Telemetry: TelemetryConfig{
			MaxAge: 5 * time.Second,
		},
		Simulator: SimulatorConfig{
			Tick:      time.Second,
			PrinterID: "printer-1",
			Filename:  "calibration_cube.gcode",
		},
		Kafka: KafkaConfig{Topic: "printwatch.alerts", BatchSize: 1, BatchTimeout: 10 * time.Millisecond},
		Rules: alerting.DefaultSettings(),
	}
}

// Flags registers the command line flags understood by Load.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", defaultConfigPath, "path to the YAML config file")
	fs.String("log-level", "", "log level override (debug, info, warn, error)")
}

// Loader owns a viper instance bound to one config file.
type Loader struct {
	v *viper.Viper
}

// NewLoader binds the parsed flags and points viper at the config file.
func NewLoader(fs *pflag.FlagSet) (*Loader, error) {
	v := viper.New()
	path := defaultConfigPath
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			path = f.Value.String()
		}
		if f := fs.Lookup("log-level"); f != nil && f.Changed {
			if err := v.BindPFlag("log.level", f); err != nil {
				return nil, fmt.Errorf("bind log-level flag: %w", err)
			}
		}
	}
	v.SetConfigFile(path)
	return &Loader{v: v}, nil
}

// Load reads the file and decodes it over Default().
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", l.v.ConfigFileUsed(), err)
	}
	return l.decode()
}

func (l *Loader) decode() (Config, error) {
	cfg := Default()
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var ErrInvalidConfig = errors.New("invalid config")

// Validate checks the keys that have no safe fallback.
func (c Config) Validate() error {
	if c.Auth.SigningKey == "" {
		return fmt.Errorf("%w: auth.signing_key is required", ErrInvalidConfig)
	}
	if c.Simulator.Enabled && c.Simulator.Tick <= 0 {
		return fmt.Errorf("%w: simulator.tick must be positive", ErrInvalidConfig)
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("%w: kafka.topic is required when brokers are set", ErrInvalidConfig)
	}
	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Watch calls onChange with the re-read config after every write to the
// file. A file that fails to decode is passed to onError and the previous
// config stays in effect.
func (l *Loader) Watch(onChange func(Config), onError func(error)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.decode()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
}

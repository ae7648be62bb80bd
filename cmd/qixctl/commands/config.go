package commands

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joeshaw/envdecode"

	enigma "github.com/wagiedev/enigma-go"
)

// Config is the resolved qixctl configuration.
type Config struct {
	Address          string
	Command          []string
	SchemaPath       string
	Delta            bool
	SuspendOnClose   bool
	MaxRetries       int
	ConnectedTimeout time.Duration
	MetricsAddress   string
	LogLevel         slog.Level
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		Address:          "localhost:9076",
		MaxRetries:       3,
		ConnectedTimeout: 10 * time.Second,
		LogLevel:         slog.LevelWarn,
	}
}

type fileConfig struct {
	Address          string   `toml:"address"`
	Command          []string `toml:"command"`
	Schema           string   `toml:"schema"`
	Delta            bool     `toml:"delta"`
	SuspendOnClose   bool     `toml:"suspend_on_close"`
	MaxRetries       int      `toml:"max_retries"`
	ConnectedTimeout string   `toml:"connected_timeout"`
	MetricsAddress   string   `toml:"metrics_address"`
	LogLevel         string   `toml:"log_level"`
}

type envConfig struct {
	Address        string `env:"QIX_ADDRESS"`
	Schema         string `env:"QIX_SCHEMA"`
	MetricsAddress string `env:"QIX_METRICS_ADDRESS"`
	LogLevel       string `env:"QIX_LOG_LEVEL"`
}

// LoadConfig builds the configuration from defaults, the TOML file at path
// (skipped when empty), and QIX_* environment variables, in that order.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	var raw fileConfig

	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load qixctl config: %w", err)
	}

	if meta.IsDefined("address") {
		cfg.Address = strings.TrimSpace(raw.Address)
	}

	if meta.IsDefined("command") {
		cfg.Command = raw.Command
	}

	if meta.IsDefined("schema") {
		cfg.SchemaPath = strings.TrimSpace(raw.Schema)
	}

	if meta.IsDefined("delta") {
		cfg.Delta = raw.Delta
	}

	if meta.IsDefined("suspend_on_close") {
		cfg.SuspendOnClose = raw.SuspendOnClose
	}

	if meta.IsDefined("max_retries") {
		cfg.MaxRetries = raw.MaxRetries
	}

	if meta.IsDefined("connected_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ConnectedTimeout))
		if err != nil {
			return fmt.Errorf("parse connected_timeout: %w", err)
		}

		cfg.ConnectedTimeout = d
	}

	if meta.IsDefined("metrics_address") {
		cfg.MetricsAddress = strings.TrimSpace(raw.MetricsAddress)
	}

	if meta.IsDefined("log_level") {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.TrimSpace(raw.LogLevel))); err != nil {
			return fmt.Errorf("parse log_level: %w", err)
		}
	}

	return nil
}

func applyEnv(cfg *Config) error {
	var env envConfig

	if err := envdecode.Decode(&env); err != nil {
		if stderrors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return nil
		}

		return fmt.Errorf("decode environment: %w", err)
	}

	if env.Address != "" {
		cfg.Address = env.Address
	}

	if env.Schema != "" {
		cfg.SchemaPath = env.Schema
	}

	if env.MetricsAddress != "" {
		cfg.MetricsAddress = env.MetricsAddress
	}

	if env.LogLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(env.LogLevel)); err != nil {
			return fmt.Errorf("parse QIX_LOG_LEVEL: %w", err)
		}
	}

	return nil
}

// SessionOptions converts the configuration into session options.
// A configured command takes precedence over the address.
func (c Config) SessionOptions(log *slog.Logger) ([]enigma.Option, error) {
	opts := []enigma.Option{
		enigma.WithLogger(log),
		enigma.WithDelta(c.Delta),
		enigma.WithSuspendOnClose(c.SuspendOnClose),
		enigma.WithMaxRetries(c.MaxRetries),
		enigma.WithConnectedTimeout(c.ConnectedTimeout),
	}

	if len(c.Command) > 0 {
		opts = append(opts, enigma.WithCommand(c.Command[0], c.Command[1:]...))
	} else {
		opts = append(opts, enigma.WithAddress(c.Address))
	}

	if c.SchemaPath != "" {
		def, err := enigma.LoadSchema(log, c.SchemaPath)
		if err != nil {
			return nil, err
		}

		opts = append(opts, enigma.WithSchema(def))
	}

	return opts, nil
}

package intercom

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hsiuhsiu/intercom-go/internal/bindings"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/logging"
	"github.com/hsiuhsiu/intercom-go/pkg/intercom/variant"
)

// Config selects the component to load and how the boundary behaves.
type Config struct {
	// Component is the registered name of the component to open.
	Component string

	// StringEncoding is the physical form of encoded text: "bstr",
	// "cstring" or "shared". Empty means "bstr".
	StringEncoding string

	// LogLevel is the minimum level of the default logger.
	LogLevel string

	// LeakCheck makes Close fail while objects created through the library
	// are still referenced.
	LeakCheck bool
}

type fileConfig struct {
	Component      string `toml:"component"`
	StringEncoding string `toml:"string_encoding"`
	LogLevel       string `toml:"log_level"`
	LeakCheck      bool   `toml:"leak_check"`
}

// DefaultConfig returns the configuration used for unset fields.
func DefaultConfig() Config {
	return Config{
		StringEncoding: "bstr",
		LogLevel:       "info",
	}
}

// LoadConfig reads a TOML configuration file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load intercom config: %w", err)
	}
	return fromFile(raw, meta)
}

// ParseConfig is LoadConfig for configuration held in memory.
func ParseConfig(data string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("parse intercom config: %w", err)
	}
	return fromFile(raw, meta)
}

func fromFile(raw fileConfig, meta toml.MetaData) (Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}

	cfg := DefaultConfig()
	if meta.IsDefined("component") {
		cfg.Component = strings.TrimSpace(raw.Component)
	}
	if meta.IsDefined("string_encoding") {
		cfg.StringEncoding = strings.TrimSpace(raw.StringEncoding)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("leak_check") {
		cfg.LeakCheck = raw.LeakCheck
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field of c.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Component) == "" {
		return fmt.Errorf("%w: missing component", ErrInvalidConfig)
	}
	if _, err := variant.ParseStringEncoding(c.StringEncoding); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) encoder() variant.Encoder {
	enc, _ := variant.ParseStringEncoding(c.StringEncoding)
	return variant.Encoder{Strings: enc}
}

func (c Config) level() slog.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

func (c Config) toBindings() bindings.Config {
	return bindings.Config{Component: strings.TrimSpace(c.Component)}
}

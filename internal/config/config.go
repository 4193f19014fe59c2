// Package config loads the configuration of the render command using viper.
//
// Values come from (highest priority first) command-line flags bound to
// viper, RENDER_ prefixed environment variables, and the configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/deniskrumko/render"
	"github.com/deniskrumko/render/pongo"
)

type Config struct {
	Root      string         `mapstructure:"root"`
	Template  string         `mapstructure:"template"`
	Extension string         `mapstructure:"extension"`
	Mode      string         `mapstructure:"mode"`
	Order     string         `mapstructure:"order"`
	Globals   map[string]any `mapstructure:"globals"`
	Engine    EngineConfig   `mapstructure:"engine"`
	Log       LogConfig      `mapstructure:"log"`
}

type EngineConfig struct {
	Root        string        `mapstructure:"root"`
	Directories []string      `mapstructure:"directories"`
	Suffix      string        `mapstructure:"suffix"`
	Options     pongo.Options `mapstructure:"options"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("root", ".")
	v.SetDefault("template", render.DefaultTemplate)
	v.SetDefault("extension", render.DefaultExtension)
	v.SetDefault("mode", render.ModeTolerant.String())
	v.SetDefault("order", render.OrderLast.String())
	v.SetDefault("engine.suffix", pongo.DefaultSuffix)
	v.SetDefault("engine.options.charset", pongo.DefaultOptions().Charset)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle directories set via viper (workaround for viper slice handling of env values)
	if v.IsSet("engine.directories") && len(config.Engine.Directories) == 0 {
		config.Engine.Directories = v.GetStringSlice("engine.directories")
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.Root == "" {
		return fmt.Errorf("root directory is required")
	}
	if _, err := parseMode(config.Mode); err != nil {
		return err
	}
	if _, err := parseOrder(config.Order); err != nil {
		return err
	}
	if _, err := parseLevel(config.Log.Level); err != nil {
		return err
	}
	switch config.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got '%s'", config.Log.Format)
	}
	return nil
}

// RendererOptions returns the options of the native renderer.
func (c *Config) RendererOptions(logger *slog.Logger) []render.Option {
	mode, _ := parseMode(c.Mode)
	order, _ := parseOrder(c.Order)
	return []render.Option{
		render.WithTemplate(c.Template),
		render.WithExtension(c.Extension),
		render.WithMode(mode),
		render.WithOrder(order),
		render.WithGlobals(c.Globals),
		render.WithLogger(logger),
	}
}

// NewEngine returns a pongo renderer configured with the engine settings.
func (c *Config) NewEngine(logger *slog.Logger) *pongo.Renderer {
	return pongo.New(c.Engine.Root,
		pongo.WithLogger(logger),
		pongo.WithSuffix(c.Engine.Suffix),
		pongo.WithOptions(c.Engine.Options),
	).AddDirectories(c.Engine.Directories...).AddGlobals(c.Globals)
}

// NewLogger returns the logger described by the log settings, writing to stderr.
func (c *Config) NewLogger() *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func parseMode(s string) (render.Mode, error) {
	switch strings.ToLower(s) {
	case render.ModeTolerant.String():
		return render.ModeTolerant, nil
	case render.ModeStrict.String():
		return render.ModeStrict, nil
	}
	return 0, fmt.Errorf("mode must be tolerant or strict, got '%s'", s)
}

func parseOrder(s string) (render.Order, error) {
	switch strings.ToLower(s) {
	case render.OrderLast.String():
		return render.OrderLast, nil
	case render.OrderFirst.String():
		return render.OrderFirst, nil
	}
	return 0, fmt.Errorf("order must be first or last, got '%s'", s)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level '%s': %w", s, err)
	}
	return level, nil
}

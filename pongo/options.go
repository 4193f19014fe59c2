package pongo

import (
	"log/slog"
)

// DefaultSuffix is appended to view names that do not end with the suffix.
const DefaultSuffix = ".html"

// Options are the engine options. They are handed to the template set on every render.
type Options struct {
	Debug   bool   `yaml:"debug" mapstructure:"debug"`
	Charset string `yaml:"charset" mapstructure:"charset"`
	// Cache is the cache directory, empty when the cache is disabled.
	Cache           string `yaml:"cache" mapstructure:"cache"`
	StrictVariables bool   `yaml:"strict_variables" mapstructure:"strict_variables"`
	Autoescape      bool   `yaml:"autoescape" mapstructure:"autoescape"`
}

// DefaultOptions returns the options of a new [Renderer].
func DefaultOptions() Options {
	return Options{Charset: "utf-8"}
}

// Option is a configuration option for a [Renderer].
type Option func(*Renderer)

// WithLogger sets the logger. Nothing is logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// WithSuffix sets the suffix appended to view names. See [Renderer.SetSuffix].
func WithSuffix(suffix string) Option {
	return func(r *Renderer) { r.suffix = suffix }
}

// WithOptions sets the engine options.
func WithOptions(opts Options) Option {
	return func(r *Renderer) { r.opts = opts }
}

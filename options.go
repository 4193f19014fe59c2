package render

import (
	"fmt"
	"html/template"
	"log/slog"
	"regexp"
	"strings"
)

// defaults
const (
	// DefaultExtension is the extension assumed for paths without one.
	DefaultExtension = "html"
	// DefaultTemplate is used when a path names no existing template.
	DefaultTemplate = "default"
)

// Mode is the error policy of a [Renderer].
type Mode int

const (
	// ModeTolerant records every failure and keeps going.
	ModeTolerant Mode = iota
	// ModeStrict records the first failure and ignores further configuration
	// calls until the renderer is reset.
	ModeStrict
)

func (m Mode) String() string {
	switch m {
	case ModeTolerant:
		return "tolerant"
	case ModeStrict:
		return "strict"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Order decides which queued view selects the template when none is forced.
type Order int

const (
	// OrderLast selects the template of the last queued view.
	OrderLast Order = iota
	// OrderFirst selects the template of the first queued view.
	OrderFirst
)

func (o Order) String() string {
	switch o {
	case OrderLast:
		return "last"
	case OrderFirst:
		return "first"
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// Option is a configuration option for a [Renderer].
type Option func(*config)

// WithExtension sets the extension used for paths without one and for the layout file.
// A leading dot is ignored.
func WithExtension(ext string) Option {
	return func(c *config) { c.ext = newVal(strings.ToLower(strings.TrimPrefix(ext, "."))) }
}

// WithTemplate sets the template used when a path names no existing template.
func WithTemplate(name string) Option {
	return func(c *config) { c.template = newVal(strings.Trim(name, "/")) }
}

// WithMode sets the error policy.
func WithMode(m Mode) Option {
	return func(c *config) { c.mode = newVal(m) }
}

// WithOrder sets the template tie-break policy.
func WithOrder(o Order) Option {
	return func(c *config) { c.order = newVal(o) }
}

// WithFuncs adds functions available to every view and layout.
// The name "partial" is reserved.
func WithFuncs(funcMap template.FuncMap) Option {
	return func(c *config) { c.funcMap = newVal(funcMap) }
}

// WithLogger sets the logger. Nothing is logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = newVal(l) }
}

// WithErrorHandler sets a function called synchronously for every recorded failure.
func WithErrorHandler(fn func(error)) Option {
	return func(c *config) { c.onError = newVal(fn) }
}

// WithGlobals sets the initial global data.
func WithGlobals(data Data) Option {
	return func(c *config) { c.globals = newVal(data) }
}

type config struct {
	ext      optionVal[string]
	template optionVal[string]
	mode     optionVal[Mode]
	order    optionVal[Order]
	funcMap  optionVal[template.FuncMap]
	logger   optionVal[*slog.Logger]
	onError  optionVal[func(error)]
	globals  optionVal[Data]
}

var (
	nameExp = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	extName = regexp.MustCompile(`^[a-z0-9]+$`)
)

func setup(c *config, options ...Option) error {
	// apply options
	for _, opt := range options {
		opt(c)
	}

	// extension
	if !c.ext.set {
		c.ext.update(DefaultExtension)
	}
	if !extName.MatchString(c.ext.val) {
		return fmt.Errorf("invalid extension '%s'", c.ext.val)
	}

	// template
	if !c.template.set {
		c.template.update(DefaultTemplate)
	}
	if !nameExp.MatchString(c.template.val) {
		return fmt.Errorf("invalid template name '%s'", c.template.val)
	}

	// funcMap
	funcMap := template.FuncMap{}
	for k, f := range c.funcMap.val {
		if k == partialFunc {
			return fmt.Errorf("function name '%s' is reserved", k)
		}
		funcMap[k] = f
	}
	c.funcMap.update(funcMap)

	// logger
	if c.logger.val == nil {
		c.logger.update(slog.New(slog.DiscardHandler))
	}

	return nil
}

type optionVal[T any] struct {
	val T
	set bool
}

func newVal[T any](val T) optionVal[T] {
	return optionVal[T]{val: val, set: true}
}

func (o *optionVal[T]) update(val T) {
	o.val = val
}

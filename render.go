package render

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
)

// Data is a set of variables made available to views and layouts.
type Data map[string]any

// Renderer renders queued views into the layout of their template.
//
// A Renderer keeps state between calls and must not be used by several
// goroutines at once. Use [Renderer.Clone] to get one instance per request.
type Renderer struct {
	fs   fs.FS
	conf config
	log  *slog.Logger

	globals Data
	data    Data
	queue   []View
	force   string
	views   string

	errs    []error
	onError func(error)
}

// New creates a new renderer over the template tree in fsys.
func New(fsys fs.FS, options ...Option) (*Renderer, error) {
	if fsys == nil {
		return nil, errors.New("error creating new renderer: nil filesystem")
	}

	var c config
	if err := setup(&c, options...); err != nil {
		return nil, fmt.Errorf("error creating new renderer: %w", err)
	}

	return &Renderer{
		fs:      fsys,
		conf:    c,
		log:     c.logger.val,
		globals: maps.Clone(c.globals.val),
		onError: c.onError.val,
	}, nil
}

// NewDir creates a new renderer over the template tree in the directory dir.
func NewDir(dir string, options ...Option) (*Renderer, error) {
	dir = filepath.Clean(dir)
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("error creating new renderer: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("error creating new renderer: '%s' is not a directory", dir)
	}

	return New(os.DirFS(dir), options...)
}

// Must is a helper that wraps a call to a function returning ([*Renderer], error)
// and panics if the error is non-nil.
func Must(r *Renderer, err error) *Renderer {
	if err != nil {
		panic(err)
	}
	return r
}

// Clone returns a renderer with the same configuration and a copy of the global data.
// Call data, queued views and errors are not copied.
func (r *Renderer) Clone() *Renderer {
	return &Renderer{
		fs:      r.fs,
		conf:    r.conf,
		log:     r.log,
		globals: maps.Clone(r.globals),
		onError: r.onError,
	}
}

// SetGlobals replaces the global data. Global data survives renders.
func (r *Renderer) SetGlobals(data Data) *Renderer {
	if r.halted("SetGlobals") {
		return r
	}
	r.globals = maps.Clone(data)
	return r
}

// AddGlobals merges data into the global data.
func (r *Renderer) AddGlobals(data Data) *Renderer {
	if r.halted("AddGlobals") {
		return r
	}
	r.globals = merge(r.globals, data)
	return r
}

// SetData replaces the call data. Call data is cleared after every successful render.
func (r *Renderer) SetData(data Data) *Renderer {
	if r.halted("SetData") {
		return r
	}
	r.data = maps.Clone(data)
	return r
}

// AddData merges data into the call data.
func (r *Renderer) AddData(data Data) *Renderer {
	if r.halted("AddData") {
		return r
	}
	r.data = merge(r.data, data)
	return r
}

// SetPath replaces the queued views with the view at path.
func (r *Renderer) SetPath(path string) *Renderer {
	if r.halted("SetPath") {
		return r
	}
	r.queue = []View{r.resolve(path)}
	return r
}

// AddPath appends the view at path to the queued views.
func (r *Renderer) AddPath(path string) *Renderer {
	if r.halted("AddPath") {
		return r
	}
	r.queue = append(r.queue, r.resolve(path))
	return r
}

// ForceTemplate sets the template whose layout is rendered, whatever the queued views are.
// An empty name restores the automatic selection.
func (r *Renderer) ForceTemplate(name string) *Renderer {
	r.force = strings.Trim(name, "/")
	return r
}

// OnError sets a function called for every recorded failure. A nil function removes it.
func (r *Renderer) OnError(fn func(error)) *Renderer {
	r.onError = fn
	return r
}

// Errors returns the failures recorded since the last reset.
func (r *Renderer) Errors() []error {
	return append([]error(nil), r.errs...)
}

// Err returns the recorded failures joined, or nil.
func (r *Renderer) Err() error {
	return errors.Join(r.errs...)
}

// ClearErrors forgets the recorded failures.
func (r *Renderer) ClearErrors() *Renderer {
	r.errs = nil
	return r
}

// Views returns the concatenated output of the views of the last render.
func (r *Renderer) Views() string {
	return r.views
}

// Queued returns the queued views.
func (r *Renderer) Queued() []View {
	return append([]View(nil), r.queue...)
}

// Globals returns a copy of the global data.
func (r *Renderer) Globals() Data {
	return maps.Clone(r.globals)
}

// Reset clears the queued views, the forced template, the recorded failures and the views output.
// The call data and the global data are cleared on request.
func (r *Renderer) Reset(data, globals bool) *Renderer {
	r.reset(data, globals)
	r.views = ""
	return r
}

func (r *Renderer) reset(data, globals bool) {
	if data {
		r.data = nil
	}
	if globals {
		r.globals = nil
	}
	r.errs = nil
	r.queue = nil
	r.force = ""
}

// record notifies the error handler and appends err to the recorded failures.
func (r *Renderer) record(err *Error) {
	r.log.Warn("render failure", "kind", err.Kind.Error(), "path", err.Path, "error", err)
	if r.onError != nil {
		r.onError(err)
	}
	r.errs = append(r.errs, err)
}

// halted reports whether configuration calls are ignored; only in strict mode after a failure.
func (r *Renderer) halted(op string) bool {
	if r.conf.mode.val == ModeStrict && len(r.errs) > 0 {
		r.log.Debug("ignored after failure", "op", op, "errors", len(r.errs))
		return true
	}
	return false
}

func merge(dst, src Data) Data {
	if dst == nil {
		dst = make(Data, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

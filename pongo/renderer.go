// Package pongo renders views with the pongo2 template engine.
//
// A [Renderer] accumulates search directories, global and call data, and
// named filters, functions, predicates and tags. Everything is handed to a
// pongo2 template set when [Renderer.Render] is called.
//
//	r := pongo.New("web").AddDirectory("views")
//	out, err := r.AddFilter("yell", yell).
//	    AddGlobals(map[string]any{"site": "My site"}).
//	    SetData(map[string]any{"title": "Home"}).
//	    SetPath("home").
//	    Render()
//
// Filters and tags are registered in the process wide pongo2 registries, and
// autoescaping is a process wide pongo2 setting. Renderers with different
// registrations or autoescaping must not render concurrently.
package pongo

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/flosch/pongo2/v6"
)

var (
	ErrNoDirectories = errors.New("no template directories")
	ErrNoView        = errors.New("no view to render")
)

// Predicate is a test callable from templates, such as {% if is_admin(user) %}.
type Predicate func(v any) bool

// Renderer is the configuration of one pongo2 render.
// It must not be used by several goroutines at once.
type Renderer struct {
	root   string
	dirs   []string
	suffix string
	view   string
	opts   Options
	log    *slog.Logger

	globals map[string]any
	data    map[string]any

	filters    map[string]pongo2.FilterFunction
	functions  map[string]any
	predicates map[string]Predicate
	tags       map[string]pongo2.TagParser

	// set is kept between renders when the cache is enabled.
	set *pongo2.TemplateSet
}

// New creates a renderer. Relative directories are searched under root.
func New(root string, options ...Option) *Renderer {
	r := &Renderer{
		root:       root,
		suffix:     DefaultSuffix,
		opts:       DefaultOptions(),
		log:        slog.New(slog.DiscardHandler),
		globals:    map[string]any{},
		data:       map[string]any{},
		filters:    map[string]pongo2.FilterFunction{"markdown": markdownFilter},
		functions:  map[string]any{},
		predicates: map[string]Predicate{},
		tags:       map[string]pongo2.TagParser{},
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// AddDirectory appends a directory to the search directories.
func (r *Renderer) AddDirectory(dir string) *Renderer {
	r.dirs = append(r.dirs, filepath.Clean(dir))
	r.set = nil
	return r
}

// AddDirectories appends directories to the search directories.
func (r *Renderer) AddDirectories(dirs ...string) *Renderer {
	for _, dir := range dirs {
		r.AddDirectory(dir)
	}
	return r
}

// SetDirectory replaces the search directories with dir.
func (r *Renderer) SetDirectory(dir string) *Renderer {
	return r.ClearDirectories().AddDirectory(dir)
}

// SetDirectories replaces the search directories.
func (r *Renderer) SetDirectories(dirs ...string) *Renderer {
	return r.ClearDirectories().AddDirectories(dirs...)
}

// ClearDirectories removes every search directory.
func (r *Renderer) ClearDirectories() *Renderer {
	r.dirs = nil
	r.set = nil
	return r
}

// Directories returns the search directories in search order.
func (r *Renderer) Directories() []string {
	return append([]string(nil), r.dirs...)
}

// AddFilter registers a filter. A filter with the same name is replaced.
func (r *Renderer) AddFilter(name string, fn pongo2.FilterFunction) *Renderer {
	r.filters[name] = fn
	return r
}

// AddFunction registers a function callable from templates. fn must be a func.
func (r *Renderer) AddFunction(name string, fn any) *Renderer {
	r.functions[name] = fn
	return r
}

// AddPredicate registers a predicate callable from templates.
func (r *Renderer) AddPredicate(name string, fn Predicate) *Renderer {
	r.predicates[name] = fn
	return r
}

// AddTag registers a custom tag. A tag with the same name is replaced.
func (r *Renderer) AddTag(name string, parser pongo2.TagParser) *Renderer {
	r.tags[name] = parser
	return r
}

// AddGlobals merges data into the global data.
func (r *Renderer) AddGlobals(data map[string]any) *Renderer {
	maps.Copy(r.globals, data)
	return r
}

// SetData replaces the data of the view.
func (r *Renderer) SetData(data map[string]any) *Renderer {
	r.data = maps.Clone(data)
	if r.data == nil {
		r.data = map[string]any{}
	}
	return r
}

// AddData merges data into the data of the view.
func (r *Renderer) AddData(data map[string]any) *Renderer {
	maps.Copy(r.data, data)
	return r
}

// SetSuffix sets the suffix appended to view names set afterwards. An empty suffix disables it.
func (r *Renderer) SetSuffix(suffix string) *Renderer {
	r.suffix = suffix
	return r
}

// SetPath sets the view to render, relative to the search directories.
// The suffix is appended unless the view already ends with it.
func (r *Renderer) SetPath(view string) *Renderer {
	if r.suffix != "" && !strings.HasSuffix(view, r.suffix) {
		view += r.suffix
	}
	r.view = view
	return r
}

// View returns the view to render.
func (r *Renderer) View() string {
	return r.view
}

// Options returns the engine options.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetOptions replaces the engine options.
func (r *Renderer) SetOptions(opts Options) *Renderer {
	r.opts = opts
	r.set = nil
	return r
}

// SetDebug sets the debug option. In debug mode templates are parsed on every render.
func (r *Renderer) SetDebug(state bool) *Renderer {
	r.opts.Debug = state
	return r
}

// SetCharset sets the charset the output is encoded to.
func (r *Renderer) SetCharset(charset string) *Renderer {
	r.opts.Charset = charset
	return r
}

// SetStrictVariables sets the strict_variables option.
func (r *Renderer) SetStrictVariables(state bool) *Renderer {
	r.opts.StrictVariables = state
	return r
}

// SetAutoescape sets the autoescape option.
func (r *Renderer) SetAutoescape(state bool) *Renderer {
	r.opts.Autoescape = state
	return r
}

// SetCache creates the cache directory dir if needed, and enables the cache with it
// when state is true. When state is false the cache is disabled.
func (r *Renderer) SetCache(state bool, dir string) error {
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return fmt.Errorf("error creating cache directory '%s': %w", dir, err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("error creating cache directory '%s': %w", dir, err)
	}

	r.opts.Cache = ""
	if state {
		r.opts.Cache = abs
	}
	r.set = nil
	return nil
}

// ClearCache removes the cache directory and drops the cached templates.
func (r *Renderer) ClearCache() error {
	r.set = nil
	if r.opts.Cache == "" {
		return nil
	}
	if err := os.RemoveAll(r.opts.Cache); err != nil {
		return fmt.Errorf("error clearing cache directory '%s': %w", r.opts.Cache, err)
	}
	return nil
}

// Render renders the view with the data of the view.
func (r *Renderer) Render() (string, error) {
	if r.view == "" {
		return "", ErrNoView
	}

	set, err := r.templateSet()
	if err != nil {
		return "", err
	}
	if err := r.register(); err != nil {
		return "", err
	}
	pongo2.SetAutoescape(r.opts.Autoescape)
	if r.opts.StrictVariables {
		r.log.Warn("strict_variables is not supported by pongo2, ignored")
	}

	var tpl *pongo2.Template
	if r.opts.Cache != "" {
		tpl, err = set.FromCache(r.view)
	} else {
		tpl, err = set.FromFile(r.view)
	}
	if err != nil {
		return "", fmt.Errorf("error loading view '%s': %w", r.view, err)
	}

	out, err := tpl.Execute(pongo2.Context(maps.Clone(r.data)))
	if err != nil {
		return "", fmt.Errorf("error rendering view '%s': %w", r.view, err)
	}

	out, err = encode(out, r.opts.Charset)
	if err != nil {
		return "", fmt.Errorf("error rendering view '%s': %w", r.view, err)
	}

	r.log.Debug("rendered view", "view", r.view, "directories", len(r.dirs), "bytes", len(out))

	return out, nil
}

// templateSet returns a template set over the search directories, bound to the globals.
func (r *Renderer) templateSet() (*pongo2.TemplateSet, error) {
	set := r.set
	if set == nil {
		if len(r.dirs) == 0 {
			return nil, ErrNoDirectories
		}

		loaders := make([]pongo2.TemplateLoader, 0, len(r.dirs))
		for _, dir := range r.dirs {
			l, err := pongo2.NewLocalFileSystemLoader(r.dir(dir))
			if err != nil {
				return nil, fmt.Errorf("error loading directory '%s': %w", dir, err)
			}
			loaders = append(loaders, l)
		}
		set = pongo2.NewSet("render", loaders...)
	}

	set.Debug = r.opts.Debug
	set.Globals = r.context()

	if r.opts.Cache != "" {
		r.set = set
	}
	return set, nil
}

// context returns the globals with the functions and predicates. Predicates win, then functions.
func (r *Renderer) context() pongo2.Context {
	ctx := make(pongo2.Context, len(r.globals)+len(r.functions)+len(r.predicates))
	maps.Copy(ctx, r.globals)
	maps.Copy(ctx, r.functions)
	for name, fn := range r.predicates {
		ctx[name] = fn
	}
	return ctx
}

func (r *Renderer) dir(dir string) string {
	if r.root == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(r.root, dir)
}

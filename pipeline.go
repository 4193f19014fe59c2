package render

import (
	"bytes"
	"html/template"
	"io"
	"maps"
	"path"
	"strings"
)

// Render executes the queued views and wraps their output in the layout of the selected template.
//
// The layout is the file layout/layout.<ext> of the template, executed with
// the merged data and the concatenated views output bound to "views".
//
// Render returns an empty string when a failure was recorded before or during the call.
// Failures are available with [Renderer.Errors], or through the error handler.
// After a successful render the queued views, the forced template, the
// recorded failures and the call data are cleared. Global data is kept.
func (r *Renderer) Render() string {
	var buf bytes.Buffer
	if err := r.render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Execute is like [Renderer.Render] but writes the page to w, and returns the recorded failures.
func (r *Renderer) Execute(w io.Writer) error {
	var buf bytes.Buffer
	if err := r.render(&buf); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// View executes the view at path alone, with the global data merged with data.
// The queued views are left untouched. It returns an empty string on failure.
func (r *Renderer) View(p string, data Data) string {
	v := r.resolve(p)
	if v.Path == "" {
		return ""
	}

	out, err := r.execFile(v, r.scope(data), 0)
	if err != nil {
		r.record(newError(ErrExecute, v.Path, err))
		return ""
	}

	return string(out)
}

func (r *Renderer) render(buf *bytes.Buffer) error {
	r.views = ""

	// skip on error
	if len(r.errs) > 0 {
		r.log.Debug("render skipped", "errors", len(r.errs))
		return r.fail()
	}

	name := r.template()
	scope := r.scope(r.data)
	if _, ok := scope[viewsVar]; ok {
		r.log.Warn("data key is reserved for the layout", "key", viewsVar)
	}

	// buffer views
	var views strings.Builder
	for _, v := range r.queue {
		// failed resolution
		if v.Path == "" {
			continue
		}
		out, err := r.execFile(v, scope, 0)
		if err != nil {
			r.record(newError(ErrExecute, v.Path, err))
			if r.conf.mode.val == ModeStrict {
				break
			}
			continue
		}
		views.WriteString(string(out))
	}
	if len(r.errs) > 0 {
		return r.fail()
	}
	r.views = views.String()

	// load layout
	layout := path.Join(name, "layout", "layout."+r.conf.ext.val)
	if !isFile(r.fs, layout) {
		r.record(newError(ErrLayoutNotFound, layout, nil))
		return r.fail()
	}

	layoutData := maps.Clone(scope)
	layoutData[viewsVar] = template.HTML(r.views)

	out, err := r.execFile(View{Path: layout, Template: name, Extension: r.conf.ext.val}, layoutData, 0)
	if err != nil {
		r.record(newError(ErrExecute, layout, err))
		return r.fail()
	}
	buf.WriteString(string(out))

	r.log.Debug("rendered", "template", name, "views", len(r.queue), "bytes", buf.Len())

	// delete call data
	r.reset(true, false)
	return nil
}

// template returns the template whose layout is rendered.
func (r *Renderer) template() string {
	if r.force != "" {
		return r.force
	}
	if len(r.queue) == 0 {
		return r.conf.template.val
	}
	if r.conf.order.val == OrderFirst {
		return r.queue[0].Template
	}
	return r.queue[len(r.queue)-1].Template
}

// fail clears the queued views and the forced template, and returns the recorded failures.
// Data and failures are kept for inspection.
func (r *Renderer) fail() error {
	r.queue = nil
	r.force = ""
	return r.Err()
}

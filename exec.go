package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"maps"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// viewsVar is the reserved name bound to the concatenated view output in layouts.
const viewsVar = "views"

// extensions of views converted from markdown after execution
var markdownExts = []string{"md", "markdown"}

var markdown = goldmark.New(goldmark.WithRendererOptions(html.WithUnsafe()))

// execFile parses the file of v and executes it with data, returning the captured output.
func (r *Renderer) execFile(v View, data any, depth int) (template.HTML, error) {
	if depth > maxDepth {
		return "", fmt.Errorf("error executing '%s': partials nested deeper than %d", v.Path, maxDepth)
	}

	body, err := readFile(r.fs, v.Path)
	if err != nil {
		return "", err
	}

	tpl, err := template.New(v.Path).Funcs(r.funcs(depth)).Parse(body)
	if err != nil {
		return "", fmt.Errorf("error parsing template '%s': %w", v.Path, err)
	}
	if err := r.checkPartials(tpl, v.Path, body); err != nil {
		return "", err
	}

	out, err := execTemplate(tpl, data)
	if err != nil {
		return "", fmt.Errorf("error executing template '%s': %w", v.Path, err)
	}

	if hasExt(markdownExts, v.Extension) {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(out), &buf); err != nil {
			return "", fmt.Errorf("error converting markdown '%s': %w", v.Path, err)
		}
		out = template.HTML(buf.String())
	}

	return out, nil
}

// funcs returns the functions of a file executed at the given partial depth.
func (r *Renderer) funcs(depth int) template.FuncMap {
	funcMap := maps.Clone(r.conf.funcMap.val)
	funcMap[partialFunc] = func(name string, data ...map[string]any) (template.HTML, error) {
		v, errs := r.lookup(name)
		if v.Path == "" {
			err := make([]error, len(errs))
			for i, e := range errs {
				err[i] = e
			}
			return "", errors.Join(err...)
		}

		scope := maps.Clone(r.globals)
		for _, d := range data {
			scope = merge(scope, d)
		}
		return r.execFile(v, scope, depth+1)
	}
	return funcMap
}

// scope merges the global data and data; data wins.
func (r *Renderer) scope(data Data) Data {
	s := make(Data, len(r.globals)+len(data))
	maps.Copy(s, r.globals)
	maps.Copy(s, data)
	return s
}

func execTemplate(t *template.Template, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return template.HTML(buf.String()), nil
}

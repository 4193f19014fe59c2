package pongo

import (
	"bytes"
	"fmt"

	"github.com/flosch/pongo2/v6"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(goldmark.WithRendererOptions(html.WithUnsafe()))

// register registers the filters and tags in the pongo2 registries, replacing existing ones.
func (r *Renderer) register() error {
	for name, fn := range r.filters {
		var err error
		if pongo2.FilterExists(name) {
			err = pongo2.ReplaceFilter(name, fn)
		} else {
			err = pongo2.RegisterFilter(name, fn)
		}
		if err != nil {
			return fmt.Errorf("error registering filter '%s': %w", name, err)
		}
	}

	for name, parser := range r.tags {
		if err := pongo2.RegisterTag(name, parser); err != nil {
			if err := pongo2.ReplaceTag(name, parser); err != nil {
				return fmt.Errorf("error registering tag '%s': %w", name, err)
			}
		}
	}

	return nil
}

// markdownFilter converts markdown to HTML: {{ body|markdown }}
func markdownFilter(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(in.String()), &buf); err != nil {
		return nil, &pongo2.Error{Sender: "filter:markdown", OrigError: err}
	}
	return pongo2.AsSafeValue(buf.String()), nil
}

package render

import (
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var identExp = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

func TestResolveProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: existing template/file.ext paths resolve to the file
	properties.Property("existing views resolve", prop.ForAll(
		func(tpl, name, ext string) bool {
			if !identExp.MatchString(tpl) || !identExp.MatchString(name) {
				return true // Skip shrunk values
			}
			file := tpl + "/" + name + "." + ext
			r := Must(New(fstest.MapFS{file: &fstest.MapFile{}}))

			v := r.Resolve(file)

			return len(r.Errors()) == 0 &&
				v.Path == file &&
				v.Template == tpl &&
				v.Extension == strings.ToLower(ext)
		},
		gen.RegexMatch(`^[a-z][a-z0-9_-]{0,8}$`),
		gen.RegexMatch(`^[a-z][a-z0-9_-]{0,8}$`),
		gen.OneConstOf("html", "md", "TXT", "Tpl", "gohtml"),
	))

	// Property: paths without an extension get the default one
	properties.Property("default extension appended", prop.ForAll(
		func(tpl, name string) bool {
			if !identExp.MatchString(tpl) || !identExp.MatchString(name) {
				return true
			}
			file := tpl + "/" + name + "." + DefaultExtension
			r := Must(New(fstest.MapFS{file: &fstest.MapFile{}}))

			v := r.Resolve(tpl + "/" + name)

			return len(r.Errors()) == 0 && v.Path == file && v.Extension == DefaultExtension
		},
		gen.RegexMatch(`^[a-z][a-z0-9_-]{0,8}$`),
		gen.RegexMatch(`^[a-z][a-z0-9_-]{0,8}$`),
	))

	// Property: unknown templates fall back to the default template
	properties.Property("unknown template substituted", prop.ForAll(
		func(tpl string) bool {
			if !identExp.MatchString(tpl) || tpl == DefaultTemplate {
				return true
			}
			r := Must(New(fstest.MapFS{"default/home.html": &fstest.MapFile{}}))

			v := r.Resolve(tpl + "/home")

			errs := r.Errors()
			return v.Template == DefaultTemplate && len(errs) == 2 && v.Path == ""
		},
		gen.RegexMatch(`^[a-z][a-z0-9_-]{0,8}$`),
	))

	properties.TestingRun(t)
}

func TestRenderProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	testFS := fstest.MapFS{
		"default/value.html":         &fstest.MapFile{Data: []byte(`{{.Key}}`)},
		"default/layout/layout.html": &fstest.MapFile{Data: []byte(`[{{.views}}|{{.Key}}]`)},
	}

	// Property: call data wins over global data
	properties.Property("scope precedence", prop.ForAll(
		func(global, call string) bool {
			r := Must(New(testFS))
			out := r.SetGlobals(Data{"Key": global}).SetData(Data{"Key": call}).AddPath("default/value").Render()
			return out == "["+call+"|"+call+"]"
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	// Property: rendering the same configuration twice yields the same output
	properties.Property("idempotent render", prop.ForAll(
		func(global string, n int) bool {
			r := Must(New(testFS)).SetGlobals(Data{"Key": global})
			queue := func() {
				for i := 0; i < n; i++ {
					r.AddPath("default/value")
				}
			}
			queue()
			first := r.Render()
			queue()
			second := r.Render()
			return first != "" && first == second && r.Err() == nil
		},
		gen.AlphaString(),
		gen.IntRange(0, 5),
	))

	properties.TestingRun(t)
}

package pongo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flosch/pongo2/v6"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	}
	return dir
}

func TestRender(t *testing.T) {
	dir := createTestDir(t, map[string]string{
		"views/hello.html": `Hello {{ name }}{{ site }}`,
	})

	out, err := New("").
		AddDirectory(filepath.Join(dir, "views")).
		AddGlobals(map[string]any{"site": "!"}).
		SetData(map[string]any{"name": "Bob"}).
		SetPath("hello").
		Render()

	require.NoError(t, err)
	assert.Equal(t, "Hello Bob!", out)
}

func TestRender_DataOverridesGlobals(t *testing.T) {
	dir := createTestDir(t, map[string]string{"v.html": `{{ name }}`})

	r := New(dir).AddDirectory(".").AddGlobals(map[string]any{"name": "global"}).SetPath("v")

	out, err := r.Render()
	require.NoError(t, err)
	assert.Equal(t, "global", out)

	out, err = r.AddData(map[string]any{"name": "call"}).Render()
	require.NoError(t, err)
	assert.Equal(t, "call", out)
}

func TestRender_RootAndDirectories(t *testing.T) {
	dir := createTestDir(t, map[string]string{
		"first/a.html":  `first a`,
		"second/a.html": `second a`,
		"second/b.html": `second b`,
	})

	r := New(dir).AddDirectories("first/", "second")
	assert.Equal(t, []string{"first", "second"}, r.Directories())

	out, err := r.SetPath("a").Render()
	require.NoError(t, err)
	assert.Equal(t, "first a", out)

	out, err = r.SetPath("b.html").Render()
	require.NoError(t, err)
	assert.Equal(t, "second b", out)

	out, err = r.SetDirectory("second").SetPath("a").Render()
	require.NoError(t, err)
	assert.Equal(t, "second a", out)
}

func TestRender_Suffix(t *testing.T) {
	r := New("", WithSuffix(".twig"))

	assert.Equal(t, "home.twig", r.SetPath("home").View())
	assert.Equal(t, "home.twig", r.SetPath("home.twig").View())
	assert.Equal(t, "home.txt", r.SetSuffix("").SetPath("home.txt").View())
}

func TestRender_Filter(t *testing.T) {
	dir := createTestDir(t, map[string]string{"v.html": `{{ name|yell }}`})

	yell := func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(strings.ToUpper(in.String())), nil
	}
	twice := func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(in.String() + in.String()), nil
	}

	r := New(dir).AddDirectory(".").AddFilter("yell", yell).SetData(map[string]any{"name": "bob"}).SetPath("v")
	out, err := r.Render()
	require.NoError(t, err)
	assert.Equal(t, "BOB", out)

	// registering the same name again replaces the filter
	out, err = r.AddFilter("yell", twice).Render()
	require.NoError(t, err)
	assert.Equal(t, "bobbob", out)
}

func TestRender_FunctionsAndPredicates(t *testing.T) {
	dir := createTestDir(t, map[string]string{
		"v.html": `{{ greet(name) }}{% if is_admin(name) %} (admin){% endif %}`,
	})

	r := New(dir).
		AddDirectory(".").
		AddFunction("greet", func(name string) string { return "Hi " + name }).
		AddPredicate("is_admin", func(v any) bool { return v == "root" }).
		SetPath("v")

	out, err := r.SetData(map[string]any{"name": "root"}).Render()
	require.NoError(t, err)
	assert.Equal(t, "Hi root (admin)", out)

	out, err = r.SetData(map[string]any{"name": "bob"}).Render()
	require.NoError(t, err)
	assert.Equal(t, "Hi bob", out)
}

type shoutNode struct {
	text string
}

func (n *shoutNode) Execute(_ *pongo2.ExecutionContext, w pongo2.TemplateWriter) *pongo2.Error {
	if _, err := w.WriteString(strings.ToUpper(n.text)); err != nil {
		return &pongo2.Error{Sender: "tag:shout", OrigError: err}
	}
	return nil
}

func shoutParser(_ *pongo2.Parser, _ *pongo2.Token, args *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	tok := args.MatchType(pongo2.TokenString)
	if tok == nil {
		return nil, args.Error("shout expects a string", nil)
	}
	return &shoutNode{text: tok.Val}, nil
}

func TestRender_Tag(t *testing.T) {
	dir := createTestDir(t, map[string]string{"v.html": `{% shout "hey" %}`})

	out, err := New(dir).AddDirectory(".").AddTag("shout", shoutParser).SetPath("v").Render()

	require.NoError(t, err)
	assert.Equal(t, "HEY", out)
}

func TestRender_Markdown(t *testing.T) {
	dir := createTestDir(t, map[string]string{"v.html": `{{ body|markdown }}`})

	out, err := New(dir).AddDirectory(".").SetData(map[string]any{"body": "# Title"}).SetPath("v").Render()

	require.NoError(t, err)
	assert.Equal(t, "<h1>Title</h1>\n", out)
}

func TestRender_Autoescape(t *testing.T) {
	dir := createTestDir(t, map[string]string{"v.html": `{{ html }}`})
	r := New(dir).AddDirectory(".").SetData(map[string]any{"html": "<b>"}).SetPath("v")

	out, err := r.Render()
	require.NoError(t, err)
	assert.Equal(t, "<b>", out)

	out, err = r.SetAutoescape(true).Render()
	require.NoError(t, err)
	assert.Equal(t, "&lt;b&gt;", out)

	pongo2.SetAutoescape(true)
}

func TestRender_Charset(t *testing.T) {
	dir := createTestDir(t, map[string]string{"v.html": `{{ word }}`})
	r := New(dir).AddDirectory(".").SetData(map[string]any{"word": "café"}).SetPath("v")

	out, err := r.Render()
	require.NoError(t, err)
	assert.Equal(t, "café", out)

	out, err = r.SetCharset("ISO-8859-1").Render()
	require.NoError(t, err)
	assert.Equal(t, "caf\xe9", out)

	_, err = r.SetCharset("klingon").Render()
	assert.Error(t, err)
}

func TestRender_Errors(t *testing.T) {
	dir := createTestDir(t, map[string]string{
		"v.html":   `ok`,
		"bad.html": `{% if %}`,
	})

	tests := []struct {
		name string
		r    *Renderer
		err  error
	}{
		{name: "no view", r: New(dir).AddDirectory("."), err: ErrNoView},
		{name: "no directories", r: New(dir).SetPath("v"), err: ErrNoDirectories},
		{name: "missing directory", r: New(dir).AddDirectory("nope").SetPath("v")},
		{name: "missing view", r: New(dir).AddDirectory(".").SetPath("nope")},
		{name: "parse error", r: New(dir).AddDirectory(".").SetPath("bad")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.r.Render()
			require.Error(t, err)
			assert.Empty(t, out)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	r := New("")
	if diff := cmp.Diff(DefaultOptions(), r.Options()); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}

	r.SetDebug(true).SetCharset("latin1").SetStrictVariables(true).SetAutoescape(true)
	want := Options{Debug: true, Charset: "latin1", StrictVariables: true, Autoescape: true}
	if diff := cmp.Diff(want, r.Options()); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}

	r = New("", WithOptions(Options{Cache: "/tmp/x"}))
	if diff := cmp.Diff(Options{Cache: "/tmp/x"}, r.Options()); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
}

func TestCache(t *testing.T) {
	dir := createTestDir(t, map[string]string{"v.html": `{{ n }}`})
	cache := filepath.Join(t.TempDir(), "cache", "pongo")

	r := New(dir).AddDirectory(".").SetPath("v")
	require.NoError(t, r.SetCache(true, cache))
	assert.DirExists(t, cache)
	assert.True(t, filepath.IsAbs(r.Options().Cache))

	for _, n := range []string{"1", "2"} {
		out, err := r.SetData(map[string]any{"n": n}).Render()
		require.NoError(t, err)
		assert.Equal(t, n, out)
	}
	assert.NotNil(t, r.set)

	require.NoError(t, r.ClearCache())
	assert.NoDirExists(t, cache)
	assert.Nil(t, r.set)

	require.NoError(t, r.SetCache(false, cache))
	assert.Equal(t, "", r.Options().Cache)
	out, err := r.Render()
	require.NoError(t, err)
	assert.Equal(t, "2", out)
	assert.Nil(t, r.set)
}

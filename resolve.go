package render

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
	"unicode"
)

var (
	templateExp = regexp.MustCompile(`^([a-zA-Z0-9_-]*)/`)
	extExp      = regexp.MustCompile(`\.([a-zA-Z0-9]+)$`)
)

// View is the result of resolving a caller supplied path.
type View struct {
	// Path is the cleaned slash separated file name inside the root filesystem.
	// It is empty when the file could not be found.
	Path string
	// Template is the template folder the view belongs to.
	Template string
	// Extension is the lower-cased file extension, without the dot.
	Extension string
}

// Resolve resolves the path of a view without queuing it.
//
// The first path segment names the template folder and a trailing ".ext" the
// extension. Paths without an extension get the default one appended.
// Failures are recorded like any other failure, and the returned view has an empty Path.
func (r *Renderer) Resolve(p string) View {
	return r.resolve(p)
}

func (r *Renderer) resolve(raw string) View {
	v, errs := r.lookup(raw)
	for _, err := range errs {
		r.record(err)
	}

	r.log.Debug("resolved view", "path", raw, "file", v.Path, "template", v.Template, "extension", v.Extension)

	return v
}

// lookup resolves raw and returns the failures instead of recording them.
func (r *Renderer) lookup(raw string) (v View, errs []*Error) {
	// remove whitespace and surrounding slashes
	p := trimPath(raw)
	if p == "" {
		errs = append(errs, newError(ErrEmptyPath, raw, nil))
	}

	v.Template = r.conf.template.val
	v.Extension = r.conf.ext.val

	// detect template
	if m := templateExp.FindStringSubmatch(p); m != nil && m[1] != "" && isDir(r.fs, m[1]) {
		v.Template = m[1]
	} else {
		errs = append(errs, newError(ErrTemplateNotFound, p, nil))
	}

	// detect extension
	if m := extExp.FindStringSubmatch(p); m != nil {
		v.Extension = strings.ToLower(m[1])
	}

	// view file
	name := r.fileName(p)
	if isFile(r.fs, name) {
		v.Path = name
	} else {
		errs = append(errs, newError(ErrViewNotFound, name, nil))
	}

	return v, errs
}

// fileName returns the file name a trimmed path refers to.
func (r *Renderer) fileName(p string) string {
	if !extExp.MatchString(p) {
		p += "." + r.conf.ext.val
	}
	return path.Clean(p)
}

func trimPath(raw string) string {
	return strings.Trim(stripSpace(raw), "/")
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func isDir(fsys fs.FS, name string) bool {
	fi, err := fs.Stat(fsys, name)
	return err == nil && fi.IsDir()
}

// isFile reports whether name is a readable regular file.
func isFile(fsys fs.FS, name string) bool {
	if !fs.ValidPath(name) {
		return false
	}
	f, err := fsys.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	fi, err := f.Stat()
	return err == nil && fi.Mode().IsRegular()
}

func readFile(fsys fs.FS, name string) (string, error) {
	f, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("error reading file: %w", err)
	}

	return string(f), nil
}

func hasExt(exts []string, ext string) bool {
	if ext == "" {
		return false
	}

	sanitize := func(ext string) string {
		return strings.ToLower(strings.TrimPrefix(ext, "."))
	}

	for _, e := range exts {
		if sanitize(e) == sanitize(ext) {
			return true
		}
	}

	return false
}

package render

import (
	"errors"
	"fmt"
)

// Failure kinds recorded by a [Renderer]. They can be matched with [errors.Is].
var (
	ErrEmptyPath        = errors.New("empty path")
	ErrTemplateNotFound = errors.New("template directory does not exist")
	ErrViewNotFound     = errors.New("view file does not exist")
	ErrLayoutNotFound   = errors.New("layout file does not exist")
	ErrExecute          = errors.New("execution failed")
)

// Error is a failure recorded while resolving or rendering.
type Error struct {
	// Kind is one of the Err* sentinels of this package.
	Kind error
	// Path is the path given by the caller, or the file involved.
	Path string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: '%s'", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func newError(kind error, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// loadData reads a YAML (or JSON) mapping from the file name, or from stdin when name is "-".
// An empty name returns no data.
func loadData(stdin io.Reader, name string) (map[string]any, error) {
	if name == "" {
		return nil, nil
	}

	var b []byte
	var err error
	if name == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading data file '%s': %w", name, err)
	}

	var data map[string]any
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("error parsing data file '%s': %w", name, err)
	}
	return data, nil
}

// writeOutput writes b to the file name atomically, or to w when name is empty.
func writeOutput(w io.Writer, name string, b []byte) error {
	if name == "" {
		_, err := w.Write(b)
		return err
	}

	if err := atomic.WriteFile(name, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("error writing '%s': %w", name, err)
	}
	return nil
}

package pongo

import (
	"fmt"

	"golang.org/x/text/encoding/htmlindex"
)

// encode encodes the UTF-8 string s to charset.
func encode(s, charset string) (string, error) {
	if charset == "" {
		return s, nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", fmt.Errorf("unknown charset '%s': %w", charset, err)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return s, nil
	}

	out, err := enc.NewEncoder().String(s)
	if err != nil {
		return "", fmt.Errorf("error encoding to '%s': %w", charset, err)
	}
	return out, nil
}

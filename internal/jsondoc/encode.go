package jsondoc

import (
	"bytes"
	"encoding/json"
	"io"
)

// Encode writes v as JSON indented with two spaces, without HTML escaping,
// followed by a newline.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Marshal returns the Encode form of v.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Compact returns the single-line form of v, without a trailing newline.
func Compact(v any) ([]byte, error) {
	return encodeCompact(v)
}

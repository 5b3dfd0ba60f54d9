// Package format renders CLI results as json or text.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Texter is a result with a human-readable form for --format text.
type Texter interface {
	Text() string
}

// Write renders v as "json" (the default) or "text". Values without a text
// form fall back to indented JSON.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return encodeJSON(w, v, pretty)
	case "text":
		t, ok := v.(Texter)
		if !ok {
			return encodeJSON(w, v, true)
		}
		s := t.Text()
		if !strings.HasSuffix(s, "\n") {
			s += "\n"
		}
		_, err := io.WriteString(w, s)
		return err
	default:
		return fmt.Errorf("unknown format %q (want json or text)", format)
	}
}

// encodeJSON keeps characters like × and < readable in the output.
func encodeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalDocument converts an entity to JSON TEXT for storage.
// Uses json.Encoder with HTML escaping disabled so stored strings are the
// literal text json_extract hands back.
func marshalDocument(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	doc := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(doc, "{") {
		return "", fmt.Errorf("marshal document: %T does not encode to a JSON object", v)
	}
	return doc, nil
}

// unmarshalDocument parses stored JSON TEXT into an entity.
func unmarshalDocument[E any](data []byte) (E, error) {
	var e E
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("unmarshal document: %w", err)
	}
	return e, nil
}

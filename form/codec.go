package form

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Unmarshal decodes a form of type t from JSON or YAML. Input whose first
// non-space byte is '{' is read as JSON, anything else as YAML.
func Unmarshal(t Type, data []byte) (State, error) {
	s, err := New(t)
	if err != nil {
		return nil, err
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, s); err != nil {
			return nil, fmt.Errorf("form: decoding %s JSON: %w", t, err)
		}
		return s, nil
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("form: decoding %s YAML: %w", t, err)
	}
	return s, nil
}

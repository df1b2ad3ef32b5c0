package config

import (
	"log/slog"

	"gopkg.in/yaml.v3"
)

// Redacted is what a Secret renders as on every default formatting path.
const Redacted = "[REDACTED]"

// Secret wraps a sensitive string value. Its String, GoString and LogValue
// implementations all redact, so the value cannot leak through fmt verbs or
// structured logging. ExposeSecret is the only way to read the raw value.
type Secret struct {
	value string
}

// NewSecret wraps a raw value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// ExposeSecret returns the raw wrapped value. Callers must not pass the
// result to any logging or formatting path.
func (s Secret) ExposeSecret() string {
	return s.value
}

// String implements fmt.Stringer, covering %s and %v.
func (s Secret) String() string {
	return Redacted
}

// GoString implements fmt.GoStringer, covering %#v.
func (s Secret) GoString() string {
	return "config.Secret(" + Redacted + ")"
}

// LogValue implements slog.LogValuer so a Secret passed as a log attribute
// is redacted before serialization.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(Redacted)
}

// UnmarshalYAML reads the secret from a YAML scalar, keeping the raw value
// out of any plain exported struct field.
func (s *Secret) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	s.value = raw
	return nil
}

// MarshalYAML redacts on serialization, mirroring the formatting paths.
func (s Secret) MarshalYAML() (interface{}, error) {
	return Redacted, nil
}

package models

import (
	"bytes"
	"encoding/json"
)

// unknownJSON is how an Unknown field is rendered for the digest service.
var unknownJSON = []byte(`"verify"`)

// Field is a normalized attribute that is either a known value or Unknown.
// The zero value is Unknown.
type Field[T any] struct {
	value T
	known bool
}

// Known wraps v as a known value.
func Known[T any](v T) Field[T] {
	return Field[T]{value: v, known: true}
}

// Unknown returns a field with no value.
func Unknown[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the value and whether it is known.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.known
}

// IsKnown reports whether the field holds a value.
func (f Field[T]) IsKnown() bool {
	return f.known
}

// MarshalJSON renders the value, or "verify" when unknown.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.known {
		return unknownJSON, nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON accepts either a value or the "verify" marker.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), unknownJSON) || bytes.Equal(data, []byte("null")) {
		*f = Field[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Known(v)
	return nil
}

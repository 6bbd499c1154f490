package models

import (
	"bytes"
	"encoding/json"
)

// Optional is a request field that remembers whether it was present in the
// JSON body. Set is true for any present key, including an explicit null;
// Null is true only for the latter.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// UnmarshalJSON is only invoked by encoding/json when the key is present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON writes the value, or null when the field is unset or null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Present reports whether the field carries a usable value.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

// Ptr returns a pointer to the value, or nil when it is not present.
func (o Optional[T]) Ptr() *T {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

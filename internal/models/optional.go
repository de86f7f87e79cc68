package models

import (
	"bytes"
	"encoding/json"
)

// OptionalString distinguishes an omitted JSON key from an explicit null.
// Set is true when the key was present; Null is true when it was null.
type OptionalString struct {
	Set   bool
	Null  bool
	Value string
}

// Some returns a present, non-null value.
func Some(v string) OptionalString {
	return OptionalString{Set: true, Value: v}
}

// Null returns a present value that clears the field.
func Null() OptionalString {
	return OptionalString{Set: true, Null: true}
}

// UnmarshalJSON is only invoked for keys present in the document.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		o.Value = ""
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

package model

import (
	"sort"
	"strings"

	"github.com/goliatone/go-kvdash/pkg/jsonvalue"
)

// Field names used by forms, validation errors and renderers.
const (
	FieldKey    = "key"
	FieldData   = "data"
	FieldBuffer = "buffer"
)

// Entry is a key/value pair held by the backing store.
type Entry struct {
	Key   string          `json:"key"`
	Value jsonvalue.Value `json:"value"`
}

// FormState is the textual, not yet parsed, representation of an entry
// being edited.
type FormState struct {
	Key  string `json:"key" form:"key"`
	Data string `json:"data" form:"data"`
}

// IsZero reports whether both fields are empty.
func (f FormState) IsZero() bool {
	return f.Key == "" && f.Data == ""
}

// ValidationErrors maps a field name to a human readable message. An empty
// map means the input is valid.
type ValidationErrors map[string]string

// Valid reports whether no field carries an error.
func (e ValidationErrors) Valid() bool {
	return len(e) == 0
}

// For returns the message attached to field.
func (e ValidationErrors) For(field string) string {
	if e == nil {
		return ""
	}
	return e[field]
}

// With returns a copy of e with field set to message. Blank messages are
// ignored.
func (e ValidationErrors) With(field, message string) ValidationErrors {
	out := e.Clone()
	message = strings.TrimSpace(message)
	if message == "" {
		return out
	}
	if out == nil {
		out = make(ValidationErrors, 1)
	}
	out[field] = message
	return out
}

// Clone copies the map; nil stays nil.
func (e ValidationErrors) Clone() ValidationErrors {
	if e == nil {
		return nil
	}
	out := make(ValidationErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Fields lists the fields carrying errors in sorted order.
func (e ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// AsRenderErrors converts the map into the multi-message shape renderers
// consume, keyed by field path.
func (e ValidationErrors) AsRenderErrors() map[string][]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string][]string, len(e))
	for field, message := range e {
		out[field] = []string{message}
	}
	return out
}

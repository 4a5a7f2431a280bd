package render

import (
	"strings"

	"github.com/goliatone/go-kvdash/pkg/model"
)

// ErrorMapping splits feedback into field-level and form-level messages
// keyed by the form field names used throughout the render pipeline.
type ErrorMapping struct {
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrors attaches validation errors to their fields. Errors for names
// outside known become form-level messages so nothing is lost; form lists
// extra form-level messages such as store notices.
func MapErrors(errs model.ValidationErrors, known []string, form ...string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}

	allowed := make(map[string]struct{}, len(known))
	for _, name := range known {
		allowed[name] = struct{}{}
	}

	for _, field := range errs.Fields() {
		messages := normalizeMessages([]string{errs[field]})
		if len(messages) == 0 {
			continue
		}
		if _, ok := allowed[field]; !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[field] = append(mapping.Fields[field], messages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = MergeFormErrors(mapping.Form, form...)
	return mapping
}

// For returns the first message attached to field.
func (m ErrorMapping) For(field string) string {
	if len(m.Fields[field]) == 0 {
		return ""
	}
	return m.Fields[field][0]
}

// Empty reports whether no message is present.
func (m ErrorMapping) Empty() bool {
	return len(m.Fields) == 0 && len(m.Form) == 0
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

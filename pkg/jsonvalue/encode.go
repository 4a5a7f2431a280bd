package jsonvalue

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Marshal returns the compact serialization of v, the form JSON.stringify
// produces without an indent argument.
func Marshal(v Value) []byte {
	var buf bytes.Buffer
	encode(&buf, v, "", 0)
	return buf.Bytes()
}

// MarshalIndent returns a multi-line serialization using indent for each
// nesting level. Empty containers stay on one line.
func MarshalIndent(v Value, indent string) []byte {
	var buf bytes.Buffer
	encode(&buf, v, indent, 0)
	return buf.Bytes()
}

// String returns the compact serialization.
func (v Value) String() string {
	return string(Marshal(v))
}

// Pretty returns the two-space indented serialization used for display.
func (v Value) Pretty() string {
	return string(MarshalIndent(v, "  "))
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return Marshal(v), nil
}

func encode(buf *bytes.Buffer, v Value, indent string, depth int) {
	switch v.kind {
	case Bool:
		if v.boolean {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		buf.WriteString(v.text)
	case String:
		encodeString(buf, v.text)
	case Array:
		if len(v.items) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			encode(buf, item, indent, depth+1)
		}
		newline(buf, indent, depth)
		buf.WriteByte(']')
	case Object:
		if len(v.members) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(buf, indent, depth+1)
			encodeString(buf, m.Key)
			buf.WriteByte(':')
			if indent != "" {
				buf.WriteByte(' ')
			}
			encode(buf, m.Value, indent, depth+1)
		}
		newline(buf, indent, depth)
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
}

func newline(buf *bytes.Buffer, indent string, depth int) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(indent, depth))
}

func encodeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
}

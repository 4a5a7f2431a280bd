package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyDocument is returned when Parse receives only whitespace.
var ErrEmptyDocument = errors.New("jsonvalue: empty document")

// Parse decodes a single JSON document. Trailing data after the document is
// rejected. Duplicate object keys keep their first position and the last
// value, mirroring JSON.parse.
func Parse(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, ErrEmptyDocument
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := decodeValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("jsonvalue: parse: %w", err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, errors.New("jsonvalue: parse: unexpected data after document")
	}
	return value, nil
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// MustParse panics when s is not valid JSON. Intended for fixtures and tests.
func MustParse(s string) Value {
	v, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Valid reports whether s holds exactly one JSON document.
func Valid(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	_, err := ParseString(s)
	return err == nil
}

// ParseInput reads a value typed into an editor field. Input that parses as
// JSON is taken as JSON; anything else becomes a string.
func ParseInput(s string) Value {
	if v, err := ParseString(s); err == nil && strings.TrimSpace(s) != "" {
		return v
	}
	return StringValue(s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Value{}, nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return Value{kind: Number, text: string(t)}, nil
	case string:
		return StringValue(t), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return Value{}, fmt.Errorf("unexpected delimiter %q", rune(t))
	default:
		return Value{}, fmt.Errorf("unexpected token %T", tok)
	}
}

func decodeObject(dec *json.Decoder) (Value, error) {
	out := Value{kind: Object, members: []Member{}}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key must be a string, got %T", keyTok)
		}
		member, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		out.members = upsertMember(out.members, key, member)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return out, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	out := Value{kind: Array, items: []Value{}}
	for dec.More() {
		item, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		out.items = append(out.items, item)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return out, nil
}

package jsonvalue

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// Null is the zero Kind so the zero Value is a JSON null.
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Member is a single key/value pair inside an object.
type Member struct {
	Key   string
	Value Value
}

// Value is a JSON document node. The zero Value is null.
type Value struct {
	kind    Kind
	boolean bool
	text    string // string payload or number literal
	items   []Value
	members []Member
}

// NullValue returns a JSON null.
func NullValue() Value {
	return Value{}
}

// BoolValue wraps a boolean.
func BoolValue(b bool) Value {
	return Value{kind: Bool, boolean: b}
}

// StringValue wraps a string.
func StringValue(s string) Value {
	return Value{kind: String, text: s}
}

// NumberValue wraps a number literal. The literal must be valid JSON number
// syntax.
func NumberValue(n json.Number) (Value, error) {
	if !isNumberLiteral(string(n)) {
		return Value{}, fmt.Errorf("jsonvalue: invalid number literal %q", string(n))
	}
	return Value{kind: Number, text: string(n)}, nil
}

// Int wraps an integer.
func Int(n int64) Value {
	return Value{kind: Number, text: strconv.FormatInt(n, 10)}
}

// Float wraps a float using the shortest representation that round trips.
func Float(f float64) Value {
	return Value{kind: Number, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// ArrayValue builds an array from the provided elements.
func ArrayValue(items ...Value) Value {
	return Value{kind: Array, items: append([]Value{}, items...)}
}

// ObjectValue builds an object from the provided members. Later members win
// when keys repeat, keeping the position of the first occurrence.
func ObjectValue(members ...Member) Value {
	out := Value{kind: Object, members: make([]Member, 0, len(members))}
	for _, m := range members {
		out.members = upsertMember(out.members, m.Key, m.Value)
	}
	return out
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is a JSON null.
func (v Value) IsNull() bool {
	return v.kind == Null
}

// IsContainer reports whether v is an array or an object.
func (v Value) IsContainer() bool {
	return v.kind == Array || v.kind == Object
}

// Bool returns the boolean payload; false for other kinds.
func (v Value) Bool() bool {
	return v.kind == Bool && v.boolean
}

// Number returns the number literal; empty for other kinds.
func (v Value) Number() json.Number {
	if v.kind != Number {
		return ""
	}
	return json.Number(v.text)
}

// Str returns the string payload; empty for other kinds.
func (v Value) Str() string {
	if v.kind != String {
		return ""
	}
	return v.text
}

// Len returns the number of elements or members of a container, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.members)
	default:
		return 0
	}
}

// Index returns the i-th array element.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != Array || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Field returns the object member stored under key.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Items returns a copy of the array elements.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}
	return append([]Value(nil), v.items...)
}

// Members returns a copy of the object members in insertion order.
func (v Value) Members() []Member {
	if v.kind != Object {
		return nil
	}
	return append([]Member(nil), v.members...)
}

// Interface converts v into the dynamic representation produced by
// encoding/json (map[string]any, []any, json.Number, ...). Member order is
// lost in the conversion.
func (v Value) Interface() any {
	switch v.kind {
	case Bool:
		return v.boolean
	case Number:
		return json.Number(v.text)
	case String:
		return v.text
	case Array:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// FromAny converts a Go value into a Value by round tripping it through
// encoding/json. Map keys come out sorted because that is how encoding/json
// emits them.
func FromAny(in any) (Value, error) {
	if v, ok := in.(Value); ok {
		return v, nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return Value{}, fmt.Errorf("jsonvalue: marshal %T: %w", in, err)
	}
	return Parse(raw)
}

func upsertMember(members []Member, key string, value Value) []Member {
	for i := range members {
		if members[i].Key == key {
			members[i].Value = value
			return members
		}
	}
	return append(members, Member{Key: key, Value: value})
}

func isNumberLiteral(s string) bool {
	if s == "" {
		return false
	}
	var probe any
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&probe); err != nil {
		return false
	}
	n, ok := probe.(json.Number)
	return ok && string(n) == s
}

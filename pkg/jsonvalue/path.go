package jsonvalue

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrPathNotFound is returned when a path does not resolve to a node.
	ErrPathNotFound = errors.New("jsonvalue: path not found")
	// ErrPathExists is returned by Add when the target already exists.
	ErrPathExists = errors.New("jsonvalue: path already exists")
	// ErrNotContainer is returned when a path walks through a scalar.
	ErrNotContainer = errors.New("jsonvalue: not a container")
	// ErrRootPath is returned when an operation cannot target the root.
	ErrRootPath = errors.New("jsonvalue: operation requires a non-root path")
)

// Path addresses a node inside a document. Each segment is an object key or,
// when the parent is an array, a decimal index. The empty Path is the root.
type Path []string

// ParsePath splits a dotted path ("a.b.0"). A backslash escapes the next
// character so keys containing dots can be addressed ("a\.b").
func ParsePath(raw string) Path {
	if raw == "" {
		return Path{}
	}
	var (
		segments Path
		current  strings.Builder
		escaped  bool
	)
	for _, r := range raw {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '.':
			segments = append(segments, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if escaped {
		current.WriteRune('\\')
	}
	return append(segments, current.String())
}

// String renders the dotted form accepted by ParsePath.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, segment := range p {
		segment = strings.ReplaceAll(segment, `\`, `\\`)
		parts[i] = strings.ReplaceAll(segment, ".", `\.`)
	}
	return strings.Join(parts, ".")
}

// Child returns a new path with segment appended.
func (p Path) Child(segment string) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, segment)
}

// IsRoot reports whether p addresses the document root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Get resolves p inside root.
func Get(root Value, p Path) (Value, bool) {
	current := root
	for _, segment := range p {
		switch current.kind {
		case Object:
			next, ok := current.Field(segment)
			if !ok {
				return Value{}, false
			}
			current = next
		case Array:
			idx, err := strconv.Atoi(segment)
			if err != nil {
				return Value{}, false
			}
			next, ok := current.Index(idx)
			if !ok {
				return Value{}, false
			}
			current = next
		default:
			return Value{}, false
		}
	}
	return current, true
}

// Replace swaps the existing node at p for value. An empty path replaces the
// whole document.
func Replace(root Value, p Path, value Value) (Value, error) {
	if p.IsRoot() {
		return value, nil
	}
	return rewrite(root, p, func(parent Value, last string) (Value, error) {
		switch parent.kind {
		case Object:
			if _, ok := parent.Field(last); !ok {
				return Value{}, fmt.Errorf("%w: %s", ErrPathNotFound, p)
			}
			out := parent.cloneShallow()
			out.members = upsertMember(out.members, last, value)
			return out, nil
		case Array:
			idx, err := arrayIndex(last, len(parent.items)-1)
			if err != nil {
				return Value{}, fmt.Errorf("%w: %s", ErrPathNotFound, p)
			}
			out := parent.cloneShallow()
			out.items[idx] = value
			return out, nil
		}
		return Value{}, fmt.Errorf("%w: %s", ErrNotContainer, p)
	})
}

// Add inserts value at p. For objects the key must not exist yet; for arrays
// the index may range from 0 to the array length (append), and "-" appends.
func Add(root Value, p Path, value Value) (Value, error) {
	if p.IsRoot() {
		return Value{}, ErrRootPath
	}
	return rewrite(root, p, func(parent Value, last string) (Value, error) {
		switch parent.kind {
		case Object:
			if _, ok := parent.Field(last); ok {
				return Value{}, fmt.Errorf("%w: %s", ErrPathExists, p)
			}
			out := parent.cloneShallow()
			out.members = append(out.members, Member{Key: last, Value: value})
			return out, nil
		case Array:
			idx := len(parent.items)
			if last != "-" {
				var err error
				idx, err = arrayIndex(last, len(parent.items))
				if err != nil {
					return Value{}, fmt.Errorf("%w: %s", ErrPathNotFound, p)
				}
			}
			items := make([]Value, 0, len(parent.items)+1)
			items = append(items, parent.items[:idx]...)
			items = append(items, value)
			items = append(items, parent.items[idx:]...)
			return Value{kind: Array, items: items}, nil
		}
		return Value{}, fmt.Errorf("%w: %s", ErrNotContainer, p)
	})
}

// Delete removes the node at p. The root cannot be deleted.
func Delete(root Value, p Path) (Value, error) {
	if p.IsRoot() {
		return Value{}, ErrRootPath
	}
	return rewrite(root, p, func(parent Value, last string) (Value, error) {
		switch parent.kind {
		case Object:
			members := make([]Member, 0, len(parent.members))
			found := false
			for _, m := range parent.members {
				if m.Key == last {
					found = true
					continue
				}
				members = append(members, m)
			}
			if !found {
				return Value{}, fmt.Errorf("%w: %s", ErrPathNotFound, p)
			}
			return Value{kind: Object, members: members}, nil
		case Array:
			idx, err := arrayIndex(last, len(parent.items)-1)
			if err != nil {
				return Value{}, fmt.Errorf("%w: %s", ErrPathNotFound, p)
			}
			items := make([]Value, 0, len(parent.items)-1)
			items = append(items, parent.items[:idx]...)
			items = append(items, parent.items[idx+1:]...)
			return Value{kind: Array, items: items}, nil
		}
		return Value{}, fmt.Errorf("%w: %s", ErrNotContainer, p)
	})
}

// rewrite walks to the parent of the last segment, applies fn to it, and
// rebuilds every ancestor on the way back up.
func rewrite(root Value, p Path, fn func(parent Value, last string) (Value, error)) (Value, error) {
	if len(p) == 1 {
		if !root.IsContainer() {
			return Value{}, fmt.Errorf("%w: %s", ErrNotContainer, p)
		}
		return fn(root, p[0])
	}

	head := p[0]
	child, ok := Get(root, Path{head})
	if !ok {
		if !root.IsContainer() {
			return Value{}, fmt.Errorf("%w: %s", ErrNotContainer, p)
		}
		return Value{}, fmt.Errorf("%w: %s", ErrPathNotFound, p)
	}

	updated, err := rewrite(child, p[1:], fn)
	if err != nil {
		return Value{}, err
	}

	out := root.cloneShallow()
	switch out.kind {
	case Object:
		out.members = upsertMember(out.members, head, updated)
	case Array:
		idx, _ := strconv.Atoi(head)
		out.items[idx] = updated
	}
	return out, nil
}

func arrayIndex(segment string, max int) (int, error) {
	idx, err := strconv.Atoi(segment)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx > max {
		return 0, fmt.Errorf("index %d out of range", idx)
	}
	return idx, nil
}

func (v Value) cloneShallow() Value {
	out := v
	if v.items != nil {
		out.items = append([]Value(nil), v.items...)
	}
	if v.members != nil {
		out.members = append([]Member(nil), v.members...)
	}
	return out
}

package jsonvalue

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePath(t *testing.T) {
	cases := map[string]Path{
		"":       {},
		"a":      {"a"},
		"a.b.0":  {"a", "b", "0"},
		`a\.b.c`: {"a.b", "c"},
		`x\\.y`:  {`x\`, "y"},
		"trail.": {"trail", ""},
	}
	for raw, want := range cases {
		got := ParsePath(raw)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("ParsePath(%q) mismatch (-want +got):\n%s", raw, diff)
		}
		if again := ParsePath(got.String()); !cmp.Equal(got, again) {
			t.Fatalf("String/ParsePath not symmetric for %q: %q", raw, got.String())
		}
	}
}

func TestGet(t *testing.T) {
	doc := MustParse(`{"a":{"list":[10,{"k":"v"}]}}`)

	got, ok := Get(doc, ParsePath("a.list.1.k"))
	if !ok || got.Str() != "v" {
		t.Fatalf("unexpected lookup result %v %v", got, ok)
	}
	if _, ok := Get(doc, ParsePath("a.list.9")); ok {
		t.Fatalf("expected out of range index to miss")
	}
	if _, ok := Get(doc, ParsePath("a.list.0.x")); ok {
		t.Fatalf("expected scalar traversal to miss")
	}
	if root, ok := Get(doc, Path{}); !ok || !Equal(root, doc) {
		t.Fatalf("expected root lookup to return document")
	}
}

func TestReplace(t *testing.T) {
	doc := MustParse(`{"a":1,"b":[1,2,3]}`)

	updated, err := Replace(doc, ParsePath("b.1"), StringValue("two"))
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := updated.String(); got != `{"a":1,"b":[1,"two",3]}` {
		t.Fatalf("unexpected document: %s", got)
	}
	if got := doc.String(); got != `{"a":1,"b":[1,2,3]}` {
		t.Fatalf("input mutated: %s", got)
	}

	if _, err := Replace(doc, ParsePath("missing"), Int(1)); !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
	if _, err := Replace(doc, ParsePath("a.x"), Int(1)); !errors.Is(err, ErrNotContainer) {
		t.Fatalf("expected ErrNotContainer, got %v", err)
	}

	root, err := Replace(doc, Path{}, BoolValue(true))
	if err != nil || root.String() != "true" {
		t.Fatalf("root replace: %v %s", err, root)
	}
}

func TestAdd(t *testing.T) {
	doc := MustParse(`{"a":{"x":1},"list":["a","c"]}`)

	withField, err := Add(doc, ParsePath("a.y"), Int(2))
	if err != nil {
		t.Fatalf("add field: %v", err)
	}
	if got := withField.String(); got != `{"a":{"x":1,"y":2},"list":["a","c"]}` {
		t.Fatalf("unexpected document: %s", got)
	}

	inserted, err := Add(doc, ParsePath("list.1"), StringValue("b"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	appended, err := Add(inserted, ParsePath("list.-"), StringValue("d"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if got := appended.String(); got != `{"a":{"x":1},"list":["a","b","c","d"]}` {
		t.Fatalf("unexpected document: %s", got)
	}

	if _, err := Add(doc, ParsePath("a.x"), Int(3)); !errors.Is(err, ErrPathExists) {
		t.Fatalf("expected ErrPathExists, got %v", err)
	}
	if _, err := Add(doc, ParsePath("list.5"), Int(3)); !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
	if _, err := Add(doc, Path{}, Int(3)); !errors.Is(err, ErrRootPath) {
		t.Fatalf("expected ErrRootPath, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	doc := MustParse(`{"a":{"x":1,"y":2},"list":[1,2,3]}`)

	updated, err := Delete(doc, ParsePath("a.x"))
	if err != nil {
		t.Fatalf("delete field: %v", err)
	}
	updated, err = Delete(updated, ParsePath("list.0"))
	if err != nil {
		t.Fatalf("delete element: %v", err)
	}
	if got := updated.String(); got != `{"a":{"y":2},"list":[2,3]}` {
		t.Fatalf("unexpected document: %s", got)
	}
	if got := doc.String(); got != `{"a":{"x":1,"y":2},"list":[1,2,3]}` {
		t.Fatalf("input mutated: %s", got)
	}

	if _, err := Delete(doc, ParsePath("a.z")); !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
	if _, err := Delete(doc, Path{}); !errors.Is(err, ErrRootPath) {
		t.Fatalf("expected ErrRootPath, got %v", err)
	}
}

func TestEditsRoundTripThroughText(t *testing.T) {
	doc := MustParse(`{"n":1}`)
	doc, _ = Add(doc, ParsePath("tags"), ArrayValue(StringValue("a")))
	doc, _ = Replace(doc, ParsePath("n"), Float(2.5))
	doc, _ = Add(doc, ParsePath("tags.-"), NullValue())

	again, err := ParseString(doc.String())
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if diff := cmp.Diff(doc, again); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

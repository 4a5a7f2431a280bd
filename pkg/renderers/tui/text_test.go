package tui

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-kvdash/pkg/editor"
	"github.com/goliatone/go-kvdash/pkg/jsonvalue"
	"github.com/goliatone/go-kvdash/pkg/render"
)

func TestRenderItemAsText(t *testing.T) {
	s, _ := editor.New("cfg", "r1")
	s, _ = editor.Update(s, editor.Loaded{RequestID: "r1", Value: jsonvalue.MustParse(`{"a":1,"b":[true]}`)})

	out, err := Renderer{}.Render(context.Background(), render.ItemPage("", "", s), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "== cfg ==\n" +
		"key: cfg\n" +
		"(root): 2 keys\n" +
		"  a: 1\n" +
		"  b: 1 item\n" +
		"    0: true\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderErrorPageAsText(t *testing.T) {
	out, err := Renderer{}.Render(context.Background(), render.ErrorPage("", 404, "no such page"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff("== Error 404 ==\nerror 404: no such page\n", string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

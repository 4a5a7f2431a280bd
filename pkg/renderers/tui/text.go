package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-kvdash/pkg/render"
)

// Name identifies the plain-text renderer in a render.Registry.
const Name = "text"

// Renderer prints a View as plain text. The dashboard uses it for its
// screens and the HTTP server offers it for text/plain clients.
type Renderer struct{}

var _ render.Renderer = Renderer{}

func (Renderer) Name() string {
	return Name
}

func (Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (Renderer) Render(ctx context.Context, view render.View, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", view.Title)
	for _, msg := range view.Errors.Form {
		fmt.Fprintf(&b, "! %s\n", msg)
	}

	switch {
	case view.List != nil:
		writeList(&b, view.List)
	case view.Item != nil:
		writeItem(&b, view.Item, view.Errors)
	case view.Add != nil:
		writeAdd(&b, view.Add, view.Errors)
	case view.Failure != nil:
		fmt.Fprintf(&b, "error %d: %s\n", view.Failure.Status, view.Failure.Message)
	}
	return []byte(b.String()), nil
}

func writeList(b *strings.Builder, list *render.ListView) {
	if list.Err != "" {
		fmt.Fprintf(b, "! %s\n", list.Err)
		return
	}
	if list.Filter != "" {
		fmt.Fprintf(b, "filter: %s (%d of %d)\n", list.Filter, len(list.Keys), list.Total)
	}
	if len(list.Keys) == 0 {
		b.WriteString("(no keys)\n")
		return
	}
	for _, link := range list.Keys {
		fmt.Fprintf(b, "- %s\n", link.Key)
	}
}

func writeItem(b *strings.Builder, item *render.ItemView, errs render.ErrorMapping) {
	fmt.Fprintf(b, "key: %s\n", item.Key)
	writeFieldErrors(b, errs, "key")
	if item.Err != "" {
		fmt.Fprintf(b, "! %s\n", item.Err)
		return
	}
	if item.Status == "loading" {
		b.WriteString("loading...\n")
		return
	}
	for _, row := range item.Rows {
		label := row.Label
		if row.Path == "" {
			label = "(root)"
		}
		fmt.Fprintf(b, "%s%s: %s\n", strings.Repeat("  ", row.Depth), label, row.Display)
	}
	writeFieldErrors(b, errs, "data")
	if item.Success {
		b.WriteString("saved\n")
	}
}

func writeAdd(b *strings.Builder, add *render.AddView, errs render.ErrorMapping) {
	fmt.Fprintf(b, "key: %s\n", add.Key)
	writeFieldErrors(b, errs, "key")
	fmt.Fprintf(b, "data: %s\n", add.Data)
	writeFieldErrors(b, errs, "data")
	if add.Success {
		b.WriteString("saved\n")
	}
}

func writeFieldErrors(b *strings.Builder, errs render.ErrorMapping, field string) {
	if msg := errs.For(field); msg != "" {
		fmt.Fprintf(b, "  ! %s\n", msg)
	}
}

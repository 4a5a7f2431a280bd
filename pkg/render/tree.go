package render

import (
	"strconv"

	"github.com/goliatone/go-kvdash/pkg/jsonvalue"
)

// Row is one line of the structured editor: a node of the document with the
// dotted path that addresses it.
type Row struct {
	Path      string `json:"path"`
	Label     string `json:"label"`
	Depth     int    `json:"depth"`
	Kind      string `json:"kind"`
	Display   string `json:"display"`
	Container bool   `json:"container"`
	// InArray marks children of arrays, whose labels are indexes.
	InArray bool `json:"in_array,omitempty"`
}

// Rows flattens doc depth-first in document order. The root is the first
// row, with an empty path.
func Rows(doc jsonvalue.Value) []Row {
	var rows []Row
	walk(&rows, doc, jsonvalue.Path{}, "", 0, false)
	return rows
}

func walk(rows *[]Row, node jsonvalue.Value, path jsonvalue.Path, label string, depth int, inArray bool) {
	row := Row{
		Path:      path.String(),
		Label:     label,
		Depth:     depth,
		Kind:      node.Kind().String(),
		Container: node.IsContainer(),
		InArray:   inArray,
	}
	switch node.Kind() {
	case jsonvalue.Object:
		row.Display = summary(node.Len(), "key", "keys")
	case jsonvalue.Array:
		row.Display = summary(node.Len(), "item", "items")
	default:
		row.Display = node.String()
	}
	*rows = append(*rows, row)

	switch node.Kind() {
	case jsonvalue.Object:
		for _, member := range node.Members() {
			walk(rows, member.Value, path.Child(member.Key), member.Key, depth+1, false)
		}
	case jsonvalue.Array:
		for i, item := range node.Items() {
			index := strconv.Itoa(i)
			walk(rows, item, path.Child(index), index, depth+1, true)
		}
	}
}

func summary(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}

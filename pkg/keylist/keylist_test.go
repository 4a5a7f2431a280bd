package keylist

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-kvdash/pkg/client"
	"github.com/goliatone/go-kvdash/pkg/testsupport"
)

func ready(keys ...string) State {
	return Update(New("r1"), Loaded{RequestID: "r1", Keys: keys})
}

func TestVisibleSortsAndFilters(t *testing.T) {
	cases := []struct {
		name   string
		keys   []string
		filter string
		want   []string
	}{
		{name: "sorted", keys: []string{"b", "a", "c"}, want: []string{"a", "b", "c"}},
		{name: "substring", keys: []string{"apple", "banana", "grape"}, filter: "ap", want: []string{"apple", "grape"}},
		{name: "case sensitive", keys: []string{"Apple", "apple"}, filter: "A", want: []string{"Apple"}},
		{name: "no match", keys: []string{"a", "b"}, filter: "z", want: []string{}},
		{name: "empty store", keys: nil, want: []string{}},
		{name: "byte order", keys: []string{"b", "B", "a"}, want: []string{"B", "a", "b"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := Update(ready(tc.keys...), FilterChanged{Filter: tc.filter})
			if diff := cmp.Diff(tc.want, Visible(state)); diff != "" {
				t.Fatalf("visible mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVisibleDoesNotMutateKeys(t *testing.T) {
	state := ready("b", "a")
	_ = Visible(state)
	if diff := cmp.Diff([]string{"b", "a"}, state.Keys); diff != "" {
		t.Fatalf("keys mutated (-want +got):\n%s", diff)
	}
}

func TestFilterRecomputesOnChange(t *testing.T) {
	state := ready("alpha", "beta")
	state = Update(state, FilterChanged{Filter: "al"})
	if diff := cmp.Diff([]string{"alpha"}, Visible(state)); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}
	state = Update(state, FilterChanged{Filter: ""})
	if diff := cmp.Diff([]string{"alpha", "beta"}, Visible(state)); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}
}

func TestStaleResultsIgnored(t *testing.T) {
	state := New("current")
	state = Update(state, Loaded{RequestID: "old", Keys: []string{"x"}})
	if state.Status != Loading || state.Keys != nil {
		t.Fatalf("stale load applied: %+v", state)
	}
	state = Update(state, LoadFailed{RequestID: "old", Err: errors.New("boom")})
	if state.Status != Loading {
		t.Fatalf("stale failure applied: %+v", state)
	}
}

func TestFailureShowsError(t *testing.T) {
	state := Update(New("r"), LoadFailed{RequestID: "r", Err: errors.New("connection refused")})
	if state.Status != Failed || state.Err != "connection refused" {
		t.Fatalf("unexpected state %+v", state)
	}
	if got := Visible(state); len(got) != 0 {
		t.Fatalf("expected no keys, got %v", got)
	}
}

func TestLoadAgainstStore(t *testing.T) {
	store := testsupport.NewStore(t, map[string]string{"b": "1", "a": "2"})
	c, err := client.New(store.URL())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	state := New("req")
	state = Update(state, Load(context.Background(), c, "req"))
	if state.Status != Ready {
		t.Fatalf("expected ready, got %+v", state)
	}
	if diff := cmp.Diff([]string{"a", "b"}, Visible(state)); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}

	store.Fail("keys", http.StatusInternalServerError)
	state = Update(New("again"), Load(context.Background(), c, "again"))
	if state.Status != Failed || state.Err == "" {
		t.Fatalf("expected failure, got %+v", state)
	}
}

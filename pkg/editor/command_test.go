package editor

import (
	"context"
	"net/http"
	"testing"

	"github.com/goliatone/go-kvdash/pkg/client"
	"github.com/goliatone/go-kvdash/pkg/testsupport"
)

func drive(t *testing.T, c client.Client, s State, cmd Cmd) State {
	t.Helper()
	for cmd != nil {
		s, cmd = Update(s, Run(context.Background(), c, cmd))
	}
	return s
}

func TestEndToEndSubmitUnmodified(t *testing.T) {
	store := testsupport.NewStore(t, map[string]string{"x": `{"n":1}`})
	c, err := client.New(store.URL())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	s, cmd := New("x", "view-1")
	s = drive(t, c, s, cmd)
	if s.Status != Ready {
		t.Fatalf("expected ready, got %+v", s)
	}

	s, cmd = Update(s, Submitted{})
	s = drive(t, c, s, cmd)
	if !s.Success {
		t.Fatalf("expected success, got %+v", s)
	}

	calls := store.Calls("set")
	if len(calls) != 1 {
		t.Fatalf("expected one set call, got %d", len(calls))
	}
	if calls[0].Key != "x" || calls[0].Body != `{"n":1}` {
		t.Fatalf("unexpected set call %#v", calls[0])
	}
}

func TestRunReportsFailures(t *testing.T) {
	store := testsupport.NewStore(t, map[string]string{"x": `1`})
	store.Fail("get", http.StatusBadGateway)
	c, err := client.New(store.URL())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	s, cmd := New("x", "v")
	s = drive(t, c, s, cmd)
	if s.Status != Failed || s.Err == "" {
		t.Fatalf("expected failed load, got %+v", s)
	}

	if msg := Run(context.Background(), c, nil); msg != nil {
		t.Fatalf("nil command produced %#v", msg)
	}
}

func TestRunDelete(t *testing.T) {
	store := testsupport.NewStore(t, map[string]string{"x": `1`})
	c, err := client.New(store.URL())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	s, cmd := New("x", "v")
	s = drive(t, c, s, cmd)
	s, cmd = Update(s, DeleteRequested{})
	s = drive(t, c, s, cmd)
	if !s.Deleted {
		t.Fatalf("expected deleted, got %+v", s)
	}
	if _, ok := store.Value("x"); ok {
		t.Fatalf("key still stored")
	}
}

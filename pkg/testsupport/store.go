package testsupport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// Store is an in-memory key-value store speaking the store's HTTP API. It
// records every call so tests can assert on traffic.
type Store struct {
	server *httptest.Server

	mu        sync.Mutex
	data      map[string]json.RawMessage
	failures  map[string]int
	setStatus string
	calls     []Call
}

// Call is a request observed by Store.
type Call struct {
	Route       string
	Key         string
	ContentType string
	Body        string
}

// NewStore starts a fake store seeded with raw JSON values. The server is
// closed when the test ends.
func NewStore(t *testing.T, seed map[string]string) *Store {
	t.Helper()

	s := &Store{
		data:      make(map[string]json.RawMessage, len(seed)),
		failures:  make(map[string]int),
		setStatus: "ok",
	}
	for key, raw := range seed {
		if !json.Valid([]byte(raw)) {
			t.Fatalf("seed %q is not json: %s", key, raw)
		}
		s.data[key] = json.RawMessage(raw)
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.server.Close)
	return s
}

// URL returns the base URL of the fake store.
func (s *Store) URL() string {
	return s.server.URL
}

// Fail makes route ("keys", "get", "set", "del", "ping", "purge") answer
// with code until cleared with code 0.
func (s *Store) Fail(route string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code == 0 {
		delete(s.failures, route)
		return
	}
	s.failures[route] = code
}

// SetStatus changes the status reported by /set.
func (s *Store) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStatus = status
}

// Put stores raw under key directly.
func (s *Store) Put(key, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = json.RawMessage(raw)
}

// Value returns the raw JSON stored under key.
func (s *Store) Value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[key]
	return string(raw), ok
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Calls returns the recorded calls, optionally restricted to route.
func (s *Store) Calls(route string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, 0, len(s.calls))
	for _, c := range s.calls {
		if route == "" || c.Route == route {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	route, key, err := splitRoute(r.URL.EscapedPath())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Route:       route,
		Key:         key,
		ContentType: r.Header.Get("Content-Type"),
		Body:        string(body),
	})
	code := s.failures[route]
	s.mu.Unlock()

	if code != 0 {
		http.Error(w, route+" unavailable", code)
		return
	}

	switch route {
	case "keys":
		s.mu.Lock()
		keys := make([]string, 0, len(s.data))
		for k := range s.data {
			keys = append(keys, k)
		}
		s.mu.Unlock()
		writeJSON(w, map[string]any{"keys": keys})
	case "get":
		s.mu.Lock()
		raw, ok := s.data[key]
		s.mu.Unlock()
		if !ok {
			raw = json.RawMessage("null")
		}
		writeJSON(w, map[string]any{"data": raw})
	case "set":
		if !json.Valid(body) {
			http.Error(w, "body is not json", http.StatusBadRequest)
			return
		}
		var compact bytes.Buffer
		_ = json.Compact(&compact, body)
		s.mu.Lock()
		s.data[key] = json.RawMessage(compact.Bytes())
		status := s.setStatus
		s.mu.Unlock()
		writeJSON(w, map[string]any{"status": status})
	case "del":
		s.mu.Lock()
		_, ok := s.data[key]
		delete(s.data, key)
		s.mu.Unlock()
		writeJSON(w, map[string]any{"deleted": ok})
	case "ping":
		writeJSON(w, map[string]any{"pong": true})
	case "purge":
		s.mu.Lock()
		s.data = make(map[string]json.RawMessage)
		s.mu.Unlock()
		writeJSON(w, map[string]any{"purged": true})
	default:
		http.NotFound(w, r)
	}
}

func splitRoute(escaped string) (string, string, error) {
	trimmed := strings.TrimPrefix(escaped, "/")
	route, rawKey, _ := strings.Cut(trimmed, "/")
	key, err := url.PathUnescape(rawKey)
	if err != nil {
		return "", "", err
	}
	return route, key, nil
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

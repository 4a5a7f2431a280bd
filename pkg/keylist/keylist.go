// Package keylist holds the state machine behind the key listing view.
package keylist

import (
	"context"
	"sort"
	"strings"

	"github.com/goliatone/go-kvdash/pkg/client"
)

// Status is the lifecycle stage of a listing.
type Status uint8

const (
	Loading Status = iota
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the listing view. It is a value; Update returns a new one.
type State struct {
	Status    Status
	Keys      []string
	Filter    string
	Err       string
	RequestID string
}

// Msg is any input accepted by Update.
type Msg interface {
	isMsg()
}

// Loaded carries a successful key fetch.
type Loaded struct {
	RequestID string
	Keys      []string
}

// LoadFailed carries a failed key fetch.
type LoadFailed struct {
	RequestID string
	Err       error
}

// FilterChanged replaces the filter text.
type FilterChanged struct {
	Filter string
}

func (Loaded) isMsg()        {}
func (LoadFailed) isMsg()    {}
func (FilterChanged) isMsg() {}

// New returns a listing waiting for the fetch tagged requestID.
func New(requestID string) State {
	return State{Status: Loading, RequestID: requestID}
}

// Update applies msg to s. Fetch results tagged with another request are
// dropped.
func Update(s State, msg Msg) State {
	switch m := msg.(type) {
	case Loaded:
		if m.RequestID != s.RequestID {
			return s
		}
		s.Status = Ready
		s.Err = ""
		s.Keys = append([]string(nil), m.Keys...)
	case LoadFailed:
		if m.RequestID != s.RequestID {
			return s
		}
		s.Status = Failed
		s.Keys = nil
		s.Err = "failed to load keys"
		if m.Err != nil {
			s.Err = m.Err.Error()
		}
	case FilterChanged:
		s.Filter = m.Filter
	}
	return s
}

// Visible returns the keys to display: ascending byte order, restricted to
// keys containing the filter as a case-sensitive substring.
func Visible(s State) []string {
	out := make([]string, 0, len(s.Keys))
	for _, key := range s.Keys {
		if s.Filter == "" || strings.Contains(key, s.Filter) {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// Load fetches the key list and reports the outcome tagged with requestID.
func Load(ctx context.Context, c client.Client, requestID string) Msg {
	keys, err := c.ListKeys(ctx)
	if err != nil {
		return LoadFailed{RequestID: requestID, Err: err}
	}
	return Loaded{RequestID: requestID, Keys: keys}
}

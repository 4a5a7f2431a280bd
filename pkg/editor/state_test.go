package editor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-kvdash/pkg/jsonvalue"
	"github.com/goliatone/go-kvdash/pkg/model"
)

func loaded(t *testing.T, key, raw string) State {
	t.Helper()
	s, cmd := New(key, "req-1")
	want := LoadCmd{RequestID: "req-1", Key: key}
	if diff := cmp.Diff(want, cmd); diff != "" {
		t.Fatalf("initial command mismatch (-want +got):\n%s", diff)
	}
	s, cmd = Update(s, Loaded{RequestID: "req-1", Value: jsonvalue.MustParse(raw)})
	if cmd != nil {
		t.Fatalf("unexpected command after load: %#v", cmd)
	}
	if s.Status != Ready {
		t.Fatalf("expected ready, got %s", s.Status)
	}
	return s
}

func step(t *testing.T, s State, msgs ...Msg) State {
	t.Helper()
	for _, msg := range msgs {
		var cmd Cmd
		s, cmd = Update(s, msg)
		if cmd != nil {
			t.Fatalf("unexpected command for %T: %#v", msg, cmd)
		}
	}
	return s
}

func assertMirror(t *testing.T, s State) {
	t.Helper()
	parsed, err := jsonvalue.ParseString(s.Text)
	if err != nil {
		return
	}
	if !jsonvalue.Equal(parsed, s.Doc) {
		t.Fatalf("text %s does not mirror doc %s", s.Text, s.Doc)
	}
}

func TestLoadSeedsDocAndText(t *testing.T) {
	s := loaded(t, "x", `{"n":1}`)
	if !jsonvalue.Equal(jsonvalue.MustParse(`{"n":1}`), s.Doc) {
		t.Fatalf("doc mismatch: %s", s.Doc)
	}
	if s.Text != "{\n  \"n\": 1\n}" {
		t.Fatalf("unexpected text %q", s.Text)
	}
	if s.LastWriter != WriterNone {
		t.Fatalf("expected no writer, got %s", s.LastWriter)
	}
	assertMirror(t, s)
}

func TestLoadFailureShowsErrorVerbatim(t *testing.T) {
	s, _ := New("x", "r")
	s, _ = Update(s, LoadFailed{RequestID: "r", Err: errors.New("dial tcp: connection refused")})
	if s.Status != Failed || s.Err != "dial tcp: connection refused" {
		t.Fatalf("unexpected state %+v", s)
	}
}

func TestStaleResultsIgnored(t *testing.T) {
	s, _ := New("x", "current")
	next, _ := Update(s, Loaded{RequestID: "previous", Value: jsonvalue.Int(1)})
	if diff := cmp.Diff(s, next); diff != "" {
		t.Fatalf("stale load changed state (-want +got):\n%s", diff)
	}

	s = loaded(t, "x", `{"n":1}`)
	s, cmd := Update(s, Submitted{})
	if _, ok := cmd.(SetCmd); !ok {
		t.Fatalf("expected SetCmd, got %#v", cmd)
	}
	next, _ = Update(s, SubmitFinished{RequestID: "other", Status: "ok"})
	if next.Success || !next.Submitting {
		t.Fatalf("stale submit result applied: %+v", next)
	}
}

func TestStructuredEditsRewriteText(t *testing.T) {
	s := loaded(t, "x", `{"a":{"b":[1,2]},"c":"d"}`)

	s = step(t, s, FieldEdited{Path: jsonvalue.ParsePath("a.b.0"), Value: jsonvalue.StringValue("one")})
	if s.Text != `{"a":{"b":["one",2]},"c":"d"}` {
		t.Fatalf("unexpected text after edit: %s", s.Text)
	}
	if s.LastWriter != WriterStructured {
		t.Fatalf("expected structured writer, got %s", s.LastWriter)
	}
	assertMirror(t, s)

	s = step(t, s, FieldAdded{Path: jsonvalue.ParsePath("e"), Value: jsonvalue.BoolValue(true)})
	if s.Text != `{"a":{"b":["one",2]},"c":"d","e":true}` {
		t.Fatalf("unexpected text after add: %s", s.Text)
	}
	assertMirror(t, s)

	s = step(t, s, FieldDeleted{Path: jsonvalue.ParsePath("c")})
	if s.Text != `{"a":{"b":["one",2]},"e":true}` {
		t.Fatalf("unexpected text after delete: %s", s.Text)
	}
	assertMirror(t, s)
}

func TestFailedStructuredEditKeepsDocument(t *testing.T) {
	s := loaded(t, "x", `{"a":1}`)
	before := s
	s = step(t, s, FieldDeleted{Path: jsonvalue.ParsePath("missing")})
	if s.Text != before.Text || !jsonvalue.Equal(s.Doc, before.Doc) {
		t.Fatalf("document changed by failed edit")
	}
	if s.Notice == "" {
		t.Fatalf("expected notice for failed edit")
	}
	if s.LastWriter != WriterNone {
		t.Fatalf("writer changed by failed edit: %s", s.LastWriter)
	}
}

func TestAddFieldRequiresName(t *testing.T) {
	s := loaded(t, "x", `{"a":1}`)
	s = step(t, s, FieldAdded{Path: jsonvalue.Path{""}, Value: jsonvalue.Int(2)})
	if s.Notice != "field name should not be empty" {
		t.Fatalf("unexpected notice %q", s.Notice)
	}
	if s.Text != "{\n  \"a\": 1\n}" {
		t.Fatalf("text changed: %q", s.Text)
	}
}

func TestModalOpenAlwaysSeedsFromText(t *testing.T) {
	s := loaded(t, "x", `{"n":1}`)
	s = step(t, s,
		ModalOpened{},
		ModalInput{Text: `{"unsaved":true}`},
		ModalClosed{},
		FieldEdited{Path: jsonvalue.ParsePath("n"), Value: jsonvalue.Int(2)},
		ModalOpened{},
	)
	if !s.Modal.Open {
		t.Fatalf("modal should be open")
	}
	if s.Modal.Buffer != `{"n":2}` {
		t.Fatalf("buffer not re-seeded: %q", s.Modal.Buffer)
	}

	s = step(t, s, ModalInput{Text: "garbage"}, ModalOpened{})
	if s.Modal.Buffer != `{"n":2}` {
		t.Fatalf("re-open did not discard buffer: %q", s.Modal.Buffer)
	}
}

func TestModalSubmitValidates(t *testing.T) {
	s := loaded(t, "x", `{"n":1}`)

	s = step(t, s, ModalOpened{}, ModalReset{}, ModalSubmitted{})
	if !s.Modal.Open {
		t.Fatalf("modal should stay open on error")
	}
	if diff := cmp.Diff(model.ValidationErrors{model.FieldData: "data should not be empty"}, s.Modal.Errors); diff != "" {
		t.Fatalf("modal errors mismatch (-want +got):\n%s", diff)
	}

	s = step(t, s, ModalInput{Text: "{nope"}, ModalSubmitted{})
	if diff := cmp.Diff(model.ValidationErrors{model.FieldData: "data should be json"}, s.Modal.Errors); diff != "" {
		t.Fatalf("modal errors mismatch (-want +got):\n%s", diff)
	}
	if !jsonvalue.Equal(jsonvalue.MustParse(`{"n":1}`), s.Doc) {
		t.Fatalf("invalid buffer leaked into doc: %s", s.Doc)
	}
}

func TestModalSubmitOverwritesDocument(t *testing.T) {
	s := loaded(t, "x", `{"n":1}`)
	buffer := "[1, 2, {\"z\": null}]"
	s = step(t, s, ModalOpened{}, ModalInput{Text: buffer}, ModalSubmitted{})

	if s.Modal.Open {
		t.Fatalf("modal should close after submit")
	}
	if s.Text != buffer {
		t.Fatalf("text should hold the buffer verbatim, got %q", s.Text)
	}
	if s.LastWriter != WriterText {
		t.Fatalf("expected text writer, got %s", s.LastWriter)
	}
	assertMirror(t, s)

	s = step(t, s, FieldDeleted{Path: jsonvalue.ParsePath("2")})
	if s.Text != `[1,2]` || s.LastWriter != WriterStructured {
		t.Fatalf("structured edit after modal: text=%s writer=%s", s.Text, s.LastWriter)
	}
	assertMirror(t, s)
}

func TestModalCloseDiscardsBuffer(t *testing.T) {
	s := loaded(t, "x", `{"n":1}`)
	before := s.Text
	s = step(t, s, ModalOpened{}, ModalInput{Text: `{"n":9}`}, ModalClosed{})
	if s.Modal.Open || s.Text != before {
		t.Fatalf("close applied buffer: %+v", s)
	}
}

func TestSubmitValidation(t *testing.T) {
	s := loaded(t, "x", `{"n":1}`)
	s = step(t, s, KeyChanged{Key: ""})

	s, cmd := Update(s, Submitted{})
	if cmd != nil {
		t.Fatalf("invalid form issued command %#v", cmd)
	}
	if diff := cmp.Diff(model.ValidationErrors{model.FieldKey: "key should not be empty"}, s.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	s = step(t, s, KeyChanged{Key: "y"})
	if s.Errors.For(model.FieldKey) != "" {
		t.Fatalf("key error should clear on edit")
	}
}

func TestSubmitSuccessAndStatuses(t *testing.T) {
	cases := []struct {
		name        string
		status      string
		err         error
		wantSuccess bool
		wantNotice  string
	}{
		{name: "ok", status: "ok", wantSuccess: true},
		{name: "other status", status: "busy", wantNotice: `store responded with status "busy"`},
		{name: "empty status", status: "", wantNotice: `store responded with status ""`},
		{name: "network error", err: errors.New("connection reset"), wantNotice: "connection reset"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := loaded(t, "a", `{"x":1}`)
			before := s
			s, cmd := Update(s, Submitted{})
			set, ok := cmd.(SetCmd)
			if !ok {
				t.Fatalf("expected SetCmd, got %#v", cmd)
			}
			if !s.Submitting {
				t.Fatalf("expected submitting state")
			}

			s, _ = Update(s, SubmitFinished{RequestID: set.RequestID, Status: tc.status, Err: tc.err})
			if s.Success != tc.wantSuccess || s.Notice != tc.wantNotice || s.Submitting {
				t.Fatalf("unexpected outcome: success=%v notice=%q submitting=%v", s.Success, s.Notice, s.Submitting)
			}
			if s.Text != before.Text || s.Key != before.Key {
				t.Fatalf("form changed by submit outcome")
			}
		})
	}
}

func TestSubmittingBlocksEdits(t *testing.T) {
	s := loaded(t, "a", `{"x":1}`)
	s, _ = Update(s, Submitted{})
	next, cmd := Update(s, Submitted{})
	if cmd != nil {
		t.Fatalf("second submit while in flight issued %#v", cmd)
	}
	next = step(t, next, FieldEdited{Path: jsonvalue.ParsePath("x"), Value: jsonvalue.Int(2)})
	if next.Text != s.Text {
		t.Fatalf("edit applied while submitting")
	}
}

func TestResetClearsForm(t *testing.T) {
	s := loaded(t, "a", `{"x":1}`)
	s = step(t, s, Reset{})
	if diff := cmp.Diff(model.FormState{}, s.Form()); diff != "" {
		t.Fatalf("form not reset (-want +got):\n%s", diff)
	}
	s, cmd := Update(s, Submitted{})
	if cmd != nil {
		t.Fatalf("submit after reset issued %#v", cmd)
	}
	want := model.ValidationErrors{
		model.FieldKey:  "key should not be empty",
		model.FieldData: "data should not be empty",
	}
	if diff := cmp.Diff(want, s.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteFlow(t *testing.T) {
	s := loaded(t, "a", `1`)
	s, cmd := Update(s, DeleteRequested{})
	del, ok := cmd.(DeleteCmd)
	if !ok || del.Key != "a" {
		t.Fatalf("expected DeleteCmd for a, got %#v", cmd)
	}
	s, _ = Update(s, DeleteFinished{RequestID: del.RequestID, Deleted: true})
	if !s.Deleted || s.Notice != `key "a" deleted` {
		t.Fatalf("unexpected state %+v", s)
	}

	s = loaded(t, "b", `1`)
	s, cmd = Update(s, DeleteRequested{})
	s, _ = Update(s, DeleteFinished{RequestID: cmd.(DeleteCmd).RequestID, Deleted: false})
	if s.Deleted || s.Notice != `key "b" did not exist` {
		t.Fatalf("unexpected state %+v", s)
	}
}

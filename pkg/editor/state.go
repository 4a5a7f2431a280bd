package editor

import (
	"fmt"

	"github.com/goliatone/go-kvdash/pkg/client"
	"github.com/goliatone/go-kvdash/pkg/jsonvalue"
	"github.com/goliatone/go-kvdash/pkg/model"
	"github.com/goliatone/go-kvdash/pkg/validation"
)

// Status is the lifecycle stage of the item view.
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

// Writer names the surface that produced the current Doc/Text pair.
type Writer uint8

const (
	WriterNone Writer = iota
	WriterStructured
	WriterText
)

func (w Writer) String() string {
	switch w {
	case WriterStructured:
		return "structured"
	case WriterText:
		return "text"
	default:
		return "none"
	}
}

// Modal is the raw-text editing overlay.
type Modal struct {
	Open   bool
	Buffer string
	Errors model.ValidationErrors
}

// State is the item view. It is a value; Update returns a new one.
type State struct {
	Key    string
	Status Status
	Err    string

	Doc        jsonvalue.Value
	Text       string
	LastWriter Writer
	Modal      Modal

	Errors     model.ValidationErrors
	Success    bool
	Deleted    bool
	Notice     string
	Submitting bool
	RequestID  string
}

// New starts an item view for key and returns the fetch it needs.
func New(key, requestID string) (State, Cmd) {
	return State{Key: key, Status: Loading, RequestID: requestID},
		LoadCmd{RequestID: requestID, Key: key}
}

// Form returns the key and text mirror as submitted by the view.
func (s State) Form() model.FormState {
	return model.FormState{Key: s.Key, Data: s.Text}
}

// Editable reports whether the view accepts edits.
func (s State) Editable() bool {
	return s.Status == Ready && !s.Submitting
}

// Update applies msg to s. Results tagged with another request ID are
// dropped unchanged.
func Update(s State, msg Msg) (State, Cmd) {
	switch m := msg.(type) {
	case Loaded:
		if m.RequestID != s.RequestID || s.Status != Loading {
			return s, nil
		}
		s.Status = Ready
		s.Err = ""
		s.Doc = m.Value
		s.Text = m.Value.Pretty()
		s.LastWriter = WriterNone
		return s, nil

	case LoadFailed:
		if m.RequestID != s.RequestID || s.Status != Loading {
			return s, nil
		}
		s.Status = Failed
		s.Err = errorText(m.Err)
		return s, nil

	case FieldEdited:
		return applyStructured(s, func(doc jsonvalue.Value) (jsonvalue.Value, error) {
			return jsonvalue.Replace(doc, m.Path, m.Value)
		})

	case FieldAdded:
		if n := len(m.Path); n > 0 && m.Path[n-1] == "" {
			if s.Editable() {
				s.Notice = "field name should not be empty"
			}
			return s, nil
		}
		return applyStructured(s, func(doc jsonvalue.Value) (jsonvalue.Value, error) {
			return jsonvalue.Add(doc, m.Path, m.Value)
		})

	case FieldDeleted:
		return applyStructured(s, func(doc jsonvalue.Value) (jsonvalue.Value, error) {
			return jsonvalue.Delete(doc, m.Path)
		})

	case KeyChanged:
		if !s.Editable() {
			return s, nil
		}
		s.Key = m.Key
		s.Errors = withoutField(s.Errors, model.FieldKey)
		return s, nil

	case ModalOpened:
		if !s.Editable() {
			return s, nil
		}
		s.Modal = Modal{Open: true, Buffer: s.Text}
		return s, nil

	case ModalInput:
		if !s.Modal.Open {
			return s, nil
		}
		s.Modal.Buffer = m.Text
		return s, nil

	case ModalReset:
		if !s.Modal.Open {
			return s, nil
		}
		s.Modal.Buffer = ""
		s.Modal.Errors = nil
		return s, nil

	case ModalSubmitted:
		if !s.Modal.Open || !s.Editable() {
			return s, nil
		}
		if errs := validation.ValidateData(s.Modal.Buffer); !errs.Valid() {
			s.Modal.Errors = errs
			return s, nil
		}
		doc, err := jsonvalue.ParseString(s.Modal.Buffer)
		if err != nil {
			s.Modal.Errors = model.ValidationErrors{}.With(model.FieldData, err.Error())
			return s, nil
		}
		s.Doc = doc
		s.Text = s.Modal.Buffer
		s.LastWriter = WriterText
		s.Modal = Modal{}
		s.Errors = withoutField(s.Errors, model.FieldData)
		s.Success = false
		s.Notice = ""
		return s, nil

	case ModalClosed:
		s.Modal = Modal{}
		return s, nil

	case Submitted:
		if !s.Editable() {
			return s, nil
		}
		errs := validation.ValidateForm(s.Form())
		if !errs.Valid() {
			s.Errors = errs
			return s, nil
		}
		data, err := jsonvalue.ParseString(s.Text)
		if err != nil {
			s.Errors = model.ValidationErrors{}.With(model.FieldData, err.Error())
			return s, nil
		}
		s.Errors = nil
		s.Success = false
		s.Deleted = false
		s.Notice = ""
		s.Submitting = true
		return s, SetCmd{RequestID: s.RequestID, Key: s.Key, Data: data}

	case SubmitFinished:
		if m.RequestID != s.RequestID || !s.Submitting {
			return s, nil
		}
		s.Submitting = false
		s.Success, s.Notice = submitOutcome(m)
		return s, nil

	case Reset:
		if !s.Editable() {
			return s, nil
		}
		s.Key = ""
		s.Doc = jsonvalue.NullValue()
		s.Text = ""
		s.LastWriter = WriterNone
		s.Modal = Modal{}
		s.Errors = nil
		s.Success = false
		s.Notice = ""
		return s, nil

	case DeleteRequested:
		if !s.Editable() {
			return s, nil
		}
		if s.Key == "" {
			s.Errors = model.ValidationErrors{}.With(model.FieldKey, "key should not be empty")
			return s, nil
		}
		s.Errors = nil
		s.Success = false
		s.Notice = ""
		s.Submitting = true
		return s, DeleteCmd{RequestID: s.RequestID, Key: s.Key}

	case DeleteFinished:
		if m.RequestID != s.RequestID || !s.Submitting {
			return s, nil
		}
		s.Submitting = false
		switch {
		case m.Err != nil:
			s.Notice = errorText(m.Err)
		case !m.Deleted:
			s.Notice = fmt.Sprintf("key %q did not exist", s.Key)
		default:
			s.Deleted = true
			s.Notice = fmt.Sprintf("key %q deleted", s.Key)
		}
		return s, nil
	}
	return s, nil
}

// applyStructured runs a structured edit and mirrors the new document into
// Text. A failed edit leaves Doc and Text untouched.
func applyStructured(s State, edit func(jsonvalue.Value) (jsonvalue.Value, error)) (State, Cmd) {
	if !s.Editable() {
		return s, nil
	}
	doc, err := edit(s.Doc)
	if err != nil {
		s.Notice = err.Error()
		return s, nil
	}
	s.Doc = doc
	s.Text = doc.String()
	s.LastWriter = WriterStructured
	s.Errors = withoutField(s.Errors, model.FieldData)
	s.Success = false
	s.Notice = ""
	return s, nil
}

// NoticeForStatus is the message shown when the store accepts a write with a
// status other than "ok".
func NoticeForStatus(status string) string {
	return fmt.Sprintf("store responded with status %q", status)
}

func submitOutcome(m SubmitFinished) (bool, string) {
	switch {
	case m.Err != nil:
		return false, errorText(m.Err)
	case m.Status != client.StatusOK:
		return false, NoticeForStatus(m.Status)
	default:
		return true, ""
	}
}

func errorText(err error) string {
	if err == nil {
		return "request failed"
	}
	return err.Error()
}

func withoutField(errs model.ValidationErrors, field string) model.ValidationErrors {
	if errs.For(field) == "" {
		return errs
	}
	out := errs.Clone()
	delete(out, field)
	if len(out) == 0 {
		return nil
	}
	return out
}

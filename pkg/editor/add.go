package editor

import (
	"github.com/goliatone/go-kvdash/pkg/jsonvalue"
	"github.com/goliatone/go-kvdash/pkg/model"
	"github.com/goliatone/go-kvdash/pkg/validation"
)

// AddState is the create-entry form.
type AddState struct {
	Form       model.FormState
	Errors     model.ValidationErrors
	Success    bool
	Notice     string
	Submitting bool
	RequestID  string
}

// NewAdd returns an empty add form.
func NewAdd(requestID string) AddState {
	return AddState{RequestID: requestID}
}

// UpdateAdd applies msg to the add form. A successful write clears the form.
func UpdateAdd(s AddState, msg Msg) (AddState, Cmd) {
	switch m := msg.(type) {
	case AddInput:
		if s.Submitting {
			return s, nil
		}
		s.Form = model.FormState{Key: m.Key, Data: m.Data}
		return s, nil

	case AddReset:
		if s.Submitting {
			return s, nil
		}
		s.Form = model.FormState{}
		s.Errors = nil
		s.Success = false
		s.Notice = ""
		return s, nil

	case AddSubmitted:
		if s.Submitting {
			return s, nil
		}
		errs := validation.ValidateForm(s.Form)
		if !errs.Valid() {
			s.Errors = errs
			return s, nil
		}
		data, err := jsonvalue.ParseString(s.Form.Data)
		if err != nil {
			s.Errors = model.ValidationErrors{}.With(model.FieldData, err.Error())
			return s, nil
		}
		s.Errors = nil
		s.Success = false
		s.Notice = ""
		s.Submitting = true
		return s, SetCmd{RequestID: s.RequestID, Key: s.Form.Key, Data: data}

	case SubmitFinished:
		if m.RequestID != s.RequestID || !s.Submitting {
			return s, nil
		}
		s.Submitting = false
		s.Success, s.Notice = submitOutcome(m)
		if s.Success {
			s.Form = model.FormState{}
		}
		return s, nil
	}
	return s, nil
}

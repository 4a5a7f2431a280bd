package editor

import (
	"github.com/goliatone/go-kvdash/pkg/jsonvalue"
)

// Msg is any input accepted by Update or UpdateAdd.
type Msg interface {
	isMsg()
}

// Loaded delivers the value fetched for the view.
type Loaded struct {
	RequestID string
	Value     jsonvalue.Value
}

// LoadFailed delivers a failed fetch.
type LoadFailed struct {
	RequestID string
	Err       error
}

// FieldEdited replaces the node at Path.
type FieldEdited struct {
	Path  jsonvalue.Path
	Value jsonvalue.Value
}

// FieldAdded inserts a new node at Path.
type FieldAdded struct {
	Path  jsonvalue.Path
	Value jsonvalue.Value
}

// FieldDeleted removes the node at Path.
type FieldDeleted struct {
	Path jsonvalue.Path
}

// KeyChanged edits the key field.
type KeyChanged struct {
	Key string
}

// ModalOpened opens the raw-text modal seeded from the text mirror.
type ModalOpened struct{}

// ModalInput replaces the modal buffer.
type ModalInput struct {
	Text string
}

// ModalReset empties the modal buffer.
type ModalReset struct{}

// ModalSubmitted validates the buffer and applies it to the document.
type ModalSubmitted struct{}

// ModalClosed dismisses the modal without applying the buffer.
type ModalClosed struct{}

// Submitted validates the form and asks for a store write.
type Submitted struct{}

// SubmitFinished delivers the outcome of a store write.
type SubmitFinished struct {
	RequestID string
	Status    string
	Err       error
}

// Reset clears the form.
type Reset struct{}

// DeleteRequested asks for the entry under the current key to be removed.
type DeleteRequested struct{}

// DeleteFinished delivers the outcome of a delete.
type DeleteFinished struct {
	RequestID string
	Deleted   bool
	Err       error
}

// AddInput replaces the add form fields.
type AddInput struct {
	Key  string
	Data string
}

// AddSubmitted validates the add form and asks for a store write.
type AddSubmitted struct{}

// AddReset clears the add form.
type AddReset struct{}

func (Loaded) isMsg()          {}
func (LoadFailed) isMsg()      {}
func (FieldEdited) isMsg()     {}
func (FieldAdded) isMsg()      {}
func (FieldDeleted) isMsg()    {}
func (KeyChanged) isMsg()      {}
func (ModalOpened) isMsg()     {}
func (ModalInput) isMsg()      {}
func (ModalReset) isMsg()      {}
func (ModalSubmitted) isMsg()  {}
func (ModalClosed) isMsg()     {}
func (Submitted) isMsg()       {}
func (SubmitFinished) isMsg()  {}
func (Reset) isMsg()           {}
func (DeleteRequested) isMsg() {}
func (DeleteFinished) isMsg()  {}
func (AddInput) isMsg()        {}
func (AddSubmitted) isMsg()    {}
func (AddReset) isMsg()        {}

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-kvdash/pkg/client"
	"github.com/goliatone/go-kvdash/pkg/editor"
	"github.com/goliatone/go-kvdash/pkg/jsonvalue"
	"github.com/goliatone/go-kvdash/pkg/keylist"
	"github.com/goliatone/go-kvdash/pkg/model"
	"github.com/goliatone/go-kvdash/pkg/render"
)

// Menu labels. Tests select options by these strings.
const (
	MenuBrowse = "Browse keys"
	MenuAdd    = "Add entry"
	MenuPurge  = "Delete all entries"
	MenuQuit   = "Quit"

	ItemEditField   = "Edit field"
	ItemAddField    = "Add field"
	ItemDeleteField = "Delete field"
	ItemEditText    = "Customize JSON text"
	ItemChangeKey   = "Change key"
	ItemSubmit      = "Submit"
	ItemReset       = "Reset"
	ItemRemove      = "Delete entry"
	ItemBack        = "Back"
)

var (
	mainMenu = []string{MenuBrowse, MenuAdd, MenuPurge, MenuQuit}
	itemMenu = []string{
		ItemEditField, ItemAddField, ItemDeleteField, ItemEditText,
		ItemChangeKey, ItemSubmit, ItemReset, ItemRemove, ItemBack,
	}
)

// Dashboard is the terminal front end. It drives the same keylist and editor
// state machines as the web dashboard, one prompt at a time.
type Dashboard struct {
	client   client.Client
	driver   PromptDriver
	text     Renderer
	theme    Theme
	pageSize int
	nextID   func() string
}

// New constructs a dashboard talking to c. The survey driver is used unless
// WithPromptDriver overrides it.
func New(c client.Client, options ...Option) (*Dashboard, error) {
	if c == nil {
		return nil, ErrNoClient
	}
	d := &Dashboard{
		client:   c,
		theme:    DefaultTheme,
		pageSize: 15,
		nextID:   defaultRequestID,
	}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	if d.driver == nil {
		d.driver = NewSurveyDriver()
	}
	return d, nil
}

// Run shows the main menu until the user quits. Aborting a prompt ends the
// session without an error.
func (d *Dashboard) Run(ctx context.Context) error {
	for {
		choice, err := d.choose(ctx, "kvdash", mainMenu)
		if err != nil {
			return quiet(err)
		}
		switch choice {
		case MenuBrowse:
			err = d.Browse(ctx)
		case MenuAdd:
			err = d.Add(ctx)
		case MenuPurge:
			err = d.Purge(ctx)
		default:
			return nil
		}
		if err != nil {
			return quiet(err)
		}
	}
}

// Browse lists keys, asks for a filter and opens the chosen item.
func (d *Dashboard) Browse(ctx context.Context) error {
	id := d.nextID()
	state := keylist.Update(keylist.New(id), keylist.Load(ctx, d.client, id))
	if state.Status == keylist.Failed {
		return d.show(ctx, render.ListPage("", state))
	}

	filter, err := d.driver.Input(ctx, InputConfig{
		Message: "Filter keys",
		Help:    "Case-sensitive substring. Leave empty to list every key.",
	})
	if err != nil {
		return err
	}
	state = keylist.Update(state, keylist.FilterChanged{Filter: filter})

	visible := keylist.Visible(state)
	if len(visible) == 0 {
		return d.show(ctx, render.ListPage("", state))
	}
	idx, err := d.driver.Select(ctx, SelectConfig{
		Message:  fmt.Sprintf("Keys (%d of %d)", len(visible), len(state.Keys)),
		Options:  append(append([]string(nil), visible...), ItemBack),
		PageSize: d.pageSize,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(visible) {
		return nil
	}
	return d.Item(ctx, visible[idx])
}

// Item opens the editor for key and loops over its actions until the user
// goes back or the entry is deleted.
func (d *Dashboard) Item(ctx context.Context, key string) error {
	s, cmd := editor.New(key, d.nextID())
	s = d.exec(ctx, s, cmd)

	for {
		if err := d.show(ctx, render.ItemPage("", "", s)); err != nil {
			return err
		}
		if s.Status != editor.Ready || s.Deleted {
			return nil
		}

		choice, err := d.choose(ctx, "Action", itemMenu)
		if err != nil {
			return err
		}

		var msg editor.Msg
		switch choice {
		case ItemEditField:
			msg, err = d.editField(ctx, s)
		case ItemAddField:
			msg, err = d.addField(ctx, s)
		case ItemDeleteField:
			msg, err = d.deleteField(ctx, s)
		case ItemEditText:
			s, err = d.editText(ctx, s)
		case ItemChangeKey:
			var key string
			key, err = d.driver.Input(ctx, InputConfig{Message: "Key", Default: s.Key})
			msg = editor.KeyChanged{Key: key}
		case ItemSubmit:
			msg = editor.Submitted{}
		case ItemReset:
			msg = editor.Reset{}
		case ItemRemove:
			var ok bool
			ok, err = d.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Delete %q?", s.Key)})
			if ok {
				msg = editor.DeleteRequested{}
			}
		default:
			return nil
		}
		if err != nil {
			return err
		}
		if msg != nil {
			s, cmd = editor.Update(s, msg)
			s = d.exec(ctx, s, cmd)
		}
	}
}

// Add runs the create-entry form once.
func (d *Dashboard) Add(ctx context.Context) error {
	s := editor.NewAdd(d.nextID())
	for {
		key, err := d.driver.Input(ctx, InputConfig{Message: "Key", Default: s.Form.Key})
		if err != nil {
			return err
		}
		data, err := d.driver.TextArea(ctx, TextAreaConfig{
			Message: "Data (JSON)",
			Default: s.Form.Data,
		})
		if err != nil {
			return err
		}

		var cmd editor.Cmd
		s, _ = editor.UpdateAdd(s, editor.AddInput{Key: key, Data: data})
		s, cmd = editor.UpdateAdd(s, editor.AddSubmitted{})
		for cmd != nil {
			s, cmd = editor.UpdateAdd(s, editor.Run(ctx, d.client, cmd))
		}
		if err := d.show(ctx, render.AddPage("", s)); err != nil {
			return err
		}
		if s.Success {
			return nil
		}
		retry, err := d.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
		if err != nil || !retry {
			return err
		}
	}
}

// Purge removes every entry from the store after a confirmation that
// defaults to no.
func (d *Dashboard) Purge(ctx context.Context) error {
	ok, err := d.driver.Confirm(ctx, ConfirmConfig{Message: "Delete every entry in the store?"})
	if err != nil || !ok {
		return err
	}
	purged, err := d.client.Purge(ctx)
	if err != nil {
		return d.fail(ctx, err.Error())
	}
	if !purged {
		return d.fail(ctx, "store did not purge")
	}
	return d.driver.Info(ctx, d.theme.SuccessPrefix+"store purged")
}

func (d *Dashboard) editField(ctx context.Context, s editor.State) (editor.Msg, error) {
	row, ok, err := d.pickRow(ctx, s, "Field to edit", func(render.Row) bool { return true })
	if err != nil || !ok {
		return nil, err
	}
	raw, err := d.driver.Input(ctx, InputConfig{
		Message: "Value of " + rowName(row),
		Default: row.Display,
		Help:    "JSON literal. Text that is not JSON is stored as a string.",
	})
	if err != nil {
		return nil, err
	}
	return editor.FieldEdited{Path: jsonvalue.ParsePath(row.Path), Value: jsonvalue.ParseInput(raw)}, nil
}

func (d *Dashboard) addField(ctx context.Context, s editor.State) (editor.Msg, error) {
	row, ok, err := d.pickRow(ctx, s, "Add inside", func(r render.Row) bool { return r.Container })
	if err != nil || !ok {
		return nil, err
	}
	segment := "-"
	if row.Kind == jsonvalue.Object.String() {
		segment, err = d.driver.Input(ctx, InputConfig{Message: "New key"})
		if err != nil {
			return nil, err
		}
	}
	raw, err := d.driver.Input(ctx, InputConfig{Message: "Value"})
	if err != nil {
		return nil, err
	}
	path := jsonvalue.ParsePath(row.Path).Child(segment)
	return editor.FieldAdded{Path: path, Value: jsonvalue.ParseInput(raw)}, nil
}

func (d *Dashboard) deleteField(ctx context.Context, s editor.State) (editor.Msg, error) {
	row, ok, err := d.pickRow(ctx, s, "Field to delete", func(r render.Row) bool { return r.Path != "" })
	if err != nil || !ok {
		return nil, err
	}
	return editor.FieldDeleted{Path: jsonvalue.ParsePath(row.Path)}, nil
}

// editText runs the raw-text modal: seed from the text mirror, edit, submit.
// Invalid JSON keeps the modal open until the user gives up.
func (d *Dashboard) editText(ctx context.Context, s editor.State) (editor.State, error) {
	s, _ = editor.Update(s, editor.ModalOpened{})
	for s.Modal.Open {
		buffer, err := d.driver.TextArea(ctx, TextAreaConfig{
			Message: "JSON text",
			Default: s.Modal.Buffer,
		})
		if err != nil {
			s, _ = editor.Update(s, editor.ModalClosed{})
			return s, err
		}
		s, _ = editor.Update(s, editor.ModalInput{Text: buffer})
		s, _ = editor.Update(s, editor.ModalSubmitted{})
		if !s.Modal.Open {
			break
		}
		if err := d.fail(ctx, s.Modal.Errors.For(model.FieldData)); err != nil {
			return s, err
		}
		retry, err := d.driver.Confirm(ctx, ConfirmConfig{Message: "Keep editing?", Default: true})
		if err != nil || !retry {
			s, _ = editor.Update(s, editor.ModalClosed{})
			return s, err
		}
	}
	return s, nil
}

func (d *Dashboard) pickRow(ctx context.Context, s editor.State, message string, keep func(render.Row) bool) (render.Row, bool, error) {
	var rows []render.Row
	var labels []string
	for _, row := range render.Rows(s.Doc) {
		if !keep(row) {
			continue
		}
		rows = append(rows, row)
		labels = append(labels, rowName(row))
	}
	if len(rows) == 0 {
		return render.Row{}, false, d.fail(ctx, "nothing to choose from")
	}
	idx, err := d.driver.Select(ctx, SelectConfig{
		Message:  message,
		Options:  append(labels, ItemBack),
		PageSize: d.pageSize,
	})
	if err != nil || idx < 0 || idx >= len(rows) {
		return render.Row{}, false, err
	}
	return rows[idx], true, nil
}

func (d *Dashboard) exec(ctx context.Context, s editor.State, cmd editor.Cmd) editor.State {
	for cmd != nil {
		s, cmd = editor.Update(s, editor.Run(ctx, d.client, cmd))
	}
	return s
}

func (d *Dashboard) choose(ctx context.Context, message string, options []string) (string, error) {
	idx, err := d.driver.Select(ctx, SelectConfig{Message: message, Options: options, PageSize: d.pageSize})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", nil
	}
	return options[idx], nil
}

func (d *Dashboard) show(ctx context.Context, view render.View) error {
	out, err := d.text.Render(ctx, view, render.RenderOptions{})
	if err != nil {
		return err
	}
	msg := strings.TrimRight(string(out), "\n")
	if view.Item != nil && view.Item.Success || view.Add != nil && view.Add.Success {
		msg = d.theme.SuccessPrefix + msg
	} else {
		msg = d.theme.InfoPrefix + msg
	}
	return d.driver.Info(ctx, msg)
}

func (d *Dashboard) fail(ctx context.Context, msg string) error {
	return d.driver.Info(ctx, d.theme.ErrorPrefix+msg)
}

func rowName(row render.Row) string {
	if row.Path == "" {
		return "(root)"
	}
	return row.Path
}

func quiet(err error) error {
	if errors.Is(err, ErrAborted) {
		return nil
	}
	return err
}

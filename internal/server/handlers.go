package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-kvdash/pkg/editor"
	"github.com/goliatone/go-kvdash/pkg/jsonvalue"
	"github.com/goliatone/go-kvdash/pkg/keylist"
	"github.com/goliatone/go-kvdash/pkg/model"
	"github.com/goliatone/go-kvdash/pkg/render"
	"github.com/goliatone/go-kvdash/pkg/renderers/html"
	"github.com/goliatone/go-kvdash/pkg/theming"
)

// Actions posted by the item and add forms in the "action" field.
const (
	ActionEdit        = "edit"
	ActionAdd         = "add"
	ActionDelete      = "delete"
	ActionModalOpen   = "modal-open"
	ActionModalSubmit = "modal-submit"
	ActionModalReset  = "modal-reset"
	ActionModalClose  = "modal-close"
	ActionKey         = "key"
	ActionSubmit      = "submit"
	ActionReset       = "reset"
	ActionRemove      = "remove"
)

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	id := s.nextID()
	state := keylist.New(id)
	state = keylist.Update(state, keylist.Load(r.Context(), s.client, id))
	state = keylist.Update(state, keylist.FilterChanged{Filter: r.URL.Query().Get("q")})

	status := http.StatusOK
	if state.Status == keylist.Failed {
		status = http.StatusBadGateway
	}
	s.render(w, r, status, render.ListPage(s.base, state))
}

// itemSession is the edit state of one item view, bound to the key in the
// route it was opened on. A closed session has already saved or deleted its
// entry and accepts no further actions.
type itemSession struct {
	Key    string
	State  editor.State
	Closed bool
}

// addSession is the state of one add form.
type addSession struct {
	State  editor.AddState
	Closed bool
}

var errSessionUnusable = errors.New("server: session is closed or belongs to another view")

func (s *Server) handleAddView(w http.ResponseWriter, r *http.Request) {
	state := editor.NewAdd(s.nextID())
	sid := s.adds.Create(addSession{State: state})
	s.render(w, r, http.StatusOK, render.AddPage(s.base, state), render.SessionToken(sid))
}

func (s *Server) handleAddAction(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	sid := r.PostForm.Get(render.SessionField)
	applied := false
	sess, err := s.adds.Update(sid, func(cur addSession) (addSession, error) {
		if cur.Closed {
			return cur, errSessionUnusable
		}
		applied = true
		cur.State = s.applyAddForm(r, cur.State)
		cur.Closed = cur.State.Success
		return cur, nil
	})
	switch {
	case errors.Is(err, errSessionUnusable):
		http.Redirect(w, r, s.base+"/add", http.StatusSeeOther)
		return
	case !applied:
		sess = addSession{State: s.applyAddForm(r, editor.NewAdd(s.nextID()))}
		sess.Closed = sess.State.Success
	}
	state := sess.State

	// A closed session stays in the store until it expires so a repeated
	// post of the same form is redirected instead of writing again.
	switch {
	case sess.Closed:
		sid = s.adds.Create(addSession{State: editor.NewAdd(s.nextID())})
	case !applied || err != nil:
		sid = s.adds.Create(addSession{State: state})
	}

	status := http.StatusOK
	if !state.Errors.Valid() {
		status = http.StatusUnprocessableEntity
	}
	s.render(w, r, status, render.AddPage(s.base, state), render.SessionToken(sid))
}

func (s *Server) applyAddForm(r *http.Request, state editor.AddState) editor.AddState {
	if r.PostForm.Get("action") == ActionReset {
		state, _ = editor.UpdateAdd(state, editor.AddReset{})
		return state
	}
	state, _ = editor.UpdateAdd(state, editor.AddInput{
		Key:  r.PostForm.Get(model.FieldKey),
		Data: r.PostForm.Get(model.FieldData),
	})
	state, cmd := editor.UpdateAdd(state, editor.AddSubmitted{})
	for cmd != nil {
		state, cmd = editor.UpdateAdd(state, editor.Run(r.Context(), s.client, cmd))
	}
	return state
}

func (s *Server) handleItemView(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	state, cmd := editor.New(key, s.nextID())
	state = s.exec(r.Context(), state, cmd)

	status := http.StatusOK
	if state.Status == editor.Failed {
		status = http.StatusBadGateway
	}
	sid := s.items.Create(itemSession{Key: key, State: state})
	s.render(w, r, status, render.ItemPage(s.base, render.ItemPath(s.base, key), state), render.SessionToken(sid))
}

func (s *Server) handleItemAction(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	key := r.PathValue("key")
	action := render.ItemPath(s.base, key)

	sid := r.PostForm.Get(render.SessionField)
	applied := false
	sess, err := s.items.Update(sid, func(cur itemSession) (itemSession, error) {
		if cur.Closed || cur.Key != key {
			return cur, errSessionUnusable
		}
		applied = true
		cur.State = s.applyItemForm(r, cur.State)
		cur.Closed = cur.State.Success || cur.State.Deleted
		return cur, nil
	})
	if !applied {
		// Stale, missing or foreign session: start over with a fresh view.
		http.Redirect(w, r, action, http.StatusSeeOther)
		return
	}
	state := sess.State

	if sess.Closed || err != nil {
		sid = s.items.Create(itemSession{Key: key, State: state})
	}

	status := http.StatusOK
	if !state.Errors.Valid() || !state.Modal.Errors.Valid() {
		status = http.StatusUnprocessableEntity
	}
	s.render(w, r, status, render.ItemPage(s.base, action, state), render.SessionToken(sid))
}

// applyItemForm runs the posted key change and action through the editor,
// including the store calls they trigger.
func (s *Server) applyItemForm(r *http.Request, state editor.State) editor.State {
	if r.PostForm.Has(model.FieldKey) {
		state, _ = editor.Update(state, editor.KeyChanged{Key: r.PostForm.Get(model.FieldKey)})
	}
	for _, msg := range itemMessages(r, state) {
		var cmd editor.Cmd
		state, cmd = editor.Update(state, msg)
		state = s.exec(r.Context(), state, cmd)
	}
	return state
}

// itemMessages translates a posted item form into editor messages. Unknown
// actions yield none; the key field has already been applied by then.
func itemMessages(r *http.Request, state editor.State) []editor.Msg {
	form := r.PostForm
	path := jsonvalue.ParsePath(form.Get("path"))

	switch form.Get("action") {
	case ActionEdit:
		return []editor.Msg{editor.FieldEdited{Path: path, Value: jsonvalue.ParseInput(form.Get("value"))}}
	case ActionAdd:
		child := path.Child(childSegment(state.Doc, path, form.Get("name")))
		return []editor.Msg{editor.FieldAdded{Path: child, Value: jsonvalue.ParseInput(form.Get("value"))}}
	case ActionDelete:
		return []editor.Msg{editor.FieldDeleted{Path: path}}
	case ActionModalOpen:
		return []editor.Msg{editor.ModalOpened{}}
	case ActionModalSubmit:
		return []editor.Msg{editor.ModalInput{Text: form.Get("buffer")}, editor.ModalSubmitted{}}
	case ActionModalReset:
		return []editor.Msg{editor.ModalReset{}}
	case ActionModalClose:
		return []editor.Msg{editor.ModalClosed{}}
	case ActionSubmit:
		return []editor.Msg{editor.Submitted{}}
	case ActionReset:
		return []editor.Msg{editor.Reset{}}
	case ActionRemove:
		return []editor.Msg{editor.DeleteRequested{}}
	case ActionKey:
		return nil
	default:
		return nil
	}
}

// childSegment names the node created by an add action: the posted name for
// objects, an append marker for arrays.
func childSegment(doc jsonvalue.Value, parent jsonvalue.Path, name string) string {
	if node, ok := jsonvalue.Get(doc, parent); ok && node.Kind() == jsonvalue.Array {
		if strings.TrimSpace(name) == "" {
			return "-"
		}
	}
	return name
}

func (s *Server) exec(ctx context.Context, state editor.State, cmd editor.Cmd) editor.State {
	for cmd != nil {
		state, cmd = editor.Update(state, editor.Run(ctx, s.client, cmd))
	}
	return state
}

func (s *Server) handleThemeCSS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(theming.Stylesheet(s.theme) + "\n" + html.BaseStylesheet()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.client.Ping(r.Context()); err != nil {
		s.logger.WarnContext(r.Context(), "store ping failed", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, render.ErrorPage(s.base, http.StatusBadRequest, "invalid form submission"))
		return false
	}
	return true
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, view render.View, hidden ...render.HiddenField) {
	renderer, err := s.renderers.Negotiate(r.Header.Get("Accept"))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "no renderer", "error", err)
		http.Error(w, "no renderer available", http.StatusInternalServerError)
		return
	}
	out, err := renderer.Render(r.Context(), view, render.RenderOptions{Theme: s.theme, Hidden: hidden})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "render failed", "renderer", renderer.Name(), "page", string(view.Page), "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-kvdash/pkg/editor"
	"github.com/goliatone/go-kvdash/pkg/keylist"
	"github.com/goliatone/go-kvdash/pkg/model"
)

// Page identifies which dashboard screen a View describes.
type Page string

const (
	PageList  Page = "list"
	PageItem  Page = "item"
	PageAdd   Page = "add"
	PageError Page = "error"
)

// View is the renderer-neutral description of one dashboard screen. Exactly
// one of List, Item, Add or Failure is populated, matching Page.
type View struct {
	Page     Page         `json:"page"`
	Title    string       `json:"title"`
	BasePath string       `json:"base_path"`
	Nav      Nav          `json:"nav"`
	Errors   ErrorMapping `json:"errors"`

	List    *ListView `json:"list,omitempty"`
	Item    *ItemView `json:"item,omitempty"`
	Add     *AddView  `json:"add,omitempty"`
	Failure *Failure  `json:"failure,omitempty"`
}

// Nav holds the links shared by every page.
type Nav struct {
	Home string `json:"home"`
	Add  string `json:"add"`
}

// ListView is the key listing.
type ListView struct {
	Status string    `json:"status"`
	Filter string    `json:"filter"`
	Err    string    `json:"error,omitempty"`
	Keys   []KeyLink `json:"keys"`
	Total  int       `json:"total"`
}

// KeyLink is a key and the URL of its item view.
type KeyLink struct {
	Key  string `json:"key"`
	Href string `json:"href"`
}

// ItemView is the structured editor and raw-text modal of one entry.
type ItemView struct {
	Key        string    `json:"key"`
	Status     string    `json:"status"`
	Err        string    `json:"error,omitempty"`
	Action     string    `json:"action"`
	Rows       []Row     `json:"rows,omitempty"`
	Text       string    `json:"text"`
	Pretty     string    `json:"pretty"`
	LastWriter string    `json:"last_writer"`
	Modal      ModalView `json:"modal"`
	Success    bool      `json:"success"`
	Deleted    bool      `json:"deleted"`
	Submitting bool      `json:"submitting"`
	Notice     string    `json:"notice,omitempty"`
}

// ModalView is the raw-text overlay.
type ModalView struct {
	Open   bool   `json:"open"`
	Buffer string `json:"buffer"`
	Error  string `json:"error,omitempty"`
}

// AddView is the create-entry form.
type AddView struct {
	Action  string `json:"action"`
	Key     string `json:"key"`
	Data    string `json:"data"`
	Success bool   `json:"success"`
	Notice  string `json:"notice,omitempty"`
}

// Failure describes an error page.
type Failure struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ItemPath returns the URL of the item view for key under base.
func ItemPath(base, key string) string {
	return JoinBase(base, "/item/"+url.PathEscape(key))
}

// JoinBase prefixes path with the dashboard base path.
func JoinBase(base, path string) string {
	base = strings.TrimRight(base, "/")
	if path == "" || path == "/" {
		return base + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func newView(base string, page Page, title string) View {
	return View{
		Page:     page,
		Title:    title,
		BasePath: strings.TrimRight(base, "/"),
		Nav: Nav{
			Home: JoinBase(base, "/"),
			Add:  JoinBase(base, "/add"),
		},
	}
}

// ListPage builds the key listing view from its state.
func ListPage(base string, s keylist.State) View {
	view := newView(base, PageList, "Keys")
	visible := keylist.Visible(s)
	list := &ListView{
		Status: s.Status.String(),
		Filter: s.Filter,
		Err:    s.Err,
		Keys:   make([]KeyLink, 0, len(visible)),
		Total:  len(s.Keys),
	}
	for _, key := range visible {
		list.Keys = append(list.Keys, KeyLink{Key: key, Href: ItemPath(base, key)})
	}
	view.List = list
	return view
}

// ItemPage builds the item view from its state. action is the URL the view's
// forms post to.
func ItemPage(base, action string, s editor.State) View {
	title := s.Key
	if title == "" {
		title = "Item"
	}
	view := newView(base, PageItem, title)
	item := &ItemView{
		Key:        s.Key,
		Status:     s.Status.String(),
		Err:        s.Err,
		Action:     action,
		Text:       s.Text,
		LastWriter: s.LastWriter.String(),
		Success:    s.Success,
		Deleted:    s.Deleted,
		Submitting: s.Submitting,
		Notice:     s.Notice,
		Modal: ModalView{
			Open:   s.Modal.Open,
			Buffer: s.Modal.Buffer,
			Error:  s.Modal.Errors.For(model.FieldData),
		},
	}
	if s.Status == editor.Ready && s.Text != "" {
		item.Rows = Rows(s.Doc)
		item.Pretty = s.Doc.Pretty()
	}
	view.Item = item
	view.Errors = MapErrors(s.Errors, []string{model.FieldKey, model.FieldData}, s.Notice)
	return view
}

// AddPage builds the create-entry view from its state.
func AddPage(base string, s editor.AddState) View {
	view := newView(base, PageAdd, "Add entry")
	view.Add = &AddView{
		Action:  JoinBase(base, "/add"),
		Key:     s.Form.Key,
		Data:    s.Form.Data,
		Success: s.Success,
		Notice:  s.Notice,
	}
	view.Errors = MapErrors(s.Errors, []string{model.FieldKey, model.FieldData}, s.Notice)
	return view
}

// ErrorPage builds a view reporting a request failure.
func ErrorPage(base string, status int, message string) View {
	view := newView(base, PageError, fmt.Sprintf("Error %d", status))
	view.Failure = &Failure{Status: status, Message: message}
	return view
}

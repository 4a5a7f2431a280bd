package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-kvdash/pkg/client"
	"github.com/goliatone/go-kvdash/pkg/jsonvalue"
)

// Cmd describes store I/O requested by a transition.
type Cmd interface {
	isCmd()
}

// LoadCmd fetches the value under Key.
type LoadCmd struct {
	RequestID string
	Key       string
}

// SetCmd writes Data under Key.
type SetCmd struct {
	RequestID string
	Key       string
	Data      jsonvalue.Value
}

// DeleteCmd removes Key.
type DeleteCmd struct {
	RequestID string
	Key       string
}

func (LoadCmd) isCmd()   {}
func (SetCmd) isCmd()    {}
func (DeleteCmd) isCmd() {}

// ErrUnknownCmd is returned through LoadFailed when Run receives a command
// type it does not know.
var ErrUnknownCmd = errors.New("editor: unknown command")

// Run executes cmd and reports the outcome as a message tagged with the
// command's request ID. A nil cmd yields a nil message.
func Run(ctx context.Context, c client.Client, cmd Cmd) Msg {
	switch cmd := cmd.(type) {
	case nil:
		return nil
	case LoadCmd:
		value, err := c.GetValue(ctx, cmd.Key)
		if err != nil {
			return LoadFailed{RequestID: cmd.RequestID, Err: err}
		}
		return Loaded{RequestID: cmd.RequestID, Value: value}
	case SetCmd:
		status, err := c.SetValue(ctx, cmd.Key, cmd.Data)
		return SubmitFinished{RequestID: cmd.RequestID, Status: status, Err: err}
	case DeleteCmd:
		deleted, err := c.Delete(ctx, cmd.Key)
		return DeleteFinished{RequestID: cmd.RequestID, Deleted: deleted, Err: err}
	default:
		return LoadFailed{Err: fmt.Errorf("%w: %T", ErrUnknownCmd, cmd)}
	}
}

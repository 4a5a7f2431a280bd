package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoClient is returned by New when no store client is supplied.
	ErrNoClient = errors.New("tui: store client is required")
)

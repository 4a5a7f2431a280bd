// Package editor implements the item and add views as pure state machines.
//
// A view is a value (State or AddState). Update applies one message and
// returns the next value plus an optional command describing store I/O.
// Run executes a command against a client.Client and turns the outcome back
// into a message, so the browser and terminal surfaces share one workflow:
//
//	state, cmd := editor.New(key, requestID)
//	for cmd != nil {
//		state, cmd = editor.Update(state, editor.Run(ctx, store, cmd))
//	}
//
// The structured document (Doc) and the raw-text mirror (Text) are kept in
// step by exactly one writer per transition. Structured edits re-serialize
// Doc into Text; a submitted modal buffer replaces Doc with its parsed
// content. LastWriter records which surface produced the current pair.
package editor

// Package jsonvalue models JSON documents as a tagged union (null, bool,
// number, string, array, object). Values are immutable: every edit helper
// returns a new Value and leaves its input untouched, which lets view states
// share documents without copying them.
//
// Parse and Marshal are the only boundaries between raw bytes and Values.
// Numbers keep their literal text so a parse/serialize round trip never
// changes precision, and objects keep member insertion order so the text
// mirror of a document is stable across edits.
package jsonvalue

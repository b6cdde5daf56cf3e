package lrc

import (
	"errors"
	"fmt"
)

// ErrNotSynced is returned when an operation requires a Synced document.
var ErrNotSynced = errors.New("lrc: document is not synced")

// ParseError reports a line whose timestamp does not follow the LRC grammar.
type ParseError struct {
	Line   int    // 1-based line number, 0 if unknown
	Text   string // Offending line
	Reason string // Short description of the problem
	Err    error  // Underlying conversion error, if any
}

// Error returns the error message.
func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("lrc: %s", e.Reason)
	}
	return fmt.Sprintf("lrc: line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Unwrap returns the underlying conversion error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// OutOfRangeError is returned when shifting a document would move its first
// line before the start of the track.
type OutOfRangeError struct {
	First int64 // Offset of the first line in milliseconds
	Delta int64 // Requested shift in milliseconds
}

// Error returns the error message.
func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("lrc: shifting by %dms moves first line (%s) before 00:00.00",
		e.Delta, FormatTimestamp(e.First))
}

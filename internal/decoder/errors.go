package decoder

import "fmt"

// Error is a fatal decode failure: the stream is too short or a fixed field
// is unreadable. Recoverable anomalies never produce an Error; they are
// absorbed into Diagnostics instead.
type Error struct {
	// Offset is the byte offset at which decoding failed.
	Offset int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("evtc decode error at offset %d: %s", e.Offset, e.Reason)
}

func errAt(offset int, format string, args ...any) *Error {
	return &Error{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

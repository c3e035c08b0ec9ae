package torrent

import (
	"errors"
	"fmt"
)

// Kind is a stable error category for the torrent transform.
type Kind string

const (
	KindDecode          Kind = "DecodeError"
	KindEncode          Kind = "EncodeError"
	KindTypeMismatch    Kind = "TypeMismatch"
	KindUnknownEncoding Kind = "UnknownEncoding"
)

// Error describes a failed text conversion or an unexpected value shape.
//
// Path locates the value inside the torrent (for example "info.files[0].path[1]"),
// Offset is the byte or rune position inside that value where conversion
// failed, or -1 when it does not apply.
type Error struct {
	Kind     Kind
	Path     string
	Offset   int
	Encoding string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "torrent: " + e.Message
	if e.Path != "" {
		msg += fmt.Sprintf(" at %s", e.Path)
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" (offset %d)", e.Offset)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func typeMismatch(path, format string, args ...any) error {
	return &Error{Kind: KindTypeMismatch, Path: path, Offset: -1, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

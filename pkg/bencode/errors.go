package bencode

import (
	"errors"
	"fmt"
)

// Kind is a stable error category. Branch on Kind, not on Error() text.
type Kind string

const (
	KindMalformed       Kind = "MalformedEncoding"
	KindUnsupportedType Kind = "UnsupportedType"
	KindNestingTooDeep  Kind = "NestingTooDeep"
)

// Error is returned by every decode and encode failure in this package.
//
// Offset is the byte position in the input where decoding stopped, or -1 for
// encode errors.
type Error struct {
	Kind    Kind
	Offset  int
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Offset < 0 {
		return fmt.Sprintf("bencode: %s", e.Message)
	}
	return fmt.Sprintf("bencode: %s (offset %d)", e.Message, e.Offset)
}

func malformed(offset int, format string, args ...any) error {
	return &Error{Kind: KindMalformed, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

func unsupported(format string, args ...any) error {
	return &Error{Kind: KindUnsupportedType, Offset: -1, Message: fmt.Sprintf(format, args...)}
}

func tooDeep(offset, limit int) error {
	return &Error{Kind: KindNestingTooDeep, Offset: offset, Message: fmt.Sprintf("nesting exceeds %d levels", limit)}
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

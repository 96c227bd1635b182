package stream

import "fmt"

// Kind classifies stream errors.
type Kind int

const (
	KindBus             Kind = 1 // the bus transaction failed
	KindInvalidPosition Kind = 2 // the cursor has no valid memory address or the seek was out of range
)

func (k Kind) String() string {
	switch k {
	case KindBus:
		return "bus error"
	case KindInvalidPosition:
		return "invalid position"
	default:
		return fmt.Sprintf("unknown error kind: %v", int(k))
	}
}

// Error is returned by every Stream operation that fails. Err holds the
// underlying bus or cursor error, if any.
type Error struct {
	Op   string // "read", "write" or "seek"
	Kind Kind
	Pos  uint64 // cursor position when the operation failed
	Err  error
}

// ErrInvalidPosition matches any Error of KindInvalidPosition with errors.Is.
// It is a sentinel; do not modify it.
var ErrInvalidPosition = &Error{Kind: KindInvalidPosition}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Kind == KindBus && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Op == "" {
		return "stream: " + msg
	}
	return fmt.Sprintf("stream: %v at %d: %v", e.Op, e.Pos, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an Error of the same kind, such as
// ErrInvalidPosition. Only Kind is compared.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

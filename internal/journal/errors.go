package journal

import (
	"errors"
	"fmt"
)

var (
	ErrIncomplete = errors.New("incomplete journal record")
	ErrMalformed  = errors.New("malformed journal record")
	ErrEmpty      = errors.New("empty journal record")
)

type DecodeErrorKind int

const (
	Incomplete DecodeErrorKind = iota + 1
	Malformed
)

func (k DecodeErrorKind) String() string {
	switch k {
	case Incomplete:
		return "incomplete"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

type DecodeError struct {
	Kind    DecodeErrorKind
	Reason  string
	Excerpt string
}

func (e *DecodeError) Error() string {
	if e.Excerpt == "" {
		return fmt.Sprintf("decode journal record: %s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("decode journal record: %s: %s: %q", e.Kind, e.Reason, e.Excerpt)
}

func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrIncomplete:
		return e.Kind == Incomplete
	case ErrMalformed:
		return e.Kind == Malformed
	}
	return false
}

const excerptLimit = 80

func newDecodeError(kind DecodeErrorKind, reason string, line []byte) *DecodeError {
	excerpt := string(line)
	if len(excerpt) > excerptLimit {
		excerpt = excerpt[:excerptLimit] + "..."
	}
	return &DecodeError{Kind: kind, Reason: reason, Excerpt: excerpt}
}

package whois

import (
	"fmt"
)

// ErrorKind classifies terminal lookup conditions.
type ErrorKind string

const (
	KindBadResponse     ErrorKind = "BadResponse"
	KindNotFound        ErrorKind = "NotFound"
	KindInvalidQuery    ErrorKind = "InvalidQuery"
	KindRateLimited     ErrorKind = "RateLimited"
	KindTransport       ErrorKind = "TransportError"
	KindTLDNotSupported ErrorKind = "TLDNotSupported"
)

// Error is returned when there is no record to return.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		}
	}
	if msg == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// works regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrBadResponse     = &Error{Kind: KindBadResponse}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrInvalidQuery    = &Error{Kind: KindInvalidQuery}
	ErrRateLimited     = &Error{Kind: KindRateLimited}
	ErrTransport       = &Error{Kind: KindTransport}
	ErrTLDNotSupported = &Error{Kind: KindTLDNotSupported}
)

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// TransportError wraps a failure of the WHOIS or RDAP collaborator.
func TransportError(err error, format string, args ...any) *Error {
	return &Error{Kind: KindTransport, Message: fmt.Sprintf(format, args...), Err: err}
}

package hresult

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// Signal is a native-side failure: a status code and an optional
// description. It is consumed once by Translate, or forwarded unchanged.
type Signal struct {
	Code    HRESULT
	Message string
}

// New returns the signal for code with message.
func New(code HRESULT, message string) Signal {
	return Signal{Code: code, Message: message}
}

// Errorf returns the signal for code with a formatted message.
func Errorf(code HRESULT, format string, args ...any) Signal {
	return Signal{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (s Signal) Error() string {
	if s.Message == "" {
		return "hresult " + s.Code.String()
	}
	return s.Message
}

// HRESULT returns the status code carried by s.
func (s Signal) HRESULT() HRESULT { return s.Code }

// Is matches the category sentinel of the signal's code.
func (s Signal) Is(target error) bool {
	return target == CategoryOf(s.Code).Sentinel()
}

// Error is the caller-visible form of a failure.
type Error struct {
	Category Category
	Message  string
	Code     HRESULT
}

// Translate maps a signal to its typed error. The message is kept verbatim,
// an absent message stays empty; E_ACCESSDENIED is the only code whose
// message is replaced.
func Translate(sig Signal) *Error {
	cat := CategoryOf(sig.Code)
	msg := sig.Message
	if cat == AccessDenied {
		msg = AccessDeniedMessage
	}
	return &Error{Category: cat, Message: msg, Code: sig.Code}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (%s)", e.Category, e.Code)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Code, e.Message)
}

// Unwrap exposes the category sentinel to errors.Is.
func (e *Error) Unwrap() error { return e.Category.Sentinel() }

// HRESULT returns the original status code.
func (e *Error) HRESULT() HRESULT { return e.Code }

// Signal returns the code and message of e as a forwardable signal.
func (e *Error) Signal() Signal { return Signal{Code: e.Code, Message: e.Message} }

type coder interface {
	HRESULT() HRESULT
}

// FromError converts an error returned by callee code into the signal that
// crosses the boundary. Signals and typed errors anywhere in the chain are
// re-emitted with their original code and message.
func FromError(err error) Signal {
	if err == nil {
		return Signal{Code: SOK}
	}

	var sig Signal
	if errors.As(err, &sig) {
		return sig
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Signal()
	}
	var c coder
	if errors.As(err, &c) {
		return Signal{Code: c.HRESULT(), Message: err.Error()}
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Signal{Code: EAbort, Message: err.Error()}
	case errors.Is(err, fs.ErrPermission):
		return Signal{Code: EAccessDenied, Message: err.Error()}
	}
	return Signal{Code: EFail, Message: err.Error()}
}

// Package serr holds common error objects used across the ChatMacro server.
// Notably, it contains the Error type, which can be created with one or more
// 'cause' errors. Calling errors.Is() on this Error type with an argument
// consisting of any of the errors it has as a cause will return true.
package serr

import "errors"

var (
	ErrNotFound      = errors.New("the requested entity could not be found")
	ErrBadArgument   = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal = errors.New("malformed data in request")
)

// Error is a typed error returned by the ChatMacro server. It contains both a
// message explaining what happened and one or more error values it considers
// to be its causes. Calling errors.Is on an Error along with any of its causes
// returns true.
//
// If Error has at least one cause, Error.Error() gives its message with the
// result of calling Error() on its first cause appended.
//
// Error should not be used directly; call New to create one.
type Error struct {
	msg   string
	cause []error
}

func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}

	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}

	return e.msg
}

// Unwrap returns the causes of Error, or nil if it has none.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Message returns only the message of the Error, without its causes.
func (e Error) Message() string {
	return e.msg
}

// New creates a new Error with the given message, along with any errors it
// should wrap as its causes.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}

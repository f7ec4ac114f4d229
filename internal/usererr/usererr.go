// Package usererr holds errors that carry a message fit to show the person at
// the console, alongside the usual technical description.
package usererr

import (
	"errors"
	"fmt"
)

// userError is an error caused by input that could not be understood or that
// asks for something that cannot be done.
type userError struct {
	msg   string
	human string
	wrap  error
}

func (e *userError) Error() string {
	return e.msg
}

// ConsoleMessage gives the message to show at the console.
func (e *userError) ConsoleMessage() string {
	return e.human
}

// Unwrap gives the error that the userError wraps, if it wraps one.
func (e *userError) Unwrap() error {
	return e.wrap
}

// New returns an error that has both the message to show the user and the
// technical description of the error.
func New(human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("user error: %s", human)
	}
	return &userError{
		msg:   technical,
		human: human,
	}
}

// Newf returns an error with a formatted message for the user and an
// automatically generated Error() description.
func Newf(humanFormat string, a ...interface{}) error {
	return New(fmt.Sprintf(humanFormat, a...), "")
}

// Wrap returns an error that has both the message to show the user and the
// technical description of the error, and that wraps e.
func Wrap(e error, human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("user error: %s: %s", human, e.Error())
	}
	return &userError{
		msg:   technical,
		human: human,
		wrap:  e,
	}
}

// Wrapf is Wrap with a formatted user message.
func Wrapf(e error, humanFormat string, a ...interface{}) error {
	return Wrap(e, fmt.Sprintf(humanFormat, a...), "")
}

// ConsoleMessage gets the message to display at the console for err. If err
// is or wraps an error created by this package, its user message is
// returned. Otherwise, err.Error() is returned.
func ConsoleMessage(err error) string {
	var userErr *userError
	if errors.As(err, &userErr) {
		return userErr.ConsoleMessage()
	}
	return err.Error()
}

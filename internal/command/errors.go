package command

import (
	"fmt"

	"pkt.systems/rhinoterm/schema"
)

// UserError is a non-fatal error shown to the visitor as one line of text.
type UserError struct {
	Text string
	Err  error
}

func (e *UserError) Error() string { return e.Text }

func (e *UserError) Unwrap() error { return e.Err }

func userErrorf(kind error, format string, args ...any) *UserError {
	return &UserError{Text: fmt.Sprintf(format, args...), Err: kind}
}

func notFound(input string) *UserError {
	return userErrorf(schema.ErrUnknownCommand, "command not found: %s", input)
}

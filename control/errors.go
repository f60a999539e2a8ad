package control

import (
	"errors"
	"fmt"

	"github.com/NaveLIL/lyrics-overlay/overlay"
)

// Error codes reported to callers.
const (
	CodeBadArgs        = "bad_args"
	CodeNoWindow       = "no_window"
	CodeCreateFailed   = "create_failed"
	CodeNotImplemented = "not_implemented"
	CodeInternal       = "internal"
)

// Error is the error returned across the control boundary.
type Error struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func badArgs(field string, err error) *Error {
	return &Error{Code: CodeBadArgs, Field: field, Message: err.Error()}
}

func missing(field string) *Error {
	return &Error{Code: CodeBadArgs, Field: field, Message: "missing argument"}
}

// toError maps overlay errors to control errors.
func toError(err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	switch {
	case errors.As(err, &ce):
		return ce
	case errors.Is(err, overlay.ErrCreateFailed):
		return &Error{Code: CodeCreateFailed, Message: err.Error()}
	case errors.Is(err, overlay.ErrNoWindowHandle):
		return &Error{Code: CodeNoWindow, Message: err.Error()}
	case errors.Is(err, overlay.ErrInvalidWidth):
		return badArgs("width", err)
	default:
		return &Error{Code: CodeInternal, Message: err.Error()}
	}
}

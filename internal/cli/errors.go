package cli

import (
	"errors"
	"fmt"

	"github.com/jacksmith/kanban/internal/gateway"
	"github.com/jacksmith/kanban/internal/state"
)

// NotFoundError indicates a project or task is not in the local cache.
type NotFoundError struct {
	Type string // "task" or "project"
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Type, e.ID)
}

// ValidationError indicates a bad argument or flag value.
type ValidationError struct {
	Field   string // the field that failed validation
	Message string // what went wrong
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ExitCode maps an error to the process exit status:
// 0 for nil, 2 for usage problems, 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var validation *ValidationError
	if errors.As(err, &validation) || errors.Is(err, gateway.ErrInvalidFile) {
		return 2
	}
	return 1
}

// FormatError returns a user-friendly error message.
// It prefixes the error with "error: " for consistent CLI output. Remote
// failures already carry a user-facing message and are printed as is.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	if state.IsOpError(err) {
		return "error: " + err.Error()
	}
	if msg := gateway.Message(err); msg != "" {
		return "error: " + msg
	}
	return "error: " + err.Error()
}

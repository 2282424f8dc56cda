package state

import (
	"errors"
	"fmt"

	"github.com/jacksmith/kanban/internal/gateway"
)

// Op names a store operation.
type Op string

const (
	OpFetchProjects Op = "fetch projects"
	OpFetchProject  Op = "fetch project"
	OpUploadProject Op = "upload project"
	OpDeleteProject Op = "delete project"
	OpFetchTasks    Op = "fetch tasks"
	OpUpdateTask    Op = "update task"
	OpDeleteTask    Op = "delete task"
)

// fallbackMessages is used when a gateway failure carries no message.
var fallbackMessages = map[Op]string{
	OpFetchProjects: "Failed to fetch projects",
	OpFetchProject:  "Failed to fetch project",
	OpUploadProject: "Upload failed: %v",
	OpDeleteProject: "Failed to delete project",
	OpFetchTasks:    "Failed to fetch tasks",
	OpUpdateTask:    "Failed to update task",
	OpDeleteTask:    "Failed to delete task",
}

// FallbackMessage returns the text recorded for a failure of op whose cause
// carries no server message.
func FallbackMessage(op Op, cause error) string {
	msg, ok := fallbackMessages[op]
	if !ok {
		return fmt.Sprintf("%s failed", op)
	}
	if op == OpUploadProject {
		return fmt.Sprintf(msg, errorText(cause))
	}
	return msg
}

// userMessage prefers the server-provided message over the fallback.
func userMessage(op Op, cause error) string {
	if msg := gateway.Message(cause); msg != "" {
		return msg
	}
	return FallbackMessage(op, cause)
}

// OpError is returned by store operations whose remote call failed.
// Its message is the one recorded in the store's error observable.
type OpError struct {
	Op      Op
	Message string
	Err     error
}

func (e *OpError) Error() string {
	return e.Message
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// IsOpError reports whether err came from a failed remote call
// (as opposed to a local precondition failure).
func IsOpError(err error) bool {
	var opErr *OpError
	return errors.As(err, &opErr)
}

// errorText returns the text of the underlying failure.
func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

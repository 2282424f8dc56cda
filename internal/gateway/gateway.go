// Package gateway defines the contract the state stores require from the
// remote board service, and an HTTP implementation of it.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jacksmith/kanban/internal/model"
)

// Gateway performs the network calls behind the state stores.
// Every method returns a *Error on remote failure.
type Gateway interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	GetProject(ctx context.Context, id int64) (*model.Project, error)
	UploadProject(ctx context.Context, file *File) (*UploadResult, error)
	DeleteProject(ctx context.Context, id int64) error
	ListTasksForProject(ctx context.Context, projectID int64) ([]model.Task, error)
	UpdateTask(ctx context.Context, id int64, patch model.TaskUpdate) (model.TaskUpdate, error)
	DeleteTask(ctx context.Context, id int64) error
}

// ErrInvalidFile is returned when an upload is attempted with a malformed file.
var ErrInvalidFile = errors.New("invalid file provided")

// File is a named binary payload to upload.
type File struct {
	Name        string
	ContentType string // optional, e.g. "text/markdown"
	Content     io.Reader
}

// Validate checks that f can be encoded for upload.
func (f *File) Validate() error {
	if f == nil || strings.TrimSpace(f.Name) == "" || f.Content == nil {
		return ErrInvalidFile
	}
	return nil
}

// UploadResult is the server's answer to a project upload.
type UploadResult struct {
	Message      string        `json:"message"`
	Project      model.Project `json:"project"`
	TasksCreated int           `json:"tasks_created"`
}

// Error is the normalized failure of a gateway call.
// Message is the human-readable text supplied by the server, if any.
type Error struct {
	Status  int    // HTTP status, 0 when no response was received
	Message string // server-provided message, may be empty
	Err     error  // underlying transport or decoding error, may be nil
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	case e.Status != 0:
		return fmt.Sprintf("request failed with status %d", e.Status)
	default:
		return "request failed"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the server-provided message carried by err, or "" if
// err is not a gateway failure or carries no message.
func Message(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return ""
}

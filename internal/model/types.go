// Package model defines the core data structures for kanban.
package model

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus represents the column a task sits in on the board.
type TaskStatus string

const (
	TaskStatusWaiting    TaskStatus = "waiting"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusTesting    TaskStatus = "testing"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Statuses lists every valid task status in board order.
var Statuses = []TaskStatus{
	TaskStatusWaiting,
	TaskStatusInProgress,
	TaskStatusTesting,
	TaskStatusCompleted,
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus converts a status name to a TaskStatus.
// Hyphens are accepted in place of underscores ("in-progress").
func ParseStatus(name string) (TaskStatus, error) {
	s := TaskStatus(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q", name)
	}
	return s, nil
}

// Project represents a board uploaded from a markdown file.
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Tasks is only populated by endpoints that embed them (upload).
	Tasks []Task `json:"tasks,omitempty"`
}

// Task represents a single card on a project board.
// Task IDs are unique across all projects.
type Task struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskUpdate is a partial task. A nil field is absent.
// It doubles as the patch sent to the server and as the decoded
// subset of fields the server answers with.
type TaskUpdate struct {
	ProjectID   *int64      `json:"project_id,omitempty"`
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	Position    *int        `json:"position,omitempty"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}

// IsEmpty returns true if no field is set.
func (u TaskUpdate) IsEmpty() bool {
	return u.ProjectID == nil && u.Title == nil && u.Description == nil &&
		u.Status == nil && u.Position == nil && u.UpdatedAt == nil
}

// Merge returns a copy of t with every field present in u applied.
// Fields absent from u keep their current value. The ID is never changed.
func (t Task) Merge(u TaskUpdate) Task {
	if u.ProjectID != nil {
		t.ProjectID = *u.ProjectID
	}
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Position != nil {
		t.Position = *u.Position
	}
	if u.UpdatedAt != nil {
		t.UpdatedAt = *u.UpdatedAt
	}
	return t
}

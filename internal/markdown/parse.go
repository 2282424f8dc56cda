// Package markdown turns a markdown document into a project board.
//
// The document format is:
//
//	# Project name
//
//	## First task
//	Description lines...
//
//	## Second task
//
// Every "## " heading starts a task; the non-blank lines that follow it,
// up to the next heading, become its description.
package markdown

import (
	"bufio"
	"errors"
	"path/filepath"
	"strings"

	"github.com/jacksmith/kanban/internal/model"
)

// Errors returned by Parse.
var (
	ErrNoProjectName = errors.New("project name not found (missing # Header)")
	ErrNoTasks       = errors.New("no tasks found (missing ## Headers)")
)

// Board is a parsed markdown document.
type Board struct {
	ProjectName string
	Tasks       []TaskSpec
}

// TaskSpec is a task as written in the document.
type TaskSpec struct {
	Title       string
	Description string
}

// Parse reads a board from markdown content.
// A later "# " heading overrides an earlier one.
func Parse(content string) (*Board, error) {
	board := &Board{}
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current *TaskSpec
	var description []string

	flush := func() {
		if current == nil {
			return
		}
		current.Description = strings.TrimSpace(strings.Join(description, "\n"))
		board.Tasks = append(board.Tasks, *current)
		description = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "# "):
			board.ProjectName = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		case strings.HasPrefix(trimmed, "## "):
			flush()
			current = &TaskSpec{Title: strings.TrimSpace(strings.TrimPrefix(trimmed, "## "))}
		case current != nil && trimmed != "":
			description = append(description, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	if board.ProjectName == "" {
		return nil, ErrNoProjectName
	}
	if len(board.Tasks) == 0 {
		return nil, ErrNoTasks
	}
	return board, nil
}

// NewTasks converts the board's task specs into waiting tasks of
// projectID, positioned sequentially from start.
func (b *Board) NewTasks(projectID int64, start int) []model.Task {
	tasks := make([]model.Task, len(b.Tasks))
	for i, spec := range b.Tasks {
		tasks[i] = model.Task{
			ProjectID:   projectID,
			Title:       spec.Title,
			Description: spec.Description,
			Status:      model.TaskStatusWaiting,
			Position:    start + i,
		}
	}
	return tasks
}

// IsMarkdownFile reports whether name has a markdown extension.
func IsMarkdownFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".markdown"
}

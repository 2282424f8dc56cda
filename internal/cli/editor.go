package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/jacksmith/kanban/internal/model"
)

// ErrEmptyTitle is returned when edited task text has no title line.
var ErrEmptyTitle = errors.New("task title must not be empty")

// EditInEditor opens content in $VISUAL or $EDITOR and returns what was saved.
// The suffix names the temp file type (".md" gets markdown highlighting).
func EditInEditor(content []byte, suffix string) ([]byte, error) {
	editor := getEditor()
	if editor == "" {
		return nil, fmt.Errorf("EDITOR not set. Set it or pass --title/--description instead")
	}

	tmpFile, err := os.CreateTemp("", "kanban-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := runEditor(editor, tmpPath); err != nil {
		return nil, err
	}

	result, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}
	return result, nil
}

// TaskText renders a task for editing: the title on the first line, a blank
// line, then the description.
func TaskText(task model.Task) []byte {
	var b strings.Builder
	b.WriteString(task.Title)
	b.WriteString("\n\n")
	if task.Description != "" {
		b.WriteString(task.Description)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// ParseTaskText is the inverse of TaskText. Leading blank lines are skipped;
// the description is everything after the title, trimmed.
func ParseTaskText(text []byte) (title, description string, err error) {
	content := strings.TrimLeft(strings.ReplaceAll(string(text), "\r\n", "\n"), "\n \t")
	title, rest, _ := strings.Cut(content, "\n")
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", ErrEmptyTitle
	}
	return title, strings.TrimSpace(rest), nil
}

// getEditor checks VISUAL first, then EDITOR.
func getEditor() string {
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	return os.Getenv("EDITOR")
}

// runEditor executes the editor with the given file path. The editor
// string may carry arguments ("code --wait").
func runEditor(editor, path string) error {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("empty editor command")
	}

	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jacksmith/kanban/internal/config"
	"github.com/jacksmith/kanban/internal/model"
	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

var colorEnabled = IsTerminal(os.Stdout)

// SetColorEnabled overrides terminal detection.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// ColorEnabled returns whether color output is currently enabled.
func ColorEnabled() bool {
	return colorEnabled
}

// ApplyColorMode sets color output from a config mode. "auto" defers to
// terminal detection on w.
func ApplyColorMode(mode string, w io.Writer) {
	switch mode {
	case config.ColorAlways:
		colorEnabled = true
	case config.ColorNever:
		colorEnabled = false
	default:
		colorEnabled = IsTerminal(w)
	}
}

// IsTerminal returns true if w is a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + colorReset
}

// Green returns s in green if colors are enabled.
func Green(s string) string { return paint(colorGreen, s) }

// Red returns s in red if colors are enabled.
func Red(s string) string { return paint(colorRed, s) }

// Yellow returns s in yellow if colors are enabled.
func Yellow(s string) string { return paint(colorYellow, s) }

// Blue returns s in blue if colors are enabled.
func Blue(s string) string { return paint(colorBlue, s) }

// Gray returns s in gray if colors are enabled.
func Gray(s string) string { return paint(colorGray, s) }

// StatusLabel renders a task status with its board column color.
func StatusLabel(s model.TaskStatus) string {
	switch s {
	case model.TaskStatusWaiting:
		return Gray(string(s))
	case model.TaskStatusInProgress:
		return Blue(string(s))
	case model.TaskStatusTesting:
		return Yellow(string(s))
	case model.TaskStatusCompleted:
		return Green(string(s))
	default:
		return Red(string(s))
	}
}

// DefaultMaxTitleWidth is the default maximum visible width for title columns.
const DefaultMaxTitleWidth = 60

// Table formats columnar output with automatic column width calculation.
type Table struct {
	rows      [][]string
	colWidths []int
	maxWidths map[int]int
}

// NewTable creates a new empty table.
func NewTable() *Table {
	return &Table{maxWidths: make(map[int]int)}
}

// SetMaxWidth caps the visible width of a column. Longer cells are
// truncated with "...".
func (t *Table) SetMaxWidth(col, maxWidth int) {
	t.maxWidths[col] = maxWidth
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	for len(t.colWidths) < len(cols) {
		t.colWidths = append(t.colWidths, 0)
	}
	for i, col := range cols {
		width := visibleWidth(col)
		if maxW, ok := t.maxWidths[i]; ok && width > maxW {
			width = maxW
		}
		t.colWidths[i] = max(t.colWidths[i], width)
	}
	t.rows = append(t.rows, cols)
}

// Len returns the number of rows added so far.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table to w with columns separated by two spaces.
// The last column is never padded.
func (t *Table) Render(w io.Writer) {
	for _, row := range t.rows {
		parts := make([]string, len(row))
		for i, col := range row {
			if maxW, ok := t.maxWidths[i]; ok {
				col = Truncate(col, maxW)
			}
			if i < len(row)-1 {
				col += strings.Repeat(" ", t.colWidths[i]-visibleWidth(col))
			}
			parts[i] = col
		}
		fmt.Fprintln(w, strings.Join(parts, "  "))
	}
}

// Truncate cuts s to maxWidth visible characters, ending in "..." when
// there is room for it. ANSI escapes are kept and closed with a reset.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if visibleWidth(s) <= maxWidth {
		return s
	}

	const ellipsis = "..."
	limit, tail := maxWidth, ""
	if maxWidth >= len(ellipsis) {
		limit, tail = maxWidth-len(ellipsis), ellipsis
	}

	var b strings.Builder
	visible := 0
	inEscape, hasAnsi := false, false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape, hasAnsi = true, true
		case inEscape:
			inEscape = r != 'm'
		case visible >= limit:
			continue
		default:
			visible++
		}
		b.WriteRune(r)
	}
	b.WriteString(tail)
	if hasAnsi && tail != "" {
		b.WriteString(colorReset)
	}
	return b.String()
}

// visibleWidth returns the visible width of s, excluding ANSI escape codes.
func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			inEscape = r != 'm'
		default:
			width++
		}
	}
	return width
}

package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/jacksmith/kanban/internal/config"
	"github.com/jacksmith/kanban/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestIsTerminal(t *testing.T) {
	f, err := os.CreateTemp("", "test")
	if err != nil {
		t.Skip("cannot create temp file")
	}
	defer os.Remove(f.Name())
	defer f.Close()

	assert.False(t, IsTerminal(f), "temp file should not be a terminal")

	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf), "bytes.Buffer should not be a terminal")
}

func TestColorFunctions(t *testing.T) {
	SetColorEnabled(true)
	defer SetColorEnabled(false)

	assert.Equal(t, "\033[32mtest\033[0m", Green("test"))
	assert.Equal(t, "\033[31mtest\033[0m", Red("test"))
	assert.Equal(t, "\033[33mtest\033[0m", Yellow("test"))
	assert.Equal(t, "\033[34mtest\033[0m", Blue("test"))
	assert.Equal(t, "\033[90mtest\033[0m", Gray("test"))

	SetColorEnabled(false)
	assert.Equal(t, "test", Green("test"))
	assert.Equal(t, "test", Blue("test"))
}

func TestApplyColorMode(t *testing.T) {
	defer SetColorEnabled(false)
	var buf bytes.Buffer

	ApplyColorMode(config.ColorAlways, &buf)
	assert.True(t, ColorEnabled())

	ApplyColorMode(config.ColorNever, &buf)
	assert.False(t, ColorEnabled())

	SetColorEnabled(true)
	ApplyColorMode(config.ColorAuto, &buf)
	assert.False(t, ColorEnabled(), "a buffer is not a terminal")
}

func TestStatusLabel(t *testing.T) {
	SetColorEnabled(false)
	for _, s := range model.Statuses {
		assert.Equal(t, string(s), StatusLabel(s))
	}

	SetColorEnabled(true)
	defer SetColorEnabled(false)
	assert.Equal(t, Green("completed"), StatusLabel(model.TaskStatusCompleted))
	assert.Equal(t, Blue("in_progress"), StatusLabel(model.TaskStatusInProgress))
	assert.Equal(t, Red("bogus"), StatusLabel("bogus"))
}

func TestTableEmpty(t *testing.T) {
	table := NewTable()
	var buf bytes.Buffer
	table.Render(&buf)
	assert.Equal(t, "", buf.String())
	assert.Equal(t, 0, table.Len())
}

func TestTableColumnAlignment(t *testing.T) {
	table := NewTable()
	table.AddRow("1", "waiting", "Set up repository")
	table.AddRow("2", "in_progress", "Write parser")
	table.AddRow("100", "completed", "Ship it")

	var buf bytes.Buffer
	table.Render(&buf)

	expected := "1    waiting      Set up repository\n" +
		"2    in_progress  Write parser\n" +
		"100  completed    Ship it\n"
	assert.Equal(t, expected, buf.String())
	assert.Equal(t, 3, table.Len())
}

func TestTableWithColoredText(t *testing.T) {
	SetColorEnabled(true)
	defer SetColorEnabled(false)

	table := NewTable()
	table.AddRow("1", StatusLabel(model.TaskStatusCompleted), "Done")
	table.AddRow("2", StatusLabel(model.TaskStatusWaiting), "Pending")

	var buf bytes.Buffer
	table.Render(&buf)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	// "completed" is 9 wide, so "waiting" gets two spaces of padding plus the separator.
	assert.Contains(t, lines[1], Gray("waiting")+"    Pending")
}

func TestVisibleWidth(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"hello", 5},
		{"", 0},
		{"\033[32mhello\033[0m", 5},
		{"\033[31m\033[0m", 0},
		{"a\033[32mb\033[0mc", 3},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, visibleWidth(tt.input))
		})
	}
}

func TestTruncatePlainText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"no truncation needed", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"truncated", "hello world", 8, "hello..."},
		{"very short max", "hello world", 3, "..."},
		{"max 1", "hello", 1, "h"},
		{"max 0", "hello", 0, ""},
		{"empty string", "", 10, ""},
		{"long title", strings.Repeat("x", 100), 20, strings.Repeat("x", 17) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxWidth)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, visibleWidth(got), tt.maxWidth)
		})
	}
}

func TestTruncateWithANSI(t *testing.T) {
	SetColorEnabled(true)
	defer SetColorEnabled(false)

	got := Truncate(Green("hello world"), 8)
	assert.Equal(t, 8, visibleWidth(got))
	assert.Contains(t, got, "hello...")
	assert.True(t, strings.HasSuffix(got, colorReset), "should end with ANSI reset")

	short := Green("hi")
	assert.Equal(t, short, Truncate(short, 10))
}

func TestTableSetMaxWidth(t *testing.T) {
	table := NewTable()
	table.SetMaxWidth(1, 10)

	table.AddRow("1", strings.Repeat("x", 100), "end")
	table.AddRow("2", "short", "end")

	var buf bytes.Buffer
	table.Render(&buf)

	expected := "1  xxxxxxx...  end\n" +
		"2  short       end\n"
	assert.Equal(t, expected, buf.String())
}

func TestTableUnevenRows(t *testing.T) {
	table := NewTable()
	table.AddRow("a", "b", "c")
	table.AddRow("d", "e")

	var buf bytes.Buffer
	table.Render(&buf)
	assert.Equal(t, "a  b  c\nd  e\n", buf.String())
}

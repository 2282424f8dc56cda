package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jacksmith/kanban/internal/cli"
	"github.com/jacksmith/kanban/internal/model"
	"github.com/jacksmith/kanban/internal/state"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <task-id>",
	Short: "Update fields of a task",
	Long: `Update one or more fields of a task. Only the flags given are sent.

Examples:
  kanban set 12 --status in_progress
  kanban set 12 -s comp
  kanban set 12 --title "Write the parser" --position 0`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

var (
	setStatus      string
	setTitle       string
	setDescription string
	setPosition    int
)

func init() {
	setCmd.Flags().StringVarP(&setStatus, "status", "s", "", "move the task to this column (unique prefix allowed)")
	setCmd.Flags().StringVar(&setTitle, "title", "", "set the task title")
	setCmd.Flags().StringVar(&setDescription, "description", "", "set the task description")
	setCmd.Flags().IntVar(&setPosition, "position", 0, "set the task position")
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	taskID, err := parseID("task-id", args[0])
	if err != nil {
		return err
	}

	var patch model.TaskUpdate
	flags := cmd.Flags()
	if flags.Changed("status") {
		status, err := cli.MatchStatus(setStatus)
		if err != nil {
			return err
		}
		patch.Status = &status
	}
	if flags.Changed("title") {
		if setTitle == "" {
			return &cli.ValidationError{Field: "title", Message: "must not be empty"}
		}
		patch.Title = &setTitle
	}
	if flags.Changed("description") {
		patch.Description = &setDescription
	}
	if flags.Changed("position") {
		if setPosition < 0 {
			return &cli.ValidationError{Field: "position", Message: "must not be negative"}
		}
		patch.Position = &setPosition
	}

	return updateTask(cmd.Context(), currentApp(), cmd.OutOrStdout(), taskID, patch)
}

func updateTask(ctx context.Context, app *state.App, w io.Writer, taskID int64, patch model.TaskUpdate) error {
	if patch.IsEmpty() {
		return &cli.ValidationError{Message: "nothing to update: pass --status, --title, --description or --position"}
	}

	updated, err := app.Tasks.UpdateTask(ctx, taskID, patch)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Updated task %d\n", taskID)
	if updated.Title != nil {
		fmt.Fprintf(w, "  title:    %s\n", *updated.Title)
	}
	if updated.Status != nil {
		fmt.Fprintf(w, "  status:   %s\n", cli.StatusLabel(*updated.Status))
	}
	if updated.Position != nil {
		fmt.Fprintf(w, "  position: %d\n", *updated.Position)
	}
	return nil
}

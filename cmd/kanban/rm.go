package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jacksmith/kanban/internal/cli"
	"github.com/jacksmith/kanban/internal/state"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <task-id>",
	Short: "Delete a task",
	Long: `Delete a task. The owning project must be given with --project.

Example:
  kanban rm 12 --project 3`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

var rmProject int64

func init() {
	rmCmd.Flags().Int64VarP(&rmProject, "project", "p", 0, "id of the project owning the task (required)")
	rmCmd.MarkFlagRequired("project")
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	taskID, err := parseID("task-id", args[0])
	if err != nil {
		return err
	}
	if rmProject <= 0 {
		return &cli.ValidationError{Field: "project", Message: "must be a positive number"}
	}
	return deleteTask(cmd.Context(), currentApp(), cmd.OutOrStdout(), taskID, rmProject)
}

func deleteTask(ctx context.Context, app *state.App, w io.Writer, taskID, projectID int64) error {
	if err := app.Tasks.DeleteTask(ctx, taskID, projectID); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted task %d\n", taskID)
	return nil
}

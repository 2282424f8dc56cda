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

var editCmd = &cobra.Command{
	Use:   "edit <task-id>",
	Short: "Edit a task's title and description in $EDITOR",
	Long: `Open a task in $VISUAL or $EDITOR.

The first line is the title; everything after it is the description.
Only changed fields are sent to the server.

Example:
  kanban edit 12 --project 3`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var editProject int64

func init() {
	editCmd.Flags().Int64VarP(&editProject, "project", "p", 0, "id of the project owning the task (required)")
	editCmd.MarkFlagRequired("project")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	taskID, err := parseID("task-id", args[0])
	if err != nil {
		return err
	}
	if editProject <= 0 {
		return &cli.ValidationError{Field: "project", Message: "must be a positive number"}
	}
	edit := func(content []byte) ([]byte, error) {
		return cli.EditInEditor(content, ".md")
	}
	return editTask(cmd.Context(), currentApp(), cmd.OutOrStdout(), taskID, editProject, edit)
}

// editTask loads the task from its project, passes its text through edit
// and sends back whatever changed.
func editTask(ctx context.Context, app *state.App, w io.Writer, taskID, projectID int64, edit func([]byte) ([]byte, error)) error {
	tasks, err := app.Tasks.FetchForProject(ctx, projectID)
	if err != nil {
		return err
	}

	var task *model.Task
	for i := range tasks {
		if tasks[i].ID == taskID {
			task = &tasks[i]
			break
		}
	}
	if task == nil {
		return &cli.NotFoundError{Type: "task", ID: taskID}
	}

	edited, err := edit(cli.TaskText(*task))
	if err != nil {
		return err
	}
	title, description, err := cli.ParseTaskText(edited)
	if err != nil {
		return err
	}

	var patch model.TaskUpdate
	if title != task.Title {
		patch.Title = &title
	}
	if description != task.Description {
		patch.Description = &description
	}
	if patch.IsEmpty() {
		fmt.Fprintln(w, "No changes.")
		return nil
	}
	return updateTask(ctx, app, w, taskID, patch)
}

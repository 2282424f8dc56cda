package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/jacksmith/kanban/internal/cli"
	"github.com/jacksmith/kanban/internal/model"
	"github.com/jacksmith/kanban/internal/state"
	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks <project-id>",
	Short: "List the tasks of a project",
	Long: `List the tasks of a project in board order.

Use --status to show a single column. Status names may be abbreviated
to any unique prefix.

Examples:
  kanban tasks 3
  kanban tasks 3 --status in_progress
  kanban tasks 3 --status comp`,
	Args: cobra.ExactArgs(1),
	RunE: runTasks,
}

var tasksStatus string

func init() {
	tasksCmd.Flags().StringVarP(&tasksStatus, "status", "s", "", "only show tasks with this status")
	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	projectID, err := parseID("project-id", args[0])
	if err != nil {
		return err
	}

	var filter model.TaskStatus
	if tasksStatus != "" {
		if filter, err = cli.MatchStatus(tasksStatus); err != nil {
			return err
		}
	}
	return listTasks(cmd.Context(), currentApp(), cmd.OutOrStdout(), projectID, filter)
}

// listTasks prints the tasks of projectID. An empty filter shows all.
func listTasks(ctx context.Context, app *state.App, w io.Writer, projectID int64, filter model.TaskStatus) error {
	tasks, err := app.Tasks.FetchForProject(ctx, projectID)
	if err != nil {
		return err
	}

	table := cli.NewTable()
	table.SetMaxWidth(3, cli.DefaultMaxTitleWidth)
	for _, t := range tasks {
		if filter != "" && t.Status != filter {
			continue
		}
		table.AddRow(strconv.FormatInt(t.ID, 10), cli.StatusLabel(t.Status), strconv.Itoa(t.Position), t.Title)
	}

	if table.Len() == 0 {
		fmt.Fprintln(w, "No tasks found.")
	} else {
		table.Render(w)
	}

	stats := model.Stats(tasks)
	fmt.Fprintln(w, cli.Gray(fmt.Sprintf("%d/%d completed (%d%%)", stats.Completed, stats.Total, stats.CompletionRate())))
	return nil
}

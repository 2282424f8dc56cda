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

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage a project",
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show a project's board, one column per status",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectRmCmd = &cobra.Command{
	Use:     "rm <project-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a project and its tasks",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectRm,
}

func init() {
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectRmCmd)
	rootCmd.AddCommand(projectCmd)
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	id, err := parseID("project-id", args[0])
	if err != nil {
		return err
	}
	return showProject(cmd.Context(), currentApp(), cmd.OutOrStdout(), id)
}

// showProject prints the project header and its tasks grouped by column.
// Empty columns are listed so the board shape stays visible.
func showProject(ctx context.Context, app *state.App, w io.Writer, id int64) error {
	project, err := app.Projects.FetchByID(ctx, id)
	if err != nil {
		return err
	}
	tasks, err := app.Tasks.FetchForProject(ctx, id)
	if err != nil {
		return err
	}

	stats := model.Stats(tasks)
	fmt.Fprintf(w, "%s (#%d)  %d/%d completed (%d%%)\n", project.Name, project.ID, stats.Completed, stats.Total, stats.CompletionRate())

	columns := model.ByStatus(tasks)
	for _, status := range model.Statuses {
		column := columns[status]
		fmt.Fprintf(w, "\n%s (%d)\n", cli.StatusLabel(status), len(column))
		if len(column) == 0 {
			continue
		}
		table := cli.NewTable()
		table.SetMaxWidth(1, cli.DefaultMaxTitleWidth)
		for _, t := range column {
			table.AddRow("  "+strconv.FormatInt(t.ID, 10), t.Title)
		}
		table.Render(w)
	}
	return nil
}

func runProjectRm(cmd *cobra.Command, args []string) error {
	id, err := parseID("project-id", args[0])
	if err != nil {
		return err
	}
	return deleteProject(cmd.Context(), currentApp(), cmd.OutOrStdout(), id)
}

func deleteProject(ctx context.Context, app *state.App, w io.Writer, id int64) error {
	if err := app.Projects.DeleteByID(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted project %d\n", id)
	return nil
}

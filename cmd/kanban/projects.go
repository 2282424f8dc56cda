package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jacksmith/kanban/internal/cli"
	"github.com/jacksmith/kanban/internal/model"
	"github.com/jacksmith/kanban/internal/state"
	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List all projects",
	Long: `List all projects on the board server with their progress.

Each row shows the project id, its name, completed/total tasks and the
completion rate.`,
	Args: cobra.NoArgs,
	RunE: runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	return listProjects(cmd.Context(), currentApp(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// listProjects prints one row per project. A project whose tasks cannot be
// fetched is still listed, without stats, and the failure goes to errW.
func listProjects(ctx context.Context, app *state.App, w, errW io.Writer) error {
	app.Projects.FetchAll(ctx)
	if msg := app.Projects.Err().Get(); msg != "" {
		return errors.New(msg)
	}

	projects := app.Projects.Items().Get()
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return nil
	}

	table := cli.NewTable()
	table.SetMaxWidth(1, cli.DefaultMaxTitleWidth)
	for _, p := range projects {
		id := strconv.FormatInt(p.ID, 10)
		tasks, err := app.Tasks.FetchForProject(ctx, p.ID)
		if err != nil {
			fmt.Fprintf(errW, "warning: stats for project %d: %v\n", p.ID, err)
			table.AddRow(id, p.Name, cli.Gray("-"), cli.Gray("-"))
			continue
		}
		stats := model.Stats(tasks)
		table.AddRow(
			id,
			p.Name,
			fmt.Sprintf("%d/%d", stats.Completed, stats.Total),
			formatRate(stats.CompletionRate()),
		)
	}
	table.Render(w)
	return nil
}

func formatRate(rate int) string {
	s := fmt.Sprintf("%d%%", rate)
	switch {
	case rate == 100:
		return cli.Green(s)
	case rate == 0:
		return cli.Gray(s)
	default:
		return cli.Yellow(s)
	}
}

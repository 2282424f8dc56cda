package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jacksmith/kanban/internal/gateway"
	"github.com/jacksmith/kanban/internal/markdown"
	"github.com/jacksmith/kanban/internal/state"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.md>",
	Short: "Upload a markdown board",
	Long: `Upload a markdown file as a project.

The "# " header names the project and every "## " header becomes a task
in the waiting column. Uploading to an existing project name appends
its tasks.

Example:
  kanban upload roadmap.md`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	return uploadFile(cmd.Context(), currentApp(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
}

// uploadFile uploads the file at path. Progress goes to errW while the
// store reports the upload as loading.
func uploadFile(ctx context.Context, app *state.App, w, errW io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	contentType := "application/octet-stream"
	if markdown.IsMarkdownFile(path) {
		contentType = "text/markdown"
	}

	name := filepath.Base(path)
	unsubscribe := app.Projects.Loading().Subscribe(func(loading bool) {
		if loading {
			fmt.Fprintf(errW, "Uploading %s...\n", name)
		}
	})
	defer unsubscribe()

	result, err := app.Projects.Upload(ctx, &gateway.File{
		Name:        name,
		ContentType: contentType,
		Content:     f,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(w, result.Message)
	fmt.Fprintf(w, "Project %d %q: %d tasks created\n", result.Project.ID, result.Project.Name, result.TasksCreated)
	return nil
}

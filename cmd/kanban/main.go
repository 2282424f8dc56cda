// Package main is the entry point for the kanban CLI.
package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/kanban/internal/cli"
	"github.com/jacksmith/kanban/internal/config"
	"github.com/jacksmith/kanban/internal/gateway"
	"github.com/jacksmith/kanban/internal/state"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(cli.ExitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "kanban",
	Short: "kanban - a markdown-driven project board",
	Long: `kanban manages project boards kept on a board server.

A project is uploaded as a markdown file: the "# " header names the
project and every "## " header becomes a task. Tasks move through the
columns waiting, in_progress, testing and completed.

Run "kanban serve" to start a local board server.`,
	Version:           Version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var (
	flagAPI     string
	flagNoColor bool

	// cfg is loaded before any subcommand runs.
	cfg = config.Default()
)

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("kanban version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "", "board API URL (overrides api_url and $"+config.EnvAPIURL+")")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
}

// loadConfig reads .kanban.yaml from the working directory and applies
// the global flags on top.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(".")
	if err != nil {
		return err
	}
	if flagAPI != "" {
		c.APIURL = flagAPI
	}
	if flagNoColor {
		c.Color = config.ColorNever
	}
	cli.ApplyColorMode(c.Color, cmd.OutOrStdout())
	cfg = c
	return nil
}

// currentApp returns the process-wide stores, talking to the configured API.
func currentApp() *state.App {
	if app := state.Default(); app != nil {
		return app
	}
	return state.Init(gateway.NewClient(cfg.APIURL, gateway.WithUploadTimeout(cfg.UploadTimeout)))
}

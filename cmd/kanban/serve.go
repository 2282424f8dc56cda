package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jacksmith/kanban/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the board server",
	Long: `Run the board API backed by a SQLite database.

Defaults come from the server section of .kanban.yaml.

Examples:
  kanban serve
  kanban serve --addr :9090 --db /tmp/board.db`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr        string
	serveDB          string
	serveLogRequests bool
)

const shutdownTimeout = 5 * time.Second

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path (default from config, ./data/app.db)")
	serveCmd.Flags().BoolVar(&serveLogRequests, "log-requests", false, "log every request")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	sc := cfg.Server
	if serveAddr != "" {
		sc.Addr = serveAddr
	}
	if serveDB != "" {
		sc.DBPath = serveDB
	}
	if serveLogRequests {
		sc.RequestLogging = true
	}

	if sc.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(sc.DBPath), 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := server.OpenStore(sc.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              sc.Addr,
		Handler:           server.New(store, server.Options{RequestLogging: sc.RequestLogging}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server running on %s (database %s)", sc.Addr, sc.DBPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

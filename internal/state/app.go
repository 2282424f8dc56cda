// Package state keeps an in-memory, observable copy of the board's
// projects and tasks in sync with the server.
//
// Each store exposes its collection plus a loading flag and an error
// message as observable values. Every operation raises the loading flag
// and clears the error, calls the gateway, applies the answer to the
// collection, and lowers the flag again whatever the outcome.
//
// Operations are not cancelled by their context: once started, an
// operation runs to completion and applies its result even if the caller
// has stopped waiting. Deadlines are left to the gateway.
package state

import (
	"sync"

	"github.com/jacksmith/kanban/internal/gateway"
)

// App bundles the stores of one process.
type App struct {
	Projects *Projects
	Tasks    *Tasks

	closeOnce sync.Once
}

// New returns an App whose stores share gw.
func New(gw gateway.Gateway) *App {
	return &App{
		Projects: NewProjects(gw),
		Tasks:    NewTasks(gw),
	}
}

// Close drops every subscriber of every store. Cached data stays readable.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.Projects.close()
		a.Tasks.close()
	})
}

var (
	defaultMu  sync.Mutex
	defaultApp *App
)

// Init creates the process-wide App on first call. Later calls return the
// existing App and ignore gw.
func Init(gw gateway.Gateway) *App {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultApp == nil {
		defaultApp = New(gw)
	}
	return defaultApp
}

// Default returns the process-wide App, or nil before Init.
func Default() *App {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultApp
}

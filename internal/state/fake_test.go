package state

import (
	"context"
	"sync"

	"github.com/jacksmith/kanban/internal/gateway"
	"github.com/jacksmith/kanban/internal/model"
)

// fakeGateway is a scripted gateway. Unset funcs fail the call.
type fakeGateway struct {
	mu    sync.Mutex
	calls []string

	listProjects  func(ctx context.Context) ([]model.Project, error)
	getProject    func(ctx context.Context, id int64) (*model.Project, error)
	uploadProject func(ctx context.Context, file *gateway.File) (*gateway.UploadResult, error)
	deleteProject func(ctx context.Context, id int64) error
	listTasks     func(ctx context.Context, projectID int64) ([]model.Task, error)
	updateTask    func(ctx context.Context, id int64, patch model.TaskUpdate) (model.TaskUpdate, error)
	deleteTask    func(ctx context.Context, id int64) error
}

var _ gateway.Gateway = (*fakeGateway)(nil)

var errNotScripted = &gateway.Error{Message: "not scripted"}

func (f *fakeGateway) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) ListProjects(ctx context.Context) ([]model.Project, error) {
	f.record("ListProjects")
	if f.listProjects == nil {
		return nil, errNotScripted
	}
	return f.listProjects(ctx)
}

func (f *fakeGateway) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	f.record("GetProject")
	if f.getProject == nil {
		return nil, errNotScripted
	}
	return f.getProject(ctx, id)
}

func (f *fakeGateway) UploadProject(ctx context.Context, file *gateway.File) (*gateway.UploadResult, error) {
	f.record("UploadProject")
	if f.uploadProject == nil {
		return nil, errNotScripted
	}
	return f.uploadProject(ctx, file)
}

func (f *fakeGateway) DeleteProject(ctx context.Context, id int64) error {
	f.record("DeleteProject")
	if f.deleteProject == nil {
		return errNotScripted
	}
	return f.deleteProject(ctx, id)
}

func (f *fakeGateway) ListTasksForProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	f.record("ListTasksForProject")
	if f.listTasks == nil {
		return nil, errNotScripted
	}
	return f.listTasks(ctx, projectID)
}

func (f *fakeGateway) UpdateTask(ctx context.Context, id int64, patch model.TaskUpdate) (model.TaskUpdate, error) {
	f.record("UpdateTask")
	if f.updateTask == nil {
		return model.TaskUpdate{}, errNotScripted
	}
	return f.updateTask(ctx, id, patch)
}

func (f *fakeGateway) DeleteTask(ctx context.Context, id int64) error {
	f.record("DeleteTask")
	if f.deleteTask == nil {
		return errNotScripted
	}
	return f.deleteTask(ctx, id)
}

// flagRecorder collects every value published by a bool observable.
type flagRecorder struct {
	mu     sync.Mutex
	values []bool
}

func (r *flagRecorder) record(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *flagRecorder) Values() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.values...)
}

func ptr[T any](v T) *T { return &v }

package state

import (
	"context"

	"github.com/jacksmith/kanban/internal/gateway"
	"github.com/jacksmith/kanban/internal/model"
	"github.com/jacksmith/kanban/internal/observable"
)

// Tasks caches task lists keyed by project ID. A missing key means the
// project's tasks were never fetched; an empty list means it has none.
//
// The map held by Items and its slices are never modified in place; every
// change publishes a new map.
type Tasks struct {
	status
	gw    gateway.Gateway
	items *observable.Value[map[int64][]model.Task]
}

// NewTasks returns an empty Tasks store backed by gw.
func NewTasks(gw gateway.Gateway) *Tasks {
	return &Tasks{
		status: newStatus(),
		gw:     gw,
		items:  observable.New(map[int64][]model.Task{}),
	}
}

// Items holds the cached task lists.
func (t *Tasks) Items() *observable.Value[map[int64][]model.Task] {
	return t.items
}

// ForProject returns the cached tasks of a project and whether they were fetched.
func (t *Tasks) ForProject(projectID int64) ([]model.Task, bool) {
	tasks, ok := t.items.Get()[projectID]
	return tasks, ok
}

// FetchForProject replaces the cached list of one project with the
// server's list. Other projects are untouched.
func (t *Tasks) FetchForProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	ctx = context.WithoutCancel(ctx)
	t.begin()
	defer t.end()

	tasks, err := t.gw.ListTasksForProject(ctx, projectID)
	if err != nil {
		return nil, t.fail(OpFetchTasks, err)
	}

	fetched := append([]model.Task{}, tasks...)
	t.items.Update(func(all map[int64][]model.Task) map[int64][]model.Task {
		out := cloneTaskMap(all)
		out[projectID] = fetched
		return out
	})
	return tasks, nil
}

// UpdateTask sends patch to the server and merges the answered fields into
// the cached task. The owning project is not needed: every cached list is
// searched, and a task that is not cached is silently ignored.
func (t *Tasks) UpdateTask(ctx context.Context, taskID int64, patch model.TaskUpdate) (model.TaskUpdate, error) {
	ctx = context.WithoutCancel(ctx)
	t.begin()
	defer t.end()

	updated, err := t.gw.UpdateTask(ctx, taskID, patch)
	if err != nil {
		return model.TaskUpdate{}, t.fail(OpUpdateTask, err)
	}

	t.items.Update(func(all map[int64][]model.Task) map[int64][]model.Task {
		return mergeTask(all, taskID, updated)
	})
	return updated, nil
}

// DeleteTask deletes the task on the server and drops it from the list of
// projectID. The caller must name the owning project.
func (t *Tasks) DeleteTask(ctx context.Context, taskID, projectID int64) error {
	ctx = context.WithoutCancel(ctx)
	t.begin()
	defer t.end()

	if err := t.gw.DeleteTask(ctx, taskID); err != nil {
		return t.fail(OpDeleteTask, err)
	}

	t.items.Update(func(all map[int64][]model.Task) map[int64][]model.Task {
		out := cloneTaskMap(all)
		out[projectID] = removeTask(all[projectID], taskID)
		return out
	})
	return nil
}

// ClearAll forgets every cached task list.
func (t *Tasks) ClearAll() {
	t.items.Set(map[int64][]model.Task{})
}

func (t *Tasks) close() {
	t.status.close()
	t.items.Close()
}

func cloneTaskMap(all map[int64][]model.Task) map[int64][]model.Task {
	out := make(map[int64][]model.Task, len(all)+1)
	for k, v := range all {
		out[k] = v
	}
	return out
}

// mergeTask merges updated into the first task with taskID of every list.
// Lists without a match are shared with the old map.
func mergeTask(all map[int64][]model.Task, taskID int64, updated model.TaskUpdate) map[int64][]model.Task {
	out := cloneTaskMap(all)
	for projectID, tasks := range all {
		for i := range tasks {
			if tasks[i].ID != taskID {
				continue
			}
			list := append([]model.Task{}, tasks...)
			list[i] = list[i].Merge(updated)
			out[projectID] = list
			break
		}
	}
	return out
}

func removeTask(tasks []model.Task, taskID int64) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ID != taskID {
			out = append(out, task)
		}
	}
	return out
}

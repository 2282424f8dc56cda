package state

import (
	"context"

	"github.com/jacksmith/kanban/internal/gateway"
	"github.com/jacksmith/kanban/internal/model"
	"github.com/jacksmith/kanban/internal/observable"
)

// Projects caches the list of projects in server order.
//
// The slice held by Items is never modified in place; every change
// publishes a new slice.
type Projects struct {
	status
	gw    gateway.Gateway
	items *observable.Value[[]model.Project]
}

// NewProjects returns an empty Projects store backed by gw.
func NewProjects(gw gateway.Gateway) *Projects {
	return &Projects{
		status: newStatus(),
		gw:     gw,
		items:  observable.New([]model.Project{}),
	}
}

// Items holds the cached projects.
func (p *Projects) Items() *observable.Value[[]model.Project] {
	return p.items
}

// Get returns the cached project with the given ID.
func (p *Projects) Get(id int64) (model.Project, bool) {
	for _, project := range p.items.Get() {
		if project.ID == id {
			return project, true
		}
	}
	return model.Project{}, false
}

// FetchAll replaces the cached projects with the server's list.
// A failure is only recorded in Err.
func (p *Projects) FetchAll(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	p.begin()
	defer p.end()

	projects, err := p.gw.ListProjects(ctx)
	if err != nil {
		p.fail(OpFetchProjects, err)
		return
	}

	p.items.Set(append([]model.Project{}, projects...))
}

// FetchByID fetches one project and upserts it into the cache.
func (p *Projects) FetchByID(ctx context.Context, id int64) (model.Project, error) {
	ctx = context.WithoutCancel(ctx)
	p.begin()
	defer p.end()

	project, err := p.gw.GetProject(ctx, id)
	if err != nil {
		return model.Project{}, p.fail(OpFetchProject, err)
	}

	p.items.Update(func(projects []model.Project) []model.Project {
		return upsertProject(projects, *project)
	})
	return *project, nil
}

// Upload sends file to the server and upserts the returned project: an
// existing project with the same ID is replaced at its position, a new one
// is appended. A malformed file is rejected with gateway.ErrInvalidFile
// before any state changes.
func (p *Projects) Upload(ctx context.Context, file *gateway.File) (*gateway.UploadResult, error) {
	if err := file.Validate(); err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	p.begin()
	defer p.end()

	result, err := p.gw.UploadProject(ctx, file)
	if err != nil {
		return nil, p.fail(OpUploadProject, err)
	}

	p.items.Update(func(projects []model.Project) []model.Project {
		return upsertProject(projects, result.Project)
	})
	return result, nil
}

// DeleteByID deletes the project on the server and drops it from the cache.
func (p *Projects) DeleteByID(ctx context.Context, id int64) error {
	ctx = context.WithoutCancel(ctx)
	p.begin()
	defer p.end()

	if err := p.gw.DeleteProject(ctx, id); err != nil {
		return p.fail(OpDeleteProject, err)
	}

	p.items.Update(func(projects []model.Project) []model.Project {
		return removeProject(projects, id)
	})
	return nil
}

func (p *Projects) close() {
	p.status.close()
	p.items.Close()
}

func upsertProject(projects []model.Project, project model.Project) []model.Project {
	out := make([]model.Project, len(projects), len(projects)+1)
	copy(out, projects)
	for i := range out {
		if out[i].ID == project.ID {
			out[i] = project
			return out
		}
	}
	return append(out, project)
}

func removeProject(projects []model.Project, id int64) []model.Project {
	out := make([]model.Project, 0, len(projects))
	for _, project := range projects {
		if project.ID != id {
			out = append(out, project)
		}
	}
	return out
}

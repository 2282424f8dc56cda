package state

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jacksmith/kanban/internal/gateway"
	"github.com/jacksmith/kanban/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mdFile(name, content string) *gateway.File {
	return &gateway.File{Name: name, ContentType: "text/markdown", Content: strings.NewReader(content)}
}

func TestProjects_FetchAllReplacesCollection(t *testing.T) {
	responses := [][]model.Project{
		{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Beta"}},
		{{ID: 3, Name: "Gamma"}},
		{},
	}
	call := 0
	gw := &fakeGateway{
		listProjects: func(ctx context.Context) ([]model.Project, error) {
			resp := responses[call]
			call++
			return resp, nil
		},
	}
	p := NewProjects(gw)
	ctx := context.Background()

	p.FetchAll(ctx)
	assert.Equal(t, responses[0], p.Items().Get())

	p.FetchAll(ctx)
	assert.Equal(t, responses[1], p.Items().Get())

	p.FetchAll(ctx)
	assert.Empty(t, p.Items().Get())
	assert.False(t, p.Loading().Get())
	assert.Equal(t, "", p.Err().Get())
}

func TestProjects_FetchAllFailureOnlyRecordsError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "server message is used",
			err:     &gateway.Error{Status: 500, Message: "database is locked"},
			wantMsg: "database is locked",
		},
		{
			name:    "fallback without message",
			err:     &gateway.Error{Err: errors.New("connection refused")},
			wantMsg: "Failed to fetch projects",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{
				listProjects: func(ctx context.Context) ([]model.Project, error) {
					return nil, tt.err
				},
			}
			p := NewProjects(gw)
			p.Items().Set([]model.Project{{ID: 9, Name: "cached"}})

			p.FetchAll(context.Background())

			assert.Equal(t, tt.wantMsg, p.Err().Get())
			assert.False(t, p.Loading().Get())
			assert.Equal(t, []model.Project{{ID: 9, Name: "cached"}}, p.Items().Get())
		})
	}
}

func TestProjects_LoadingToggles(t *testing.T) {
	var rec flagRecorder
	var p *Projects
	var loadingDuringCall bool
	gw := &fakeGateway{
		listProjects: func(ctx context.Context) ([]model.Project, error) {
			loadingDuringCall = p.Loading().Get()
			return nil, nil
		},
	}
	p = NewProjects(gw)
	p.Loading().Subscribe(rec.record)

	p.FetchAll(context.Background())

	assert.True(t, loadingDuringCall)
	assert.Equal(t, []bool{false, true, false}, rec.Values())
}

func TestProjects_UploadUpserts(t *testing.T) {
	ctx := context.Background()
	existing := []model.Project{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Beta"}, {ID: 3, Name: "Gamma"}}

	t.Run("existing ID is replaced in place", func(t *testing.T) {
		updated := model.Project{ID: 2, Name: "Beta", Tasks: []model.Task{{ID: 10, ProjectID: 2}}}
		gw := &fakeGateway{
			uploadProject: func(ctx context.Context, file *gateway.File) (*gateway.UploadResult, error) {
				return &gateway.UploadResult{Message: "Project uploaded successfully", Project: updated, TasksCreated: 1}, nil
			},
		}
		p := NewProjects(gw)
		p.Items().Set(existing)

		result, err := p.Upload(ctx, mdFile("beta.md", "# Beta\n## Task"))
		require.NoError(t, err)

		got := p.Items().Get()
		require.Len(t, got, 3)
		assert.Equal(t, updated, got[1])
		assert.Equal(t, int64(1), got[0].ID)
		assert.Equal(t, int64(3), got[2].ID)
		assert.Equal(t, 1, result.TasksCreated)
		assert.Equal(t, "Project uploaded successfully", result.Message)

		// The previously published slice is left untouched.
		assert.Nil(t, existing[1].Tasks)
	})

	t.Run("new ID is appended", func(t *testing.T) {
		created := model.Project{ID: 4, Name: "Delta"}
		gw := &fakeGateway{
			uploadProject: func(ctx context.Context, file *gateway.File) (*gateway.UploadResult, error) {
				return &gateway.UploadResult{Project: created}, nil
			},
		}
		p := NewProjects(gw)
		p.Items().Set(existing)

		_, err := p.Upload(ctx, mdFile("delta.md", "# Delta"))
		require.NoError(t, err)

		got := p.Items().Get()
		require.Len(t, got, 4)
		assert.Equal(t, created, got[3])
		assert.Len(t, existing, 3)
	})
}

func TestProjects_UploadInvalidFile(t *testing.T) {
	invalid := []struct {
		name string
		file *gateway.File
	}{
		{"nil file", nil},
		{"missing name", &gateway.File{Content: strings.NewReader("# A")}},
		{"missing content", &gateway.File{Name: "a.md"}},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{}
			p := NewProjects(gw)
			p.Err().Set("earlier failure")

			var rec flagRecorder
			p.Loading().Subscribe(rec.record)

			result, err := p.Upload(context.Background(), tt.file)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, gateway.ErrInvalidFile)
			assert.False(t, IsOpError(err))
			assert.Empty(t, gw.Calls())
			assert.Equal(t, []bool{false}, rec.Values(), "loading must never become true")
			assert.Equal(t, "earlier failure", p.Err().Get())
		})
	}
}

func TestProjects_UploadFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "server message",
			err:     &gateway.Error{Status: 400, Message: "Only markdown files (.md) are allowed"},
			wantMsg: "Only markdown files (.md) are allowed",
		},
		{
			name:    "fallback includes underlying error",
			err:     &gateway.Error{Err: context.DeadlineExceeded},
			wantMsg: "Upload failed: context deadline exceeded",
		},
		{
			name:    "fallback for bare status",
			err:     &gateway.Error{Status: 502},
			wantMsg: "Upload failed: request failed with status 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{
				uploadProject: func(ctx context.Context, file *gateway.File) (*gateway.UploadResult, error) {
					return nil, tt.err
				},
			}
			p := NewProjects(gw)

			_, err := p.Upload(context.Background(), mdFile("a.md", "# A"))

			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.wantMsg, p.Err().Get())
			assert.ErrorIs(t, err, tt.err)
			assert.True(t, IsOpError(err))
			assert.False(t, p.Loading().Get())
			assert.Empty(t, p.Items().Get())
		})
	}
}

func TestProjects_DeleteByID(t *testing.T) {
	ctx := context.Background()

	t.Run("removes matching project", func(t *testing.T) {
		var deleted int64
		gw := &fakeGateway{
			deleteProject: func(ctx context.Context, id int64) error {
				deleted = id
				return nil
			},
		}
		p := NewProjects(gw)
		p.Items().Set([]model.Project{{ID: 1}, {ID: 2}, {ID: 3}})

		require.NoError(t, p.DeleteByID(ctx, 2))

		assert.Equal(t, int64(2), deleted)
		assert.Equal(t, []model.Project{{ID: 1}, {ID: 3}}, p.Items().Get())
	})

	t.Run("absent ID leaves collection unchanged", func(t *testing.T) {
		gw := &fakeGateway{
			deleteProject: func(ctx context.Context, id int64) error { return nil },
		}
		p := NewProjects(gw)
		p.Items().Set([]model.Project{{ID: 1}, {ID: 3}})

		require.NoError(t, p.DeleteByID(ctx, 42))

		assert.Equal(t, []model.Project{{ID: 1}, {ID: 3}}, p.Items().Get())
	})

	t.Run("failure is recorded and returned", func(t *testing.T) {
		gw := &fakeGateway{
			deleteProject: func(ctx context.Context, id int64) error {
				return &gateway.Error{Status: 500}
			},
		}
		p := NewProjects(gw)
		p.Items().Set([]model.Project{{ID: 1}})

		err := p.DeleteByID(ctx, 1)

		require.Error(t, err)
		assert.Equal(t, "Failed to delete project", err.Error())
		assert.Equal(t, "Failed to delete project", p.Err().Get())
		assert.Equal(t, []model.Project{{ID: 1}}, p.Items().Get())
		assert.False(t, p.Loading().Get())
	})
}

func TestProjects_ClearErrorIsIdempotent(t *testing.T) {
	p := NewProjects(&fakeGateway{})
	p.FetchAll(context.Background())
	require.Equal(t, "not scripted", p.Err().Get())

	p.ClearError()
	assert.Equal(t, "", p.Err().Get())
	p.ClearError()
	assert.Equal(t, "", p.Err().Get())
}

func TestProjects_StartClearsPreviousError(t *testing.T) {
	var errDuringCall string
	var p *Projects
	gw := &fakeGateway{
		listProjects: func(ctx context.Context) ([]model.Project, error) {
			errDuringCall = p.Err().Get()
			return nil, nil
		},
	}
	p = NewProjects(gw)
	p.Err().Set("stale")

	p.FetchAll(context.Background())

	assert.Equal(t, "", errDuringCall)
	assert.Equal(t, "", p.Err().Get())
}

func TestProjects_Get(t *testing.T) {
	p := NewProjects(&fakeGateway{})
	p.Items().Set([]model.Project{{ID: 1, Name: "Alpha"}})

	got, ok := p.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "Alpha", got.Name)

	_, ok = p.Get(2)
	assert.False(t, ok)
}

func TestProjects_OperationIgnoresCallerCancellation(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var sawCancel bool
	gw := &fakeGateway{
		listProjects: func(ctx context.Context) ([]model.Project, error) {
			close(started)
			<-release
			sawCancel = ctx.Err() != nil
			return []model.Project{{ID: 5}}, nil
		},
	}
	p := NewProjects(gw)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.FetchAll(ctx)
	}()

	<-started
	cancel()
	close(release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("FetchAll did not finish")
	}

	assert.False(t, sawCancel)
	assert.Equal(t, []model.Project{{ID: 5}}, p.Items().Get())
}

func TestProjects_OverlappingFetchAllLastWriterWins(t *testing.T) {
	type reply struct {
		projects []model.Project
		err      error
	}
	gates := []chan reply{make(chan reply), make(chan reply)}
	started := make(chan int, 2)
	var mu = make(chan struct{}, 1)
	next := 0
	gw := &fakeGateway{
		listProjects: func(ctx context.Context) ([]model.Project, error) {
			mu <- struct{}{}
			idx := next
			next++
			<-mu
			started <- idx
			r := <-gates[idx]
			return r.projects, r.err
		},
	}
	p := NewProjects(gw)
	ctx := context.Background()

	doneA := make(chan struct{})
	go func() {
		defer close(doneA)
		p.FetchAll(ctx)
	}()
	require.Equal(t, 0, <-started)

	doneB := make(chan struct{})
	go func() {
		defer close(doneB)
		p.FetchAll(ctx)
	}()
	require.Equal(t, 1, <-started)
	assert.True(t, p.Loading().Get())

	gates[0] <- reply{err: &gateway.Error{Message: "first failed"}}
	<-doneA

	// The first completion lowers the shared flag even though the
	// second call is still outstanding.
	assert.False(t, p.Loading().Get())
	assert.Equal(t, "first failed", p.Err().Get())

	gates[1] <- reply{err: &gateway.Error{Message: "second failed"}}
	<-doneB

	assert.False(t, p.Loading().Get())
	assert.Equal(t, "second failed", p.Err().Get())
}

func TestProjects_OverlappingFetchAllFailureSurvivesLaterSuccess(t *testing.T) {
	gates := []chan error{make(chan error), make(chan error)}
	started := make(chan int, 2)
	calls := make(chan int, 2)
	calls <- 0
	calls <- 1
	gw := &fakeGateway{
		listProjects: func(ctx context.Context) ([]model.Project, error) {
			idx := <-calls
			started <- idx
			if err := <-gates[idx]; err != nil {
				return nil, err
			}
			return []model.Project{{ID: 9, Name: "Fresh"}}, nil
		},
	}
	p := NewProjects(gw)
	ctx := context.Background()

	doneA := make(chan struct{})
	go func() {
		defer close(doneA)
		p.FetchAll(ctx)
	}()
	require.Equal(t, 0, <-started)

	doneB := make(chan struct{})
	go func() {
		defer close(doneB)
		p.FetchAll(ctx)
	}()
	require.Equal(t, 1, <-started)

	gates[0] <- &gateway.Error{Message: "first failed"}
	<-doneA
	gates[1] <- nil
	<-doneB

	// A success never clears the error; only starting an operation does.
	assert.Equal(t, "first failed", p.Err().Get())
	assert.False(t, p.Loading().Get())
	assert.Equal(t, []model.Project{{ID: 9, Name: "Fresh"}}, p.Items().Get())
}

func TestProjects_FetchByIDUpserts(t *testing.T) {
	gw := &fakeGateway{
		listProjects: func(ctx context.Context) ([]model.Project, error) {
			return []model.Project{{ID: 1, Name: "Old"}, {ID: 2, Name: "Beta"}}, nil
		},
		getProject: func(ctx context.Context, id int64) (*model.Project, error) {
			return &model.Project{ID: id, Name: "Renamed"}, nil
		},
	}
	p := NewProjects(gw)
	ctx := context.Background()
	p.FetchAll(ctx)

	project, err := p.FetchByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", project.Name)
	assert.Equal(t, []model.Project{{ID: 1, Name: "Renamed"}, {ID: 2, Name: "Beta"}}, p.Items().Get())

	_, err = p.FetchByID(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, p.Items().Get(), 3)
	assert.False(t, p.Loading().Get())
}

func TestProjects_FetchByIDFailure(t *testing.T) {
	gw := &fakeGateway{
		getProject: func(ctx context.Context, id int64) (*model.Project, error) {
			if id == 1 {
				return nil, &gateway.Error{Status: 404, Message: "Project not found"}
			}
			return nil, &gateway.Error{Status: 502}
		},
	}
	p := NewProjects(gw)
	ctx := context.Background()

	_, err := p.FetchByID(ctx, 1)
	var opErr *OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, OpFetchProject, opErr.Op)
	assert.Equal(t, "Project not found", p.Err().Get())

	_, err = p.FetchByID(ctx, 2)
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch project", p.Err().Get())
	assert.Empty(t, p.Items().Get())
}

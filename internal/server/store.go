package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jacksmith/kanban/internal/markdown"
	"github.com/jacksmith/kanban/internal/model"
)

// ErrNotFound is returned when a project or task does not exist.
var ErrNotFound = errors.New("not found")

// Store persists projects and tasks in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and migrates) the SQLite database at dbPath.
// Use ":memory:" for a throwaway database.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and
	// serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'waiting'
			CHECK(status IN ('waiting', 'in_progress', 'testing', 'completed')),
		position INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_project_id ON tasks(project_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks(project_id, position);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListProjects returns every project in creation order.
func (s *Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at FROM projects ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject returns a project without its tasks.
func (s *Store) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	return getProject(ctx, s.db, `WHERE id = ?`, id)
}

// DeleteProject removes a project; its tasks are removed by cascade.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireAffected(result)
}

// ListTasks returns the tasks of a project ordered by position.
func (s *Store) ListTasks(ctx context.Context, projectID int64) ([]model.Task, error) {
	return listTasks(ctx, s.db, projectID)
}

// GetTask returns a single task.
func (s *Store) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	t := &model.Task{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, title, description, status, position, created_at, updated_at
		FROM tasks WHERE id = ?
	`, id).Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Position, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// SaveTask writes the editable fields of an existing task.
func (s *Store) SaveTask(ctx context.Context, t *model.Task) error {
	t.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, status = ?, position = ?, updated_at = ?
		WHERE id = ?
	`, t.Title, t.Description, t.Status, t.Position, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(result)
}

// DeleteTask removes a single task.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireAffected(result)
}

// ImportBoard stores a parsed board. The project is looked up by name and
// created if missing; the board's tasks are appended after its existing
// tasks. The returned project carries all of its tasks.
func (s *Store) ImportBoard(ctx context.Context, board *markdown.Board) (*model.Project, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	project, err := getProject(ctx, tx, `WHERE name = ?`, board.ProjectName)
	if errors.Is(err, ErrNotFound) {
		project, err = createProject(ctx, tx, board.ProjectName)
	}
	if err != nil {
		return nil, 0, err
	}

	var maxPosition int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), -1) FROM tasks WHERE project_id = ?
	`, project.ID).Scan(&maxPosition)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read task positions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (project_id, title, description, status, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	tasks := board.NewTasks(project.ID, maxPosition+1)
	for _, t := range tasks {
		if _, err := stmt.ExecContext(ctx, t.ProjectID, t.Title, t.Description, t.Status, t.Position, now, now); err != nil {
			return nil, 0, fmt.Errorf("failed to create task: %w", err)
		}
	}

	project.Tasks, err = listTasks(ctx, tx, project.ID)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit: %w", err)
	}
	return project, len(tasks), nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getProject(ctx context.Context, q querier, where string, arg any) (*model.Project, error) {
	p := &model.Project{}
	err := q.QueryRowContext(ctx, `SELECT id, name, created_at, updated_at FROM projects `+where, arg).
		Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func createProject(ctx context.Context, q querier, name string) (*model.Project, error) {
	now := time.Now().UTC()
	result, err := q.ExecContext(ctx, `
		INSERT INTO projects (name, created_at, updated_at) VALUES (?, ?, ?)
	`, name, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return &model.Project{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

func listTasks(ctx context.Context, q querier, projectID int64) ([]model.Task, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, project_id, title, description, status, position, created_at, updated_at
		FROM tasks WHERE project_id = ? ORDER BY position ASC, id ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Position, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

const taskColumns = `id, project_id, sprint_id, title, description, status, assignee, story_points, created_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Project, t.Sprint, t.Title, t.Description, string(t.Status), t.Assignee, t.StoryPoints, t.CreatedAt)
	if err != nil {
		return insertErr("task", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY rowid`, projectID)
}

func (r *SQLiteTaskRepo) ListByAssignee(ctx context.Context, assignee string) ([]*domain.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE assignee = ? ORDER BY rowid`, assignee)
}

func (r *SQLiteTaskRepo) list(ctx context.Context, query string, arg string) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET sprint_id = ?, title = ?, description = ?, status = ?, assignee = ?, story_points = ?
		WHERE id = ?`,
		t.Sprint, t.Title, t.Description, string(t.Status), t.Assignee, t.StoryPoints, t.ID)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return expectOne(res, "task")
}

func (r *SQLiteTaskRepo) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}
	return expectOne(res, "task")
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return expectOne(res, "task")
}

func scanTask(row scanner) (*domain.Task, error) {
	var t domain.Task
	var status string
	err := row.Scan(&t.ID, &t.Project, &t.Sprint, &t.Title, &t.Description, &status, &t.Assignee, &t.StoryPoints, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("task")
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	t.Status = domain.Status(status)
	return &t, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/domain"
)

// SQLiteBacklogRepo implements BacklogRepo.
type SQLiteBacklogRepo struct {
	db db.DBTX
}

func NewSQLiteBacklogRepo(db db.DBTX) *SQLiteBacklogRepo {
	return &SQLiteBacklogRepo{db: db}
}

const backlogColumns = `id, project_id, title, description, priority, status, story_points, created_at`

func (r *SQLiteBacklogRepo) Create(ctx context.Context, b *domain.BacklogItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO backlog_items (`+backlogColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Project, b.Title, b.Description, priorityToValue(b.Priority),
		string(b.Status), b.StoryPoints, b.CreatedAt)
	if err != nil {
		return insertErr("backlog item", err)
	}
	return nil
}

func (r *SQLiteBacklogRepo) GetByID(ctx context.Context, projectID, id string) (*domain.BacklogItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+backlogColumns+` FROM backlog_items WHERE project_id = ? AND id = ?`, projectID, id)
	return scanBacklogItem(row)
}

func (r *SQLiteBacklogRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.BacklogItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+backlogColumns+` FROM backlog_items WHERE project_id = ? ORDER BY rowid`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing backlog items: %w", err)
	}
	defer rows.Close()

	items := []*domain.BacklogItem{}
	for rows.Next() {
		b, err := scanBacklogItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating backlog items: %w", err)
	}
	return items, nil
}

func (r *SQLiteBacklogRepo) Update(ctx context.Context, b *domain.BacklogItem) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE backlog_items SET title = ?, description = ?, priority = ?, status = ?, story_points = ?
		WHERE project_id = ? AND id = ?`,
		b.Title, b.Description, priorityToValue(b.Priority), string(b.Status), b.StoryPoints,
		b.Project, b.ID)
	if err != nil {
		return fmt.Errorf("updating backlog item: %w", err)
	}
	return expectOne(res, "backlog item")
}

func (r *SQLiteBacklogRepo) Delete(ctx context.Context, projectID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM backlog_items WHERE project_id = ? AND id = ?`, projectID, id)
	if err != nil {
		return fmt.Errorf("deleting backlog item: %w", err)
	}
	return expectOne(res, "backlog item")
}

func scanBacklogItem(row scanner) (*domain.BacklogItem, error) {
	b := domain.NewBacklogItem()
	var priority sql.NullInt64
	var status string
	err := row.Scan(&b.ID, &b.Project, &b.Title, &b.Description, &priority, &status, &b.StoryPoints, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("backlog item")
		}
		return nil, fmt.Errorf("scanning backlog item: %w", err)
	}
	b.Priority = priorityFromNull(priority)
	b.Status = domain.Status(status)
	return &b, nil
}

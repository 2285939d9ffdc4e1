package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/domain"
)

// SQLiteSprintRepo implements SprintRepo.
type SQLiteSprintRepo struct {
	db db.DBTX
}

func NewSQLiteSprintRepo(db db.DBTX) *SQLiteSprintRepo {
	return &SQLiteSprintRepo{db: db}
}

const sprintColumns = `id, project_id, name, start_date, end_date, status, milestone, due_date,
	capacity, story_points, story_points_closed`

func (r *SQLiteSprintRepo) Create(ctx context.Context, s *domain.Sprint) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sprints (`+sprintColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.ParentID(), s.Name, s.StartDate, s.EndDate, string(s.Status), s.Milestone, s.DueDate,
		s.Capacity, s.StoryPoints, s.StoryPointsClosed)
	if err != nil {
		return insertErr("sprint", err)
	}
	return nil
}

func (r *SQLiteSprintRepo) GetByID(ctx context.Context, projectID, id string) (*domain.Sprint, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sprintColumns+` FROM sprints WHERE project_id = ? AND id = ?`, projectID, id)
	return scanSprint(row)
}

func (r *SQLiteSprintRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Sprint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sprintColumns+` FROM sprints WHERE project_id = ? ORDER BY rowid`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing sprints: %w", err)
	}
	defer rows.Close()

	sprints := []*domain.Sprint{}
	for rows.Next() {
		s, err := scanSprint(rows)
		if err != nil {
			return nil, err
		}
		sprints = append(sprints, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sprints: %w", err)
	}
	return sprints, nil
}

func (r *SQLiteSprintRepo) Update(ctx context.Context, s *domain.Sprint) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sprints SET name = ?, start_date = ?, end_date = ?, status = ?, milestone = ?, due_date = ?,
		capacity = ?, story_points = ?, story_points_closed = ?
		WHERE project_id = ? AND id = ?`,
		s.Name, s.StartDate, s.EndDate, string(s.Status), s.Milestone, s.DueDate,
		s.Capacity, s.StoryPoints, s.StoryPointsClosed,
		s.ParentID(), s.ID)
	if err != nil {
		return fmt.Errorf("updating sprint: %w", err)
	}
	return expectOne(res, "sprint")
}

func (r *SQLiteSprintRepo) Delete(ctx context.Context, projectID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sprints WHERE project_id = ? AND id = ?`, projectID, id)
	if err != nil {
		return fmt.Errorf("deleting sprint: %w", err)
	}
	return expectOne(res, "sprint")
}

func scanSprint(row scanner) (*domain.Sprint, error) {
	var s domain.Sprint
	var status string
	err := row.Scan(&s.ID, &s.Project, &s.Name, &s.StartDate, &s.EndDate, &status, &s.Milestone, &s.DueDate,
		&s.Capacity, &s.StoryPoints, &s.StoryPointsClosed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("sprint")
		}
		return nil, fmt.Errorf("scanning sprint: %w", err)
	}
	s.ProjectID = s.Project
	s.Status = domain.Status(status)
	return &s, nil
}

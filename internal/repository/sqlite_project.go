package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/db"
	"github.com/alexanderramin/sprintboard/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

const projectColumns = `id, title, name, description, owner, team, created_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Name, p.Description, p.Owner, encodeTeam(p.Team), p.CreatedAt)
	if err != nil {
		return insertErr("project", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []*domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET title = ?, name = ?, description = ?, owner = ?, team = ? WHERE id = ?`,
		p.Title, p.Name, p.Description, p.Owner, encodeTeam(p.Team), p.ID)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return expectOne(res, "project")
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return expectOne(res, "project")
}

func scanProject(row scanner) (*domain.Project, error) {
	var p domain.Project
	var team string
	err := row.Scan(&p.ID, &p.Title, &p.Name, &p.Description, &p.Owner, &team, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("project")
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	p.Team = decodeTeam(team)
	return &p, nil
}

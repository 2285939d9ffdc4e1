package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/sprintboard/internal/db"
)

// SQLiteUserRepo implements UserRepo.
type SQLiteUserRepo struct {
	db db.DBTX
}

func NewSQLiteUserRepo(db db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: db}
}

func (r *SQLiteUserRepo) Create(ctx context.Context, a *Account) error {
	if a.CreatedAt == "" {
		a.CreatedAt = nowUTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.CreatedAt)
	if err != nil {
		return insertErr("user", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`, email)
	return scanAccount(row)
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`, id)
	return scanAccount(row)
}

func scanAccount(row scanner) (*Account, error) {
	var a Account
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &a, nil
}

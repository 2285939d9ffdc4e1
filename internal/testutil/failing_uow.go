package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/alexanderramin/sprintboard/internal/db"
)

// BrokenWriteUoW runs real transactions but fails the first write whose
// statement starts with Prefix (case-insensitive, leading space ignored).
// Reads and other writes reach the database, so a test can check that the
// rolled-back state is what the caller sees afterwards.
type BrokenWriteUoW struct {
	DB     *sql.DB
	Prefix string
	Err    error
}

func (u *BrokenWriteUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &brokenWrites{DBTX: tx, prefix: strings.ToUpper(u.Prefix), err: u.Err})
	})
}

type brokenWrites struct {
	db.DBTX
	prefix string
	err    error
	fired  bool
}

func (b *brokenWrites) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if !b.fired && strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), b.prefix) {
		b.fired = true
		return nil, b.err
	}
	return b.DBTX.ExecContext(ctx, query, args...)
}

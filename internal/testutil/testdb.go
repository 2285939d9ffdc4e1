package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintboard/internal/db"
)

// NewTestDB opens a migrated in-memory database owned by t.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenDB(db.Memory)
	require.NoError(t, err, "opening test database")
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func NewTestUoW(conn *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(conn)
}

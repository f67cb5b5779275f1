package database

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/onewordstory/internal/config"
	"github.com/mcoot/onewordstory/internal/model"
)

// testutil imports this package, so the discard logger is local
func nopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestConnectSQLiteFileAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stories.db")

	db, err := Connect(config.DatabaseConfig{Type: "sqlite", URL: path, MaxOpenConns: 10}, nopLogger())
	require.NoError(t, err)
	defer func() { _ = Close(db) }()

	require.NoError(t, AutoMigrate(db))
	require.NoError(t, Ping(context.Background(), db))

	for _, table := range []any{&model.User{}, &model.Story{}, &model.Participant{}, &model.Word{}, &model.Invitation{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestConnectRejectsUnknownType(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Type: "oracle", URL: "x", MaxOpenConns: 1}, nopLogger())
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestDSNHelpers(t *testing.T) {
	const readCommitted = "transaction_isolation=%27READ-COMMITTED%27"
	assert.Equal(t, "u:p@tcp(h)/db?parseTime=True&loc=UTC&"+readCommitted, mysqlDSN("u:p@tcp(h)/db"))
	assert.Equal(t, "u:p@tcp(h)/db?charset=utf8mb4&parseTime=True&loc=UTC&"+readCommitted, mysqlDSN("u:p@tcp(h)/db?charset=utf8mb4"))
	assert.Equal(t, "u:p@tcp(h)/db?parseTime=true&"+readCommitted, mysqlDSN("u:p@tcp(h)/db?parseTime=true"))
	assert.Equal(t, "u:p@tcp(h)/db?parseTime=true&transaction_isolation=SERIALIZABLE",
		mysqlDSN("u:p@tcp(h)/db?parseTime=true&transaction_isolation=SERIALIZABLE"))

	assert.Equal(t, ":memory:", sqliteDSN(":memory:"))
	assert.Equal(t, "a.db?_pragma=busy_timeout(5000)", sqliteDSN("a.db"))
}

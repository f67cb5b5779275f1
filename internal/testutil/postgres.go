package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/mcoot/onewordstory/internal/config"
	"github.com/mcoot/onewordstory/internal/database"
)

// StartPostgres runs a throwaway PostgreSQL and returns a migrated pool with
// several connections, so SELECT ... FOR UPDATE really has to serialize.
func StartPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() || os.Getenv("OWS_INTEGRATION") != "1" {
		t.Skip("set OWS_INTEGRATION=1 to run PostgreSQL integration tests")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "ows",
				"POSTGRES_PASSWORD": "ows",
				"POSTGRES_DB":       "ows",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate postgres: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := database.Connect(config.DatabaseConfig{
		Type:         "postgres",
		URL:          fmt.Sprintf("host=%s port=%s user=ows password=ows dbname=ows sslmode=disable", host, port.Port()),
		MaxOpenConns: 10,
	}, NopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

package integration

import (
	"database/sql"
	"testing"

	"github.com/retailops/backend/internal/infrastructure/migration"
	"github.com/retailops/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmbeddedMigrations_AppliedAndRepeatable(t *testing.T) {
	tdb := NewTestDB(t)

	db, err := sql.Open("postgres", tdb.DSN)
	require.NoError(t, err)
	runner, err := migration.NewFromFS(db, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = runner.Close() }()

	st, err := runner.Status()
	require.NoError(t, err)
	assert.True(t, st.Applied)
	assert.False(t, st.Dirty)
	assert.Equal(t, uint(1), st.Version)

	// nothing pending is not an error
	require.NoError(t, runner.Up())

	var triggers int
	require.NoError(t, tdb.DB.Raw(
		"SELECT COUNT(*) FROM pg_trigger WHERE tgname = 'trg_notifications_feed'",
	).Scan(&triggers).Error)
	assert.Equal(t, 1, triggers)
}

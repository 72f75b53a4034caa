package implementations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilesSortedSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_transactions.sql", "0001_accounts.SQL", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- noop"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o700))

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_accounts.SQL", "0002_transactions.sql"}, files)
}

func TestMigrationFilesMissingDir(t *testing.T) {
	_, err := migrationFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestShippedMigrationsAreOrdered(t *testing.T) {
	files, err := migrationFiles(filepath.Join("..", "..", "..", "..", "migrations"))
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_create_accounts.sql", "0002_create_transactions.sql"}, files)
}

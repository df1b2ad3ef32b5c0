package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigrations(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadFilesSortsByVersion(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"002_add_index.sql":           "CREATE INDEX idx ON subscriptions (email);",
		"001_create_table.sql":        "CREATE TABLE subscriptions (id uuid PRIMARY KEY);",
		"010_add_column.sql":          "ALTER TABLE subscriptions ADD COLUMN source TEXT;",
		"notes.txt":                   "not a migration",
		"003_backfill_timestamps.sql": "UPDATE subscriptions SET subscribed_at = NOW();",
	})

	migrations, err := NewMigrationRunner(nil, dir).LoadFiles()
	require.NoError(t, err)

	require.Len(t, migrations, 4)
	versions := make([]string, 0, len(migrations))
	for _, m := range migrations {
		versions = append(versions, m.Version)
	}
	assert.Equal(t, []string{
		"001_create_table",
		"002_add_index",
		"003_backfill_timestamps",
		"010_add_column",
	}, versions)
}

func TestLoadFilesChecksumIsStable(t *testing.T) {
	files := map[string]string{"001_create_table.sql": "CREATE TABLE t (id int);"}

	first, err := NewMigrationRunner(nil, writeMigrations(t, files)).LoadFiles()
	require.NoError(t, err)
	second, err := NewMigrationRunner(nil, writeMigrations(t, files)).LoadFiles()
	require.NoError(t, err)

	require.Len(t, first, 1)
	assert.Len(t, first[0].Checksum, 64)
	assert.Equal(t, first[0].Checksum, second[0].Checksum)
}

func TestLoadFilesChecksumTracksContent(t *testing.T) {
	a, err := NewMigrationRunner(nil, writeMigrations(t, map[string]string{
		"001_x.sql": "CREATE TABLE a (id int);",
	})).LoadFiles()
	require.NoError(t, err)
	b, err := NewMigrationRunner(nil, writeMigrations(t, map[string]string{
		"001_x.sql": "CREATE TABLE b (id int);",
	})).LoadFiles()
	require.NoError(t, err)

	assert.NotEqual(t, a[0].Checksum, b[0].Checksum)
}

func TestLoadFilesFailsOnMissingDirectory(t *testing.T) {
	_, err := NewMigrationRunner(nil, filepath.Join(t.TempDir(), "absent")).LoadFiles()
	assert.Error(t, err)
}

func TestFindMigrationsDirWalksUpward(t *testing.T) {
	dir, err := FindMigrationsDir()
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

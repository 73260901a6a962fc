package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Customer Index")
	require.NoError(t, err)

	assert.FileExists(t, mf.UpPath)
	assert.FileExists(t, mf.DownPath)
	assert.Contains(t, filepath.Base(mf.UpPath), "add_customer_index.up.sql")
	assert.Contains(t, filepath.Base(mf.DownPath), "add_customer_index.down.sql")

	content, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Add Customer Index")
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Empty(t, migrations)

	_, err = CreateMigration(dir, "first")
	require.NoError(t, err)

	migrations, err = ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 1)
	assert.Contains(t, migrations[0], "first.up.sql")
}

func TestListMigrationsMissingDir(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, migrations)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Add Customer Index", "add_customer_index"},
		{"create-orders", "create_orders"},
		{"v2 schema!!", "v2_schema"},
		{"__weird  name__", "weird_name"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.in), tt.in)
	}
}

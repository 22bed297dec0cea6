package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/crm/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add lead index", "add_lead_index"},
		{"Add-Lead-Index", "add_lead_index"},
		{"ADD__LEAD__INDEX", "add_lead_index"},
		{"Add Notes 2", "add_notes_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "special_chars"},
		{"_leading_", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add lead index", "Index leads by company")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_lead_index.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_lead_index.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_lead_index\n")
	assert.Contains(t, string(up), "-- Description: Index leads by company")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	second, err := CreateMigration(dir, "drop legacy column", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)

	content, err := os.ReadFile(second.UpPath)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "Description")
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_second.up.sql":   {Data: []byte("")},
		"000002_second.down.sql": {Data: []byte("")},
		"000001_first.up.sql":    {Data: []byte("")},
		"000001_first.down.sql":  {Data: []byte("")},
		"README.md":              {Data: []byte("")},
		"notes.sql":              {Data: []byte("")},
	}

	list, err := ListMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint(1), list[0].Version)
	assert.Equal(t, "first", list[0].Name)
	assert.Equal(t, "000001_first.up.sql", list[0].UpPath)
	assert.Equal(t, "000001_first.down.sql", list[0].DownPath)
	assert.Equal(t, uint(2), list[1].Version)
}

func TestListMigrations_MissingDir(t *testing.T) {
	list, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	list, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	for i, mf := range list {
		assert.Equal(t, uint(i+1), mf.Version, "versions must be contiguous")
		assert.NotEmpty(t, mf.UpPath, "missing up file for %d", mf.Version)
		assert.NotEmpty(t, mf.DownPath, "missing down file for %d", mf.Version)
	}
}

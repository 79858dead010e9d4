package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(filepath.Join(t.TempDir(), "projects"), zap.NewNop())
}

func TestCreateLayout(t *testing.T) {
	m := newTestManager(t)

	layout, err := m.Create("strings")
	require.NoError(t, err)

	for _, dir := range []string{layout.OriginalDir, layout.ChunksDir, layout.TranslatedDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.Contains(t, filepath.Base(layout.Root), "strings_")
}

func TestCreateSanitizesBaseName(t *testing.T) {
	m := newTestManager(t)

	layout, err := m.Create("some dir/with:stuff")
	require.NoError(t, err)
	base := filepath.Base(layout.Root)
	assert.NotContains(t, base, "/")
	assert.NotContains(t, base, ":")
	assert.NotContains(t, base, " ")
}

func TestListSortsByModTime(t *testing.T) {
	m := newTestManager(t)

	older, err := m.Create("older")
	require.NoError(t, err)
	newer, err := m.Create("newer")
	require.NoError(t, err)

	// 确保修改时间可区分
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older.Root, past, past))

	projects, err := m.List()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, filepath.Base(newer.Root), projects[0].Name)
	assert.Equal(t, filepath.Base(older.Root), projects[1].Name)
}

func TestListMissingRoot(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "does-not-exist"), zap.NewNop())
	projects, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestDelete(t *testing.T) {
	m := newTestManager(t)
	layout, err := m.Create("gone")
	require.NoError(t, err)
	name := filepath.Base(layout.Root)

	require.NoError(t, m.Delete(name))
	_, err = os.Stat(layout.Root)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteRejectsUnsafeNames(t *testing.T) {
	m := newTestManager(t)
	for _, name := range []string{"", ".", "..", "../outside", "a/b", `a\b`} {
		assert.Error(t, m.Delete(name), name)
	}
}

func TestDeleteMissingProject(t *testing.T) {
	m := newTestManager(t)
	assert.Error(t, m.Delete("never_created"))
}

func TestListTranslatableFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.json", "c.yml", "skip.txt", "notes.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x: y\n"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755))

	files, err := ListTranslatableFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join(dir, "a.json"), files[0])
	assert.Equal(t, filepath.Join(dir, "b.yaml"), files[1])
	assert.Equal(t, filepath.Join(dir, "c.yml"), files[2])
}

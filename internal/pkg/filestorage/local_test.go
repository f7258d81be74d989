package filestorage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "archive")
	storage, err := NewLocalStorage(dir)
	require.NoError(t, err)

	path, err := storage.Save("Grades.XLSX", []byte("payload"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".xlsx"))
	assert.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	other, err := storage.Save("Grades.XLSX", []byte("payload"))
	require.NoError(t, err)
	assert.NotEqual(t, path, other)

	require.NoError(t, storage.Delete(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// deleting twice is not an error
	assert.NoError(t, storage.Delete(path))
}

func TestLocalStorage_GetFullPath(t *testing.T) {
	storage := &LocalStorage{basePath: "/srv/uploads"}

	assert.Equal(t, filepath.Join("/srv/uploads", "a.csv"), storage.GetFullPath("../../etc/a.csv"))
	assert.Equal(t, "", storage.GetFullPath(".."))
	assert.Error(t, storage.Delete(".."))
}

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir, "/media/")

	rel, err := store.Save("avatars", ".png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "avatars/"))
	assert.True(t, strings.HasSuffix(rel, ".png"))
	assert.True(t, store.Exists(rel))
	assert.Equal(t, "/media/"+rel, store.URL(rel))

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Delete(rel))
	assert.False(t, store.Exists(rel))

	// deleting twice is fine
	assert.NoError(t, store.Delete(rel))
}

func TestLocal_PathsStayInsideBase(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir, "")

	rel, err := store.Save("../../escape", ".txt", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "escape/"))

	assert.ErrorIs(t, store.Delete("/"), ErrInvalidPath)
	assert.Equal(t, "", store.URL(""))
}

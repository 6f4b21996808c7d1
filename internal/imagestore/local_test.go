package imagestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestLocal_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "/media/")
	require.NoError(t, err)

	u, err := l.Upload(context.Background(), pngHeader, "inventory")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "/media/inventory/"), u)
	assert.True(t, strings.HasSuffix(u, ".png"), u)

	file := filepath.Join(dir, "inventory", filepath.Base(u))
	_, err = os.Stat(file)
	require.NoError(t, err)

	ok, err := l.Delete(context.Background(), u)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))

	ok, err = l.Delete(context.Background(), u)
	require.NoError(t, err)
	assert.False(t, ok, "second delete reports nothing deleted")
}

func TestLocal_RejectsBadFolder(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "/media")
	require.NoError(t, err)
	for _, f := range []string{"", "../x", "Bills", "a/b"} {
		_, err := l.Upload(context.Background(), pngHeader, f)
		assert.Error(t, err, f)
	}
}

func TestLocal_DeleteStaysInsideDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "images")
	l, err := NewLocal(dir, "https://shop.example/media")
	require.NoError(t, err)

	outside := filepath.Join(root, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	for _, u := range []string{
		"https://shop.example/media/../secret.txt",
		"https://other.example/media/inventory/a.png",
		"https://shop.example/elsewhere/inventory/a.png",
		"https://shop.example/media/",
	} {
		_, err := l.Delete(context.Background(), u)
		assert.ErrorIs(t, err, ErrForeignURL, u)
	}
	_, err = os.Stat(outside)
	assert.NoError(t, err, "file outside the store must survive")
}

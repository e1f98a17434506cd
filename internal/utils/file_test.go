package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()

	t.Run("new file", func(t *testing.T) {
		path := filepath.Join(dir, "A.java")
		require.NoError(t, WriteFileAtomic(path, []byte("class A {}")))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "class A {}", string(content))
	})

	t.Run("keeps mode", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("file modes are not preserved on windows")
		}
		path := filepath.Join(dir, "B.java")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0600))
		require.NoError(t, WriteFileAtomic(path, []byte("new")))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("no temp files left", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotContains(t, e.Name(), ".tmp")
		}
	})

	t.Run("missing dir", func(t *testing.T) {
		assert.Error(t, WriteFileAtomic(filepath.Join(dir, "absent", "C.java"), nil))
	})
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ContentHash(nil))
	assert.NotEqual(t, ContentHash([]byte("a")), ContentHash([]byte("b")))
}

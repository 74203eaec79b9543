package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "voice", "trees")
	lfs := LocalFS{}

	require.NoError(t, lfs.MkdirAll(dir, 0o755))

	path := filepath.Join(dir, "a.cart")
	f, err := lfs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	require.NoError(t, err)
	assert.Equal(t, path, f.Name())

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	renamed := filepath.Join(dir, "b.cart")
	require.NoError(t, lfs.Rename(path, renamed))
	data, err := os.ReadFile(renamed)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, lfs.Remove(renamed))
	_, err = os.Stat(renamed)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFaultyFS(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("disk full")

	ffs := NewFaultyFS(nil)
	ffs.AddRule("limited", Fault{FailAfterBytes: 4, Err: boom})
	ffs.AddRule("nosync", Fault{FailAfterBytes: -1, FailOnSync: true})
	ffs.AddRule("noclose", Fault{FailAfterBytes: -1, FailOnClose: true})
	ffs.AddRule("norename", Fault{FailAfterBytes: -1, FailOnRename: true})

	open := func(name string) File {
		f, err := ffs.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		return f
	}

	t.Run("write limit", func(t *testing.T) {
		f := open("limited")
		defer f.Close()

		_, err := f.Write([]byte("abc"))
		require.NoError(t, err)
		_, err = f.Write([]byte("de"))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("sync", func(t *testing.T) {
		f := open("nosync")
		defer f.Close()
		assert.ErrorIs(t, f.Sync(), ErrInjected)
	})

	t.Run("close", func(t *testing.T) {
		f := open("noclose")
		assert.ErrorIs(t, f.Close(), ErrInjected)
	})

	t.Run("rename", func(t *testing.T) {
		f := open("norename")
		require.NoError(t, f.Close())
		err := ffs.Rename(filepath.Join(dir, "norename"), filepath.Join(dir, "other"))
		assert.ErrorIs(t, err, ErrInjected)
	})

	t.Run("no rule", func(t *testing.T) {
		f := open("plain")
		_, err := f.Write([]byte("anything at all"))
		require.NoError(t, err)
		require.NoError(t, f.Sync())
		require.NoError(t, f.Close())
	})
}

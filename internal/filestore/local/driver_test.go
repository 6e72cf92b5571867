package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmedex/ftsmeta/internal/errs"
	"github.com/openmedex/ftsmeta/internal/filestore"
)

func newTestStore(t *testing.T) *Driver {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "2015"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2016"), 0o755))
	write := func(rel, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644))
	}
	write("2015/medpar_2015.fts", "fts 2015")
	write("2015/medpar_2015.dat", "data")
	write("2016/medpar_2016.fts", "fts 2016")
	write("readme.txt", "notes")

	store, err := New(filestore.DefaultConfig(root))
	require.NoError(t, err)
	return store
}

func TestNew(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := New(filestore.DefaultConfig(filepath.Join(t.TempDir(), "absent")))
		require.Error(t, err)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("root is a file", func(t *testing.T) {
		f := filepath.Join(t.TempDir(), "plain")
		require.NoError(t, os.WriteFile(f, nil, 0o644))
		_, err := New(filestore.DefaultConfig(f))
		require.Error(t, err)
		assert.True(t, errs.IsInvalidInput(err))
	})

	t.Run("empty root", func(t *testing.T) {
		_, err := New(&filestore.Config{Provider: filestore.ProviderLocal})
		require.Error(t, err)
		assert.True(t, errs.IsInvalidInput(err))
	})
}

func TestDriverPing(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestDriverList(t *testing.T) {
	store := newTestStore(t)

	t.Run("all files", func(t *testing.T) {
		files, err := store.List(context.Background(), "")
		require.NoError(t, err)

		keys := make([]string, len(files))
		for i, f := range files {
			keys[i] = f.Key
		}
		sort.Strings(keys)
		assert.Equal(t, []string{
			"2015/medpar_2015.dat",
			"2015/medpar_2015.fts",
			"2016/medpar_2016.fts",
			"readme.txt",
		}, keys)
	})

	t.Run("prefix filter", func(t *testing.T) {
		files, err := store.List(context.Background(), "2015/")
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := store.List(ctx, "")
		require.Error(t, err)
		assert.True(t, errs.IsTimeout(err))
	})
}

func TestDriverOpen(t *testing.T) {
	store := newTestStore(t)

	t.Run("reads content", func(t *testing.T) {
		f, err := store.Open(context.Background(), "2015/medpar_2015.fts")
		require.NoError(t, err)
		defer f.Close()

		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "fts 2015", string(data))
		assert.Equal(t, "2015/medpar_2015.fts", f.Info().Key)
		assert.Equal(t, int64(len("fts 2015")), f.Info().Size)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Open(context.Background(), "2015/absent.fts")
		require.Error(t, err)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("escaping key", func(t *testing.T) {
		_, err := store.Open(context.Background(), "../outside.fts")
		require.Error(t, err)
		assert.True(t, errs.IsInvalidInput(err))
	})

	t.Run("absolute key", func(t *testing.T) {
		_, err := store.Open(context.Background(), "/etc/passwd")
		require.Error(t, err)
		assert.True(t, errs.IsInvalidInput(err))
	})
}

func TestDriverStat(t *testing.T) {
	store := newTestStore(t)

	t.Run("file", func(t *testing.T) {
		info, err := store.Stat(context.Background(), "readme.txt")
		require.NoError(t, err)
		assert.Equal(t, "readme.txt", info.Key)
		assert.Equal(t, int64(len("notes")), info.Size)
		assert.False(t, info.LastModified.IsZero())
	})

	t.Run("directory is not a file", func(t *testing.T) {
		_, err := store.Stat(context.Background(), "2015")
		require.Error(t, err)
		assert.True(t, errs.IsNotFound(err))
	})
}

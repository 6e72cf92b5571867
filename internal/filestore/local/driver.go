// Package local provides a directory-backed implementation of
// filestore.Store.
//
// Usage:
//
//	store, err := local.New(filestore.DefaultConfig("/data/cms"))
//	if err != nil { ... }
//	defer store.Close()
//
//	files, err := store.List(ctx, "2015/")
package local

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/openmedex/ftsmeta/internal/errs"
	"github.com/openmedex/ftsmeta/internal/filestore"
)

// Driver serves files from a directory tree rooted at Config.Root.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	root string
}

// New validates the root directory and returns a Driver.
func New(cfg *filestore.Config) (*Driver, error) {
	if cfg.Root == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "local store root is empty")
	}
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, mapError(err, "local store root "+cfg.Root)
	}
	if !info.IsDir() {
		return nil, errs.New(errs.ErrKindInvalidInput,
			"local store root is not a directory: "+cfg.Root)
	}
	return &Driver{root: cfg.Root}, nil
}

// --- filestore.Store implementation ---

// Ping verifies the root directory still exists.
func (d *Driver) Ping(_ context.Context) error {
	if _, err := os.Stat(d.root); err != nil {
		return mapError(err, "ping "+d.root)
	}
	return nil
}

// Close is a no-op for a directory source.
func (d *Driver) Close() error {
	return nil
}

// List walks the tree and returns every regular file under prefix.
func (d *Driver) List(ctx context.Context, prefix string) ([]filestore.FileInfo, error) {
	var files []filestore.FileInfo

	err := filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}
		files = append(files, filestore.FileInfo{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, mapError(err, "list "+d.root)
	}
	return files, nil
}

// Open returns a handle to the file at key.
func (d *Driver) Open(_ context.Context, key string) (filestore.File, error) {
	p, err := d.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, mapError(err, "open "+key)
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, mapError(err, "stat "+key)
	}

	return &file{
		ReadCloser: f,
		info: &filestore.FileInfo{
			Key:          key,
			Size:         stat.Size(),
			LastModified: stat.ModTime(),
		},
	}, nil
}

// Stat returns metadata for the file at key without opening it.
func (d *Driver) Stat(_ context.Context, key string) (*filestore.FileInfo, error) {
	p, err := d.resolve(key)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(p)
	if err != nil {
		return nil, mapError(err, "stat "+key)
	}
	if stat.IsDir() {
		return nil, errs.New(errs.ErrKindNotFound, key+" is a directory")
	}
	return &filestore.FileInfo{
		Key:          key,
		Size:         stat.Size(),
		LastModified: stat.ModTime(),
	}, nil
}

// resolve maps a key to a path under the root, rejecting keys that
// would escape it.
func (d *Driver) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", errs.New(errs.ErrKindInvalidInput, "key escapes store root: "+key)
	}
	return filepath.Join(d.root, clean), nil
}

// --- internal types ---

type file struct {
	io.ReadCloser
	info *filestore.FileInfo
}

func (f *file) Info() *filestore.FileInfo {
	return f.info
}

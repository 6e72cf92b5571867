package filestore

import (
	"io"
	"time"
)

// FileInfo describes a single file held by a store.
type FileInfo struct {
	// Key is the forward-slash path relative to the store root
	// (e.g. "2015/medpar_2015.fts").
	Key string

	// Size is the byte size of the file. -1 if unknown.
	Size int64

	// LastModified is when the file was last written.
	// May be zero if the backend does not expose it.
	LastModified time.Time
}

// File is a streaming handle to a file's content.
// The caller MUST call Close() after reading to avoid resource leaks.
type File interface {
	io.ReadCloser

	// Info returns the metadata for this file.
	Info() *FileInfo
}

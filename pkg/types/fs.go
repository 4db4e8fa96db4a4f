package types

import (
	"io/fs"
	"time"
)

// FS is the filesystem interface required for minipatch operations.
// Production code uses the OS implementation in pkg/filesystem; tests use
// the in-memory implementation in pkg/testutil.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Removal
	Remove(name string) error
	RemoveAll(path string) error

	// Chtimes sets access and modification times, used by the overlay
	// copier to carry source mtimes onto copied files.
	Chtimes(name string, atime, mtime time.Time) error
}

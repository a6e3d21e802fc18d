package repository

import "github.com/spf13/afero"

// FileSystemRepository defines the interface for filesystem operations.
// The version file and the run journal are both accessed through it so
// tests can substitute an in-memory filesystem.

type FileSystemRepository interface {
	afero.Fs
}

// NewOsFileSystem returns a FileSystemRepository backed by the real
// operating system filesystem.
func NewOsFileSystem() FileSystemRepository {
	return afero.NewOsFs()
}

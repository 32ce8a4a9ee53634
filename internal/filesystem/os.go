// Package filesystem provides operating-system backed implementations of the
// filesystem capabilities declared in the shared package.
package filesystem

import (
	"io/fs"
	"os"
)

// OSFileSystem implements shared.FileSystem using the os package.
type OSFileSystem struct{}

// Stat reports file information for the supplied path.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// MkdirAll creates the directory path along with any missing parents.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}

// ReadFile returns the full contents of the supplied path.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes content to the supplied path, replacing any existing file.
func (OSFileSystem) WriteFile(path string, content []byte, permissions fs.FileMode) error {
	return os.WriteFile(path, content, permissions)
}

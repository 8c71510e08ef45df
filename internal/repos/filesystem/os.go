package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem implements the read-only filesystem operations pincheck needs using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata, following symbolic links.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Abs resolves an absolute, cleaned path with symbolic links evaluated.
// When the path does not exist, links are evaluated in its deepest existing ancestor
// and the missing remainder is appended unchanged.
func (OSFileSystem) Abs(path string) (string, error) {
	absolutePath, absError := filepath.Abs(path)
	if absError != nil {
		return "", absError
	}
	existingPrefix := absolutePath
	missingSuffix := ""
	for {
		resolvedPrefix, resolveError := filepath.EvalSymlinks(existingPrefix)
		if resolveError == nil {
			return filepath.Join(resolvedPrefix, missingSuffix), nil
		}
		parentDirectory := filepath.Dir(existingPrefix)
		if parentDirectory == existingPrefix {
			return absolutePath, nil
		}
		missingSuffix = filepath.Join(filepath.Base(existingPrefix), missingSuffix)
		existingPrefix = parentDirectory
	}
}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Exists reports whether path can be stat'ed. Any error, not only fs.ErrNotExist, counts as absent.
func (fileSystem OSFileSystem) Exists(path string) bool {
	_, statError := fileSystem.Stat(path)
	return statError == nil
}

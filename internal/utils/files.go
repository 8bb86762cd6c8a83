package utils

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes content through a temporary file in the same
// directory and renames it over path. It leaves an identical file untouched
// and reports whether anything was written.
func WriteFileAtomic(path string, content []byte, perm os.FileMode) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return false, WrapWriteError(path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return false, WrapWriteError(path, err)
	}
	if err := tmp.Close(); err != nil {
		return false, WrapWriteError(path, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return false, WrapWriteError(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return false, WrapWriteError(path, err)
	}
	return true, nil
}

// RemoveIfExists deletes path and reports whether it existed
func RemoveIfExists(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// SameContent reports whether the file at path holds exactly content
func SameContent(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bytes.Equal(existing, content), nil
}

package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// Paths locates the three state files.
type Paths struct {
	Dir     string
	Session string
	Profile string
	Project string
}

// Store reads and writes the local state files.
type Store struct {
	paths Paths
}

func NewStore(p Paths) *Store {
	return &Store{paths: p}
}

func (s *Store) Paths() Paths { return s.paths }

// EnsureDir creates the state directory if needed. An existing directory
// is success.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.paths.Dir, dirPerm); err != nil {
		if errors.Is(err, fs.ErrExist) {
			if ok, statErr := s.DirExists(); statErr == nil && ok {
				return nil
			}
		}
		return wrap("mkdir", s.paths.Dir, err)
	}
	return nil
}

// DirExists reports whether the state directory exists. Absence is
// (false, nil); any other stat failure is returned.
func (s *Store) DirExists() (bool, error) {
	fi, err := os.Stat(s.paths.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, wrap("stat", s.paths.Dir, err)
	}
	return fi.IsDir(), nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, wrap("stat", path, err)
	}
	return fi.Mode().IsRegular(), nil
}

// readJSON decodes path into v. found is false when the file is missing or
// its content is not valid JSON for v.
func readJSON(path string, v any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, wrap("read", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *Store) writeJSON(path string, v any) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &Error{Kind: KindIO, Op: "encode", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return wrap("write", path, err)
	}
	return nil
}

// remove deletes path. A missing file yields an *Error of KindNotFound so
// callers decide whether absence matters.
func remove(path string) error {
	return wrap("remove", path, os.Remove(path))
}

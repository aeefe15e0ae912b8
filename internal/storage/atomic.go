package storage

import (
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/julianstephens/worktrack/internal/constants"
	apperrors "github.com/julianstephens/worktrack/internal/errors"
)

// WriteJSONAtomic serializes v with 2-space indentation and writes it to path using
// write-to-temp-then-rename. The temp file is a sibling of path so the rename stays on
// one filesystem; an interrupted write can orphan it but never truncates path.
func WriteJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperrors.NewIOError("encode", path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.NewIOError("create temp", path, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return apperrors.NewIOError("write", tmpPath, err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return apperrors.NewIOError("sync", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.NewIOError("close", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, constants.FilePerm); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.NewIOError("chmod", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.NewIOError("rename", path, err)
	}
	return nil
}

// readJSON decodes path into v. A missing file reports os.ErrNotExist; a parse
// failure wraps ErrMalformedData.
func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return apperrors.NewIOError("read", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &malformedError{path: path, err: err}
	}
	return nil
}

type malformedError struct {
	path string
	err  error
}

func (e *malformedError) Error() string {
	return e.path + ": " + apperrors.ErrMalformedData.Error() + ": " + e.err.Error()
}

func (e *malformedError) Unwrap() []error {
	return []error{apperrors.ErrMalformedData, e.err}
}

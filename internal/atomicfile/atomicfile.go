// Package atomicfile replaces files via write-to-temp and rename so readers
// never observe a partially written file.
package atomicfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"iga/internal/domain"
)

// WriteFile writes data to a temp file beside path, syncs it to disk and
// renames it over path.
// On failure the previous content of path is untouched. A missing directory
// maps to domain.ErrNotFound, any other failure to domain.ErrPermission.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return mapError("creating temp file", path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return mapError("writing temp file", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return mapError("setting file mode", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return mapError("syncing temp file", path, err)
	}
	if err := tmp.Close(); err != nil {
		return mapError("closing temp file", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return mapError("replacing file", path, err)
	}
	return nil
}

func mapError(op, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s %s: %w: %v", op, path, domain.ErrNotFound, err)
	}
	return fmt.Errorf("%s %s: %w: %v", op, path, domain.ErrPermission, err)
}

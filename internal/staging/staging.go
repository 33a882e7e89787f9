package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Area is a scoped temp-dir byte store holding one object's downloaded
// bytes during its processing window. Cleanup must run on every exit
// path of the run.
type Area struct {
	dir string
}

func New() (*Area, error) {
	dir, err := os.MkdirTemp("", "roku-resizer-*")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Area{dir: dir}, nil
}

func (a *Area) Dir() string { return a.dir }

// Put writes data under a filename derived from key and returns the
// local path.
func (a *Area) Put(key string, data []byte) (string, error) {
	p := a.path(key)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return "", fmt.Errorf("stage %q: %w", key, err)
	}
	return p, nil
}

// Remove drops a staged object. Missing files are not an error; the
// end-of-object boundary may run after a failed Put.
func (a *Area) Remove(key string) error {
	err := os.Remove(a.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Cleanup deletes the staging directory and everything in it.
func (a *Area) Cleanup() error {
	return os.RemoveAll(a.dir)
}

func (a *Area) path(key string) string {
	return filepath.Join(a.dir, strings.ReplaceAll(key, "/", "_"))
}

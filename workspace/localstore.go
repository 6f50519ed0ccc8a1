package workspace

import (
	"context"
	"fmt"
	"os"
	"strings"
)

var _ FileStore = (*LocalStore)(nil)

// LocalStore is the default FileStore, backed by the local filesystem
// rooted at Root. All paths passed to its methods are workspace-relative
// and validated through ResolvePath.
type LocalStore struct {
	Root string
}

// NewLocalStore returns a LocalStore rooted at root.
func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("workspace: root cannot be empty")
	}
	return &LocalStore{Root: root}, nil
}

func (s *LocalStore) Lines(_ context.Context, path string) ([]string, error) {
	full, err := ResolvePath(s.Root, path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("workspace: read %s: %w", path, err)
	}

	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\n"), nil
}

func (s *LocalStore) ModTime(_ context.Context, path string) (int64, error) {
	full, err := ResolvePath(s.Root, path)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return 0, fmt.Errorf("workspace: stat %s: %w", path, err)
	}
	return info.ModTime().Unix(), nil
}

func (s *LocalStore) Exists(_ context.Context, path string) bool {
	full, err := ResolvePath(s.Root, path)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

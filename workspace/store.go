// Package workspace defines the FileStore capability the retrieval core
// depends on for reading memory files and session transcripts. Persistence
// itself is out of scope: this package only specifies the contract and a
// default os-backed implementation good enough to run the module end to
// end and in tests.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathTraversal is returned when a requested path escapes the workspace
// root via ".." or an absolute path.
var ErrPathTraversal = errors.New("workspace: path escapes workspace root")

// ErrNotFound is returned when the requested path does not exist.
var ErrNotFound = errors.New("workspace: file not found")

// FileStore reads files and lines from a workspace. Implementations must
// reject path traversal per ResolvePath's rules.
type FileStore interface {
	// Lines returns the file's content split on LF, without line terminators.
	Lines(ctx context.Context, path string) ([]string, error)
	// ModTime returns the file's last-modified time as Unix seconds, or an
	// error if the file does not exist.
	ModTime(ctx context.Context, path string) (int64, error)
	// Exists reports whether path exists in the workspace.
	Exists(ctx context.Context, path string) bool
}

// ResolvePath validates a workspace-relative path: it must not be absolute,
// must not contain "..", and must not escape root once joined and cleaned.
// Session paths must additionally match "sessions/<file>.jsonl" with <file>
// containing no path separators.
func ResolvePath(root, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrPathTraversal)
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: %q is absolute", ErrPathTraversal, path)
	}
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q contains \"..\"", ErrPathTraversal, path)
		}
	}
	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, path)
	}

	joined := filepath.Join(root, cleaned)
	rel, err := filepath.Rel(root, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, path)
	}

	if strings.HasPrefix(cleaned, "sessions"+string(filepath.Separator)) {
		tail := strings.TrimPrefix(cleaned, "sessions"+string(filepath.Separator))
		if strings.ContainsAny(tail, string(filepath.Separator)) || !strings.HasSuffix(tail, ".jsonl") {
			return "", fmt.Errorf("%w: session path %q must be sessions/<file>.jsonl with no separators in <file>", ErrPathTraversal, path)
		}
	}

	return joined, nil
}

// SessionIDFromPath extracts the <sessionId> from a "sessions/<id>.jsonl"
// path, matching the tail of a session file path.
func SessionIDFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".jsonl") {
		return "", false
	}
	return strings.TrimSuffix(base, ".jsonl"), true
}

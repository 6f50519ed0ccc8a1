package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	root := t.TempDir()

	t.Run("ok", func(t *testing.T) {
		p, err := ResolvePath(root, "memory/notes.md")
		require.NoError(t, err)
		require.Equal(t, filepath.Join(root, "memory", "notes.md"), p)
	})

	t.Run("rejects absolute", func(t *testing.T) {
		_, err := ResolvePath(root, "/etc/passwd")
		require.ErrorIs(t, err, ErrPathTraversal)
	})

	t.Run("rejects dotdot", func(t *testing.T) {
		_, err := ResolvePath(root, "../../etc/passwd")
		require.ErrorIs(t, err, ErrPathTraversal)
	})

	t.Run("rejects malformed session path", func(t *testing.T) {
		_, err := ResolvePath(root, "sessions/sub/dir.jsonl")
		require.ErrorIs(t, err, ErrPathTraversal)
	})

	t.Run("accepts well formed session path", func(t *testing.T) {
		_, err := ResolvePath(root, "sessions/abc-123.jsonl")
		require.NoError(t, err)
	})
}

func TestLocalStoreLines(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("a\nb\nc\n"), 0o644))

	store, err := NewLocalStore(root)
	require.NoError(t, err)

	lines, err := store.Lines(context.Background(), "notes.md")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, lines)

	require.True(t, store.Exists(context.Background(), "notes.md"))
	require.False(t, store.Exists(context.Background(), "missing.md"))

	_, err = store.Lines(context.Background(), "missing.md")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSessionIDFromPath(t *testing.T) {
	id, ok := SessionIDFromPath("sessions/abc-123.jsonl")
	require.True(t, ok)
	require.Equal(t, "abc-123", id)

	_, ok = SessionIDFromPath("memory/notes.md")
	require.False(t, ok)
}

package expand

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vriveras/refcore/refs"
	"github.com/vriveras/refcore/workspace"
)

func writeFile(t *testing.T, root, rel string, lines []string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func TestExpandBasicWindow(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "memory/notes.md", []string{"one", "two", "three", "four", "five"})
	store, err := workspace.NewLocalStore(root)
	require.NoError(t, err)

	result, err := Expand(context.Background(), store, []Request{
		{Ref: refs.Ref{Path: "memory/notes.md", StartLine: 2, EndLine: 3}},
	}, Config{DefaultLines: 10, MaxRefs: 5})
	require.NoError(t, err)
	require.Empty(t, result.Failures)
	require.Len(t, result.Windows, 1)
	require.Equal(t, "two\nthree", result.Windows[0].Text)
}

func TestExpandDerivesLinesFromRefRange(t *testing.T) {
	root := t.TempDir()
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "line"
	}
	writeFile(t, root, "memory/notes.md", lines)
	store, err := workspace.NewLocalStore(root)
	require.NoError(t, err)

	result, err := Expand(context.Background(), store, []Request{
		{Ref: refs.Ref{Path: "memory/notes.md", StartLine: 1, EndLine: 1}, Lines: 0},
	}, Config{DefaultLines: 4, MaxRefs: 5})
	require.NoError(t, err)
	require.Len(t, result.Windows, 1)
	require.Equal(t, 1, result.Windows[0].Lines)
}

func TestExpandDropsRequestsBeyondMaxRefsFromTail(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "memory/a.md", []string{"a"})
	writeFile(t, root, "memory/b.md", []string{"b"})
	writeFile(t, root, "memory/c.md", []string{"c"})
	store, err := workspace.NewLocalStore(root)
	require.NoError(t, err)

	result, err := Expand(context.Background(), store, []Request{
		{Ref: refs.Ref{Path: "memory/a.md", StartLine: 1, EndLine: 1}},
		{Ref: refs.Ref{Path: "memory/b.md", StartLine: 1, EndLine: 1}},
		{Ref: refs.Ref{Path: "memory/c.md", StartLine: 1, EndLine: 1}},
	}, Config{DefaultLines: 1, MaxRefs: 2})
	require.NoError(t, err)
	require.Len(t, result.Windows, 2)
	require.Equal(t, "memory/a.md", result.Windows[0].Path)
	require.Equal(t, "memory/b.md", result.Windows[1].Path)
}

func TestExpandPerWindowCharBudgetTruncates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "memory/notes.md", []string{"0123456789"})
	store, err := workspace.NewLocalStore(root)
	require.NoError(t, err)

	result, err := Expand(context.Background(), store, []Request{
		{Ref: refs.Ref{Path: "memory/notes.md", StartLine: 1, EndLine: 1}},
	}, Config{DefaultLines: 1, MaxRefs: 1, MaxChars: 5})
	require.NoError(t, err)
	require.Len(t, result.Windows, 1)
	require.True(t, strings.HasSuffix(result.Windows[0].Text, refs.TruncationMarker))
	require.Equal(t, "01234"+refs.TruncationMarker, result.Windows[0].Text)
}

func TestExpandGlobalBudgetSkipsLaterRefs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "memory/a.md", []string{"aaaaaaaaaa"})
	writeFile(t, root, "memory/b.md", []string{"bbbbbbbbbb"})
	store, err := workspace.NewLocalStore(root)
	require.NoError(t, err)

	result, err := Expand(context.Background(), store, []Request{
		{Ref: refs.Ref{Path: "memory/a.md", StartLine: 1, EndLine: 1}},
		{Ref: refs.Ref{Path: "memory/b.md", StartLine: 1, EndLine: 1}},
	}, Config{DefaultLines: 1, MaxRefs: 2, MaxTotalChars: 10})
	require.NoError(t, err)
	require.Len(t, result.Windows, 1)
	require.Equal(t, "memory/a.md", result.Windows[0].Path)
}

func TestExpandRecordsPerRefFailureWithoutAbortingSiblings(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "memory/a.md", []string{"a"})
	store, err := workspace.NewLocalStore(root)
	require.NoError(t, err)

	result, err := Expand(context.Background(), store, []Request{
		{Ref: refs.Ref{Path: "memory/missing.md", StartLine: 1, EndLine: 1}},
		{Ref: refs.Ref{Path: "memory/a.md", StartLine: 1, EndLine: 1}},
	}, Config{DefaultLines: 1, MaxRefs: 5})
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	require.Equal(t, "memory/missing.md", result.Failures[0].Path)
	require.Len(t, result.Windows, 1)
}

func TestExpandRejectsPathTraversal(t *testing.T) {
	root := t.TempDir()
	store, err := workspace.NewLocalStore(root)
	require.NoError(t, err)

	result, err := Expand(context.Background(), store, []Request{
		{Ref: refs.Ref{Path: "../outside.md", StartLine: 1, EndLine: 1}},
	}, Config{DefaultLines: 1, MaxRefs: 5})
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	require.Empty(t, result.Windows)
}

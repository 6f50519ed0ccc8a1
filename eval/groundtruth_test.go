package eval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadGroundTruthYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.yaml")
	content := `
description: sample suite
version: "1"
cases:
  - id: c1
    query: glicko rating
    expect:
      anyContains: ["rating deviation"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	gt, err := LoadGroundTruth(path)
	require.NoError(t, err)
	require.Equal(t, "sample suite", gt.Description)
	require.Len(t, gt.Cases, 1)
	require.Equal(t, "c1", gt.Cases[0].ID)
}

func TestLoadGroundTruthJSONSniffedByLeadingBrace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.json")
	content := `{
  "description": "sample suite",
  "version": "1",
  "cases": [{"id": "c1", "query": "glicko rating", "expect": {"anyContains": ["rating deviation"]}}]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	gt, err := LoadGroundTruth(path)
	require.NoError(t, err)
	require.Equal(t, "sample suite", gt.Description)
	require.Len(t, gt.Cases, 1)
}

func TestLoadGroundTruthRejectsEmptyCases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("description: x\nversion: \"1\"\ncases: []\n"), 0o644))

	_, err := LoadGroundTruth(path)
	require.Error(t, err)
}

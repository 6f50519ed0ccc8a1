package eval

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReportCheckpointRoundTripsAndDetectsLabels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	report := &Report{
		GroundTruth: GroundTruthMeta{Description: "d", Version: "1"},
	}
	report.Append(Suite{Label: "a", PassRate: 1})
	require.NoError(t, report.Checkpoint(path, time.Now()))

	loaded, err := LoadReport(path)
	require.NoError(t, err)
	require.Len(t, loaded.Suites, 1)
	require.True(t, loaded.HasSuite("a"))
	require.False(t, loaded.HasSuite("b"))
	require.NotEmpty(t, loaded.GeneratedAt)
}

func TestReportCheckpointIsAtomicAcrossCalls(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	report := &Report{}
	report.Append(Suite{Label: "one"})
	require.NoError(t, report.Checkpoint(path, time.Now()))

	report.Append(Suite{Label: "two"})
	require.NoError(t, report.Checkpoint(path, time.Now()))

	loaded, err := LoadReport(path)
	require.NoError(t, err)
	require.Len(t, loaded.Suites, 2)
}

package eval

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/vriveras/refcore/atomicfile"
)

// GroundTruthMeta is the report's {description, version} header, copied
// from the GroundTruth that produced it.
type GroundTruthMeta struct {
	Description string `json:"description"`
	Version     string `json:"version"`
}

// SweepMeta is the report's sweep section, present only when the run was a
// sweep rather than a single suite.
type SweepMeta struct {
	Grid      SweepGrid `json:"grid"`
	Objective []string  `json:"objective"`
	Best      *BestCell `json:"best,omitempty"`
}

// BestCell names the winning sweep cell and the metrics that won it.
type BestCell struct {
	Cfg           SweepCell `json:"cfg"`
	PassRate      float64   `json:"passRate"`
	RecTokensMean float64   `json:"recTokensMean"`
	RecLatencyP95 float64   `json:"recLatencyP95"`
}

// Report is the top-level checkpoint document persisted to disk after
// every suite.
type Report struct {
	ID          string          `json:"id"`
	GeneratedAt string          `json:"generatedAt"`
	GroundTruth GroundTruthMeta `json:"groundTruth"`
	Defaults    Options         `json:"defaults"`
	Suites      []Suite         `json:"suites"`
	Sweep       *SweepMeta      `json:"sweep,omitempty"`
}

// LoadReport reads an existing report from path, for --resume.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("eval: read report %s: %w", path, err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("eval: parse report %s: %w", path, err)
	}
	return &r, nil
}

// HasSuite reports whether a suite with this label is already present,
// the --resume skip condition.
func (r *Report) HasSuite(label string) bool {
	for _, s := range r.Suites {
		if s.Label == label {
			return true
		}
	}
	return false
}

// Append adds s to the report's suite list.
func (r *Report) Append(s Suite) {
	r.Suites = append(r.Suites, s)
}

// Checkpoint rewrites the full report atomically to path, refreshing
// GeneratedAt first (same atomic-rename discipline as the Index
// Maintainer's persist step). ID is assigned once, on the first
// checkpoint, and then stays stable across resumes.
func (r *Report) Checkpoint(path string, now time.Time) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.GeneratedAt = now.UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("eval: marshal report: %w", err)
	}
	if err := atomicfile.Write(path, data, 0o644); err != nil {
		return fmt.Errorf("eval: checkpoint report %s: %w", path, err)
	}
	return nil
}

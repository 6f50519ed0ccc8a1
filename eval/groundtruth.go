// Package eval implements the evaluation harness: a ground-truth runner
// that exercises each retrieval mode against a suite of cases, aggregates
// {n, mean, median, p95} statistics, and sweeps a parameter grid to find
// the best-performing recursive configuration.
package eval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Expectation is the pass criterion for one ground-truth case.
type Expectation struct {
	// AnyContains is the set of substrings checked case-insensitively
	// against each mode's textual output; a case passes if any one of
	// them appears in any executed mode's output.
	AnyContains []string `yaml:"anyContains" json:"anyContains"`
	// PathsLike is an informational hint at which workspace paths the
	// case expects to surface; it is recorded on the result for
	// qualitative review but does not gate pass/fail.
	PathsLike []string `yaml:"pathsLike,omitempty" json:"pathsLike,omitempty"`
}

// GroundTruthCase is one query and its expected evidence.
type GroundTruthCase struct {
	ID     string      `yaml:"id" json:"id"`
	Query  string      `yaml:"query" json:"query"`
	Expect Expectation `yaml:"expect" json:"expect"`
}

// GroundTruth is a full suite of cases, as authored in YAML or JSON.
type GroundTruth struct {
	Description string            `yaml:"description" json:"description"`
	Version     string            `yaml:"version" json:"version"`
	Cases       []GroundTruthCase `yaml:"cases" json:"cases"`
}

// LoadGroundTruth reads a ground-truth file, sniffing its leading
// non-whitespace byte to decide between JSON ('{' or '[') and YAML
// (everything else).
func LoadGroundTruth(path string) (*GroundTruth, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("eval: read ground truth %s: %w", path, err)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	var gt GroundTruth
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		if err := json.Unmarshal(data, &gt); err != nil {
			return nil, fmt.Errorf("eval: parse ground truth %s as JSON: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &gt); err != nil {
			return nil, fmt.Errorf("eval: parse ground truth %s as YAML: %w", path, err)
		}
	}

	if len(gt.Cases) == 0 {
		return nil, fmt.Errorf("eval: ground truth %s has no cases", path)
	}
	return &gt, nil
}

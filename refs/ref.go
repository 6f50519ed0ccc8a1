// Package refs holds the data model shared by every retrieval component:
// references into workspace content, the bounded windows they expand into,
// and the recursive-retrieval configuration that governs both.
package refs

import (
	"errors"
	"fmt"
)

// Source identifies which backing store a Ref was produced from.
type Source string

const (
	SourceSessions Source = "sessions"
	SourceMemory   Source = "memory"
)

// Ref is a compact pointer into a memory file or session transcript: a path,
// an inclusive line range, a short preview, and a score comparable only
// within the query batch that produced it.
type Ref struct {
	Path      string  `json:"path"`
	StartLine int     `json:"startLine"`
	EndLine   int     `json:"endLine"`
	Score     float64 `json:"score"`
	Source    Source  `json:"source,omitempty"`
	Preview   string  `json:"preview"`
	SessionID string  `json:"sessionId,omitempty"`
	Hop       int     `json:"hop,omitempty"`
}

// Key identifies a Ref for deduplication purposes: the recursive merge step
// treats two refs as the same location iff path and line range agree.
type Key struct {
	Path      string
	StartLine int
	EndLine   int
}

// KeyOf returns r's dedup key.
func (r *Ref) KeyOf() Key {
	return Key{Path: r.Path, StartLine: r.StartLine, EndLine: r.EndLine}
}

// Validate checks the Ref invariants: 1 <= StartLine <= EndLine, and the
// preview does not exceed previewChars (0 disables the check).
func (r *Ref) Validate(previewChars int) error {
	if r == nil {
		return errors.New("ref cannot be nil")
	}
	if r.StartLine < 1 {
		return fmt.Errorf("ref %s: startLine must be >= 1, got %d", r.Path, r.StartLine)
	}
	if r.EndLine < r.StartLine {
		return fmt.Errorf("ref %s: endLine %d must be >= startLine %d", r.Path, r.EndLine, r.StartLine)
	}
	if previewChars > 0 && len([]rune(r.Preview)) > previewChars {
		return fmt.Errorf("ref %s: preview exceeds %d chars", r.Path, previewChars)
	}
	return nil
}

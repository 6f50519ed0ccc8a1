// Package expand turns refs into bounded text windows: the lazy second
// half of the reference-first retrieval contract.
package expand

import (
	"context"
	"fmt"
	"strings"

	"github.com/vriveras/refcore/refs"
	"github.com/vriveras/refcore/workspace"
)

// Request is one expansion input. From and Lines are explicit overrides;
// zero means "derive from the embedded Ref": from = ref.from ?? ref.startLine
// ?? 1, lines = ref.lines ?? (endLine - startLine + 1) ?? defaultLines.
type Request struct {
	refs.Ref
	From  int
	Lines int
}

// Result is one Expand call's full return value.
type Result struct {
	Windows   []refs.Window
	Failures  []refs.Failure
	CharsUsed int
}

// Expand reads each request's file window from store, honouring per-window
// and global character budgets, and tolerating per-ref failures without
// aborting the rest of the batch.
func Expand(ctx context.Context, store workspace.FileStore, requests []Request, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if len(requests) > cfg.MaxRefs {
		requests = requests[:cfg.MaxRefs]
	}

	result := &Result{}
	remainingTotal := cfg.MaxTotalChars

	for _, req := range requests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if cfg.MaxTotalChars > 0 && remainingTotal <= 0 {
			break
		}

		window, err := expandOne(ctx, store, req, cfg, remainingTotal)
		if err != nil {
			result.Failures = append(result.Failures, refs.Failure{Path: req.Path, Error: err.Error()})
			continue
		}

		result.Windows = append(result.Windows, *window)
		result.CharsUsed += len(window.Text)
		if cfg.MaxTotalChars > 0 {
			remainingTotal -= len(window.Text)
		}
	}

	return result, nil
}

func expandOne(ctx context.Context, store workspace.FileStore, req Request, cfg Config, remainingTotal int) (*refs.Window, error) {
	from := req.From
	if from <= 0 {
		from = req.StartLine
	}
	if from <= 0 {
		from = 1
	}

	lines := req.Lines
	if lines <= 0 {
		if req.EndLine >= req.StartLine && req.StartLine > 0 {
			lines = req.EndLine - req.StartLine + 1
		} else {
			lines = cfg.DefaultLines
		}
	}
	lines = clampLines(lines)

	fileLines, err := store.Lines(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.Path, err)
	}

	if from > len(fileLines) {
		from = len(fileLines)
	}
	if from < 1 {
		from = 1
	}

	startIdx := from - 1
	endIdx := startIdx + lines
	if endIdx > len(fileLines) {
		endIdx = len(fileLines)
	}
	if startIdx > endIdx {
		startIdx = endIdx
	}

	text := strings.Join(fileLines[startIdx:endIdx], "\n")

	if cfg.MaxChars > 0 && len(text) > cfg.MaxChars {
		text = truncate(text, cfg.MaxChars)
	}
	if cfg.MaxTotalChars > 0 && len(text) > remainingTotal {
		text = truncate(text, remainingTotal)
	}

	return &refs.Window{Path: req.Path, From: from, Lines: lines, Text: text}, nil
}

// truncate trims text to at most limit characters and appends the
// truncation marker, unless limit is too small to hold any content.
func truncate(text string, limit int) string {
	if limit <= 0 {
		return refs.TruncationMarker
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + refs.TruncationMarker
}

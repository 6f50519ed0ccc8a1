package index

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/vriveras/refcore/tokenize"
	"github.com/vriveras/refcore/workspace"
)

// sessionRecord is one JSONL line of a session transcript.
type sessionRecord struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Date      string `json:"date"`
}

const (
	digestCapWords = 2000
	topicsK        = 8
)

// BuildFull performs a synchronous full build over the given session file
// paths (paths with no session id are skipped), transitioning the index from
// absent to ready.
func BuildFull(ctx context.Context, store workspace.FileStore, sessionPaths []string) (*Index, error) {
	idx := New()
	for _, path := range sessionPaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sessionID, ok := workspace.SessionIDFromPath(path)
		if !ok {
			continue
		}
		if err := indexSessionFromLine(ctx, idx, store, sessionID, path, 0); err != nil {
			return nil, fmt.Errorf("index: build session %s: %w", sessionID, err)
		}
	}
	return idx, nil
}

// indexSessionFromLine tokenises every record in path starting at fromLine
// (0-based) and folds it into idx. It returns only an error; the record
// count appendSession reports is discarded.
func indexSessionFromLine(ctx context.Context, idx *Index, store workspace.FileStore, sessionID, path string, fromLine int) error {
	_, err := appendSession(ctx, idx, store, sessionID, path, fromLine)
	return err
}

// UpdateSession tokenises records [fromLine, EOF) of path into idx for
// sessionID and returns how many records were added. It is the operation
// the Index Maintainer runs under its file lock.
func UpdateSession(ctx context.Context, idx *Index, store workspace.FileStore, sessionID, path string, fromLine int) (int, error) {
	return appendSession(ctx, idx, store, sessionID, path, fromLine)
}

// appendSession tokenises records [fromLine, EOF) of path and merges them
// into idx's postings and session metadata. It returns how many records
// were added.
func appendSession(ctx context.Context, idx *Index, store workspace.FileStore, sessionID, path string, fromLine int) (int, error) {
	lines, err := store.Lines(ctx, path)
	if err != nil {
		return 0, err
	}
	if fromLine < 0 {
		fromLine = 0
	}
	if fromLine > len(lines) {
		fromLine = len(lines)
	}
	newLines := lines[fromLine:]

	freq := make(map[string]int)
	var digestWords []string
	var date string

	existing := idx.Session(sessionID)
	if existing != nil {
		date = existing.Date
		for _, t := range existing.Topics {
			freq[t] = 1
		}
		digestWords = append(digestWords, strings.Fields(existing.Digest)...)
	}

	added := 0
	for _, line := range newLines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var rec sessionRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		added++
		if rec.Date != "" {
			date = rec.Date
		}

		tokens := tokenize.Tokenize(rec.Text)
		for _, tok := range tokens {
			freq[tok]++
			idx.AddPosting(tok, sessionID)
		}

		words := strings.Fields(rec.Text)
		if len(digestWords) < digestCapWords {
			room := digestCapWords - len(digestWords)
			if room > len(words) {
				room = len(words)
			}
			digestWords = append(digestWords, words[:room]...)
		}
	}

	idx.PutSession(sessionID, &Session{
		LastIndexedLine: len(lines),
		Topics:          topTopics(freq, topicsK),
		Date:            date,
		Path:            path,
		Digest:          strings.Join(digestWords, " "),
	})

	return added, nil
}

// topTopics returns the top-k tokens by frequency, ties broken
// lexicographically for determinism.
func topTopics(freq map[string]int, k int) []string {
	type pair struct {
		tok   string
		count int
	}
	pairs := make([]pair, 0, len(freq))
	for tok, count := range freq {
		pairs = append(pairs, pair{tok, count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].tok < pairs[j].tok
	})
	if len(pairs) > k {
		pairs = pairs[:k]
	}
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.tok
	}
	return out
}

// Package index implements the inverted-index retrieval engine: shared
// tokenisation (delegated to tokenize), incremental-safe on-disk state, and
// the three-tier query pipeline (posting-list intersection, coarse
// substring ranking, enhanced lexical matching) with full-scan fallback.
package index

import (
	"sort"
	"sync"
	"time"
)

// Session is the per-session metadata the index tracks:
// sessions: map<sessionId, {lastIndexedLine, topics, date, path}>.
type Session struct {
	LastIndexedLine int       `json:"lastIndexedLine"`
	Topics          []string  `json:"topics"`
	Date            string    `json:"date"`
	Path            string    `json:"path"`
	// Digest is a capped, lightweight text snapshot used by Tier 2's coarse
	// substring scoring so it never needs to touch the filesystem.
	Digest string `json:"digest"`
}

// Index is the inverted index: a token -> posting-list map plus per-session
// metadata and the last-build/last-update timestamp. Index is safe for
// concurrent reads; all mutation goes through Maintainer's locked update
// protocol, which swaps a fresh copy in via atomic file rename — readers
// re-read the file (or hold a Load()-ed snapshot) and never observe a
// half-written state.
type Index struct {
	mu sync.RWMutex

	Tokens      map[string][]string `json:"tokens"`
	Sessions    map[string]*Session `json:"sessions"`
	LastUpdated time.Time           `json:"lastUpdated"`
}

// New returns an empty, ready-to-build Index.
func New() *Index {
	return &Index{
		Tokens:   make(map[string][]string),
		Sessions: make(map[string]*Session),
	}
}

// PostingList returns a copy of token's posting list, or nil if unknown.
func (idx *Index) PostingList(token string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	pl := idx.Tokens[token]
	out := make([]string, len(pl))
	copy(out, pl)
	return out
}

// AddPosting appends sessionID to token's posting list, deduplicated and
// kept sorted.
func (idx *Index) AddPosting(token, sessionID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	pl := idx.Tokens[token]
	i := sort.SearchStrings(pl, sessionID)
	if i < len(pl) && pl[i] == sessionID {
		return
	}
	pl = append(pl, "")
	copy(pl[i+1:], pl[i:])
	pl[i] = sessionID
	idx.Tokens[token] = pl
}

// Session returns a snapshot of sessionID's metadata, or nil if unknown.
func (idx *Index) Session(sessionID string) *Session {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	s, ok := idx.Sessions[sessionID]
	if !ok {
		return nil
	}
	cp := *s
	return &cp
}

// PutSession replaces sessionID's metadata.
func (idx *Index) PutSession(sessionID string, s *Session) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.Sessions[sessionID] = s
}

// KnownSessions returns every session ID the index currently tracks.
func (idx *Index) KnownSessions() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]string, 0, len(idx.Sessions))
	for id := range idx.Sessions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// dateOf returns sessionID's recorded date, or "" if unknown.
func (idx *Index) dateOf(sessionID string) string {
	s := idx.Session(sessionID)
	if s == nil {
		return ""
	}
	return s.Date
}

// CheckInvariants validates the index's structural invariants: every
// posting-list sessionId is a known session, and posting lists are sorted
// and duplicate-free. Only the tests call it; Load does not run it on a
// freshly-loaded index.
func (idx *Index) CheckInvariants() error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for token, pl := range idx.Tokens {
		for i, id := range pl {
			if _, ok := idx.Sessions[id]; !ok {
				return &InvariantError{Token: token, SessionID: id, Reason: "posting references unknown session"}
			}
			if i > 0 && pl[i-1] >= id {
				return &InvariantError{Token: token, SessionID: id, Reason: "posting list not strictly sorted/deduplicated"}
			}
		}
	}
	return nil
}

// InvariantError reports a violated index invariant.
type InvariantError struct {
	Token     string
	SessionID string
	Reason    string
}

func (e *InvariantError) Error() string {
	return "index invariant violated for token " + e.Token + ", session " + e.SessionID + ": " + e.Reason
}

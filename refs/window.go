package refs

// TruncationMarker is appended verbatim to a Window's Text whenever the
// Expand Engine trims content to fit a byte budget.
const TruncationMarker = "\n…TRUNCATED…"

// Window is the bounded text an expanded Ref turns into.
type Window struct {
	Path string `json:"path"`
	From int    `json:"from"`
	// Lines is the number of lines requested for this window, not
	// necessarily the number actually returned (the file may be shorter).
	Lines int    `json:"lines"`
	Text  string `json:"text"`
}

// Failure records a per-ref expansion error without aborting sibling refs.
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

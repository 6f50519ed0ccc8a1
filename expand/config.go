package expand

import "fmt"

// MinLines and MaxLines clamp a single window's requested line count.
const (
	MinLines = 1
	MaxLines = 400
)

// Config configures one Expand call.
type Config struct {
	// DefaultLines is used when a request specifies neither Lines nor an
	// end line to derive it from.
	DefaultLines int
	// MaxRefs caps how many requests are honoured; excess requests are
	// dropped from the tail.
	MaxRefs int
	// MaxChars caps a single window's text; 0 disables the per-window cap.
	MaxChars int
	// MaxTotalChars caps the sum of all windows' text across the call; 0
	// disables the global cap (set by the recursive loop and by the
	// harness's expand mode).
	MaxTotalChars int
}

func (cfg *Config) validate() error {
	if cfg == nil {
		return fmt.Errorf("expand: config cannot be nil")
	}
	if cfg.DefaultLines <= 0 {
		return fmt.Errorf("expand: defaultLines must be positive")
	}
	if cfg.MaxRefs <= 0 {
		return fmt.Errorf("expand: maxRefs must be positive")
	}
	return nil
}

func clampLines(lines int) int {
	if lines < MinLines {
		return MinLines
	}
	if lines > MaxLines {
		return MaxLines
	}
	return lines
}

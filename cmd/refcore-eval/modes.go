package main

import (
	"fmt"
	"strings"

	"github.com/vriveras/refcore/eval"
)

var defaultModeOrder = []eval.Mode{eval.ModeBaseline, eval.ModeRefs, eval.ModeExpand, eval.ModeRecursive}

// parseModes splits a comma-separated --modes flag into eval.Mode values,
// defaulting to every built-in mode when csv is empty.
func parseModes(csv string) ([]eval.Mode, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return defaultModeOrder, nil
	}

	known := map[eval.Mode]bool{
		eval.ModeBaseline:  true,
		eval.ModeRefs:      true,
		eval.ModeExpand:    true,
		eval.ModeRecursive: true,
	}

	var modes []eval.Mode
	for _, part := range strings.Split(csv, ",") {
		m := eval.Mode(strings.TrimSpace(part))
		if m == "" {
			continue
		}
		if !known[m] {
			return nil, fmt.Errorf("refcore-eval: unknown mode %q (want one of baseline,refs,expand,recursiveRefs)", m)
		}
		modes = append(modes, m)
	}
	if len(modes) == 0 {
		return nil, fmt.Errorf("refcore-eval: --modes produced no modes")
	}
	return modes, nil
}

package maintainer

import (
	"encoding/json"
	"fmt"

	"github.com/vriveras/refcore/atomicfile"
	"github.com/vriveras/refcore/index"
)

// persist serialises idx and atomically replaces indexPath's contents via
// a sibling temp file, fsync, and atomic rename.
func persist(idx *index.Index, indexPath string) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("maintainer: marshal index: %w", err)
	}
	if err := atomicfile.Write(indexPath, data, 0o644); err != nil {
		return fmt.Errorf("maintainer: persist index: %w", err)
	}
	return nil
}

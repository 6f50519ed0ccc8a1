package retrieval

import (
	"sort"

	"github.com/vriveras/refcore/refs"
)

// refAccumulator merges refs across hops keyed by (path, startLine,
// endLine), first-writer-wins on hop, preserving the max score seen for a
// given key.
type refAccumulator struct {
	byKey map[refs.Key]refs.Ref
	order []refs.Key
}

func newRefAccumulator() *refAccumulator {
	return &refAccumulator{byKey: make(map[refs.Key]refs.Ref)}
}

// merge folds in, each tagged with hop, into the accumulator. It returns
// how many keys were newly added (refs.Key not seen before this call).
func (a *refAccumulator) merge(in []refs.Ref, hop int) int {
	added := 0
	for _, r := range in {
		r.Hop = hop
		key := r.KeyOf()
		existing, ok := a.byKey[key]
		if !ok {
			a.byKey[key] = r
			a.order = append(a.order, key)
			added++
			continue
		}
		if r.Score > existing.Score {
			existing.Score = r.Score
			a.byKey[key] = existing
		}
	}
	return added
}

// topByScore returns up to n refs, highest score first.
func (a *refAccumulator) topByScore(n int) []refs.Ref {
	all := a.sortedByScore()
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all
}

// sortedByScore returns every accumulated ref, sorted by score descending.
func (a *refAccumulator) sortedByScore() []refs.Ref {
	out := make([]refs.Ref, 0, len(a.order))
	for _, k := range a.order {
		out = append(out, a.byKey[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

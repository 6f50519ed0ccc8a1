package index

import "sort"

// tier1Intersect looks up each query token's posting list, sorts lists
// ascending by length, and intersects from smallest outward, early-exiting
// once the running intersection is empty. queryTokens must already be
// deduplicated by the caller.
// Complexity: O(sum(|pl|) log k).
func tier1Intersect(idx *Index, queryTokens []string) []string {
	if len(queryTokens) == 0 {
		return nil
	}

	lists := make([][]string, 0, len(queryTokens))
	for _, tok := range queryTokens {
		pl := idx.PostingList(tok)
		if len(pl) == 0 {
			// A query token absent from the index can never be satisfied
			// by an AND-intersection; short-circuit.
			return nil
		}
		lists = append(lists, pl)
	}

	sort.Slice(lists, func(i, j int) bool { return len(lists[i]) < len(lists[j]) })

	candidate := lists[0]
	for _, next := range lists[1:] {
		candidate = intersectSorted(candidate, next)
		if len(candidate) == 0 {
			return nil
		}
	}
	return candidate
}

// intersectSorted intersects two sorted, deduplicated string slices.
func intersectSorted(a, b []string) []string {
	out := make([]string, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

package engine

import "sort"

// consolidate turns raw resolved spans into an invariant-respecting
// LineResult: exact duplicates removed, then a priority-first sweep.
// Spans are processed in descending priority (ties by ascending
// start), each one clipped against the columns already claimed by
// stronger spans: a span loses its overlapped region, keeps any
// uncovered remainder, and is dropped outright when fully covered. A
// weaker span surrounding a stronger one survives as two fragments.
// Priority lives in the processing order, not in a post-hoc fixup.
func consolidate(raw []Span) LineResult {
	if len(raw) == 0 {
		return nil
	}

	type triple struct {
		start, end int
		category   Category
	}
	seen := make(map[triple]bool, len(raw))
	spans := make([]Span, 0, len(raw))
	for _, s := range raw {
		key := triple{s.StartCol, s.EndCol, s.Category}
		if seen[key] {
			continue
		}
		seen[key] = true
		spans = append(spans, s)
	}

	// Stable so that spans identical in priority and start keep their
	// arrival order (first match wins).
	sort.SliceStable(spans, func(a, b int) bool {
		if spans[a].Priority != spans[b].Priority {
			return spans[a].Priority > spans[b].Priority
		}
		return spans[a].StartCol < spans[b].StartCol
	})

	result := make(LineResult, 0, len(spans))
	for _, s := range spans {
		for _, fragment := range subtractCovered(s, result) {
			result = append(result, fragment)
		}
	}

	sort.Slice(result, func(a, b int) bool {
		return result[a].StartCol < result[b].StartCol
	})
	return result
}

// subtractCovered clips span s against every already-kept span,
// returning the surviving fragments in ascending order.
func subtractCovered(s Span, kept LineResult) []Span {
	fragments := []Span{s}
	for _, k := range kept {
		next := fragments[:0:0]
		for _, f := range fragments {
			if k.EndCol < f.StartCol || k.StartCol > f.EndCol {
				next = append(next, f)
				continue
			}
			if f.StartCol < k.StartCol {
				left := f
				left.EndCol = k.StartCol - 1
				next = append(next, left)
			}
			if f.EndCol > k.EndCol {
				right := f
				right.StartCol = k.EndCol + 1
				next = append(next, right)
			}
		}
		fragments = next
		if len(fragments) == 0 {
			break
		}
	}
	return fragments
}

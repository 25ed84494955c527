package core

import (
	"math"
	"sort"
)

// MergePages recombines a wide table that the source split into a run of
// left-half pages followed by a run of right-half pages.
//
// With at most layout.MergeThreshold pages the input is returned unchanged.
// Otherwise the pages are split at the midpoint, second-half fragments are
// shifted right by layout.MergeOffset, and page i of each half is merged:
// the pair is stably sorted by y, consecutive fragments within
// layout.MergeTolerance of the run's first y form a run, each run is
// ordered by x, and the runs are flattened back into one page. The result
// has min(len(first), len(second)) pages; unmatched trailing pages are dropped.
func MergePages(pages []Page, layout Layout) []Page {
	if len(pages) <= layout.MergeThreshold {
		return pages
	}

	mid := len(pages) / 2
	first, second := pages[:mid], pages[mid:]
	n := min(len(first), len(second))

	merged := make([]Page, n)
	for i := 0; i < n; i++ {
		merged[i] = mergePair(first[i], shiftX(second[i], layout.MergeOffset), layout.MergeTolerance)
	}
	return merged
}

func shiftX(page Page, dx float64) Page {
	shifted := make(Page, len(page))
	for i, f := range page {
		f.X += dx
		shifted[i] = f
	}
	return shifted
}

func mergePair(left, right Page, tolerance float64) Page {
	combined := make([]Fragment, 0, len(left)+len(right))
	combined = append(combined, left...)
	combined = append(combined, right...)
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Y < combined[j].Y
	})

	out := make(Page, 0, len(combined))
	start := 0
	for i := 1; i <= len(combined); i++ {
		if i < len(combined) && math.Abs(combined[i].Y-combined[start].Y) <= tolerance {
			continue
		}
		out = append(out, sortByX(combined[start:i])...)
		start = i
	}
	return out
}

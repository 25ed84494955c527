package core

import (
	"math"
	"sort"
	"strings"
)

// HeaderResult is the outcome of header resolution.
// Labels[i] belongs to the column whose left edge is Edges[i].
type HeaderResult struct {
	Labels []string
	Edges  []float64
	Rows   []Row
}

// LastRowY returns the y of the first fragment of the last header row.
// With no header rows it returns negative infinity.
func (h HeaderResult) LastRowY() float64 {
	if len(h.Rows) == 0 {
		return math.Inf(-1)
	}
	return h.Rows[len(h.Rows)-1][0].Y
}

// ResolveHeaders derives column edges and labels from the first
// headerFragmentCount fragments of the first page.
//
// The edges are the distinct x values of those fragments, ascending. Each
// label is built by taking, for every header row in top to bottom order,
// the fragments lying within the snap distance of the edge, and joining the
// trimmed texts with single spaces. Labels may be empty.
func ResolveHeaders(firstPage Page, headerFragmentCount int, layout Layout) HeaderResult {
	n := min(max(headerFragmentCount, 0), len(firstPage))
	return resolveHeaderRegion(firstPage[:n], layout)
}

// DetectHeaders resolves the header from the rows of the first page that
// precede the first row containing a date. When no such row exists, or no
// date classifier is registered, it falls back to the fixed fragment count.
func DetectHeaders(firstPage Page, layout Layout) HeaderResult {
	if _, ok := Get("datum"); ok {
		var region []Fragment
		for _, row := range GroupByRows(firstPage, layout.HeaderTolerance) {
			if rowHasDate(row) {
				if len(region) > 0 {
					return resolveHeaderRegion(region, layout)
				}
				break
			}
			region = append(region, row...)
		}
	}
	return ResolveHeaders(firstPage, layout.HeaderFragments, layout)
}

func rowHasDate(row Row) bool {
	for _, f := range row {
		if Accepts("datum", strings.TrimSpace(f.Text)) {
			return true
		}
	}
	return false
}

func resolveHeaderRegion(region []Fragment, layout Layout) HeaderResult {
	rows := GroupByRows(region, layout.HeaderTolerance)
	edges := distinctX(region)

	labels := make([]string, len(edges))
	for i, edge := range edges {
		var parts []string
		for _, row := range rows {
			var texts []string
			for _, f := range row {
				if math.Abs(f.X-edge) < layout.SnapDistance {
					texts = append(texts, strings.TrimSpace(f.Text))
				}
			}
			if len(texts) > 0 {
				parts = append(parts, strings.Join(texts, " "))
			}
		}
		labels[i] = strings.TrimSpace(strings.Join(parts, " "))
	}

	return HeaderResult{Labels: labels, Edges: edges, Rows: rows}
}

func distinctX(fragments []Fragment) []float64 {
	seen := make(map[float64]bool, len(fragments))
	var xs []float64
	for _, f := range fragments {
		if !seen[f.X] {
			seen[f.X] = true
			xs = append(xs, f.X)
		}
	}
	sort.Float64s(xs)
	return xs
}

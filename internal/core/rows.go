package core

import (
	"math"
	"sort"
)

// GroupByRows clusters fragments into rows by vertical proximity.
//
// Fragments are stably sorted by y. A row's anchor is the y of its first
// member; a fragment joins the current row when its y differs from the
// anchor by at most tolerance, otherwise it starts a new row. Anchoring on
// the first member keeps a slow drift in y from chaining unrelated lines.
// Within a row, fragments keep their sorted-by-y order.
func GroupByRows(fragments []Fragment, tolerance float64) []Row {
	if len(fragments) == 0 {
		return nil
	}

	sorted := make([]Fragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y < sorted[j].Y
	})

	var rows []Row
	current := Row{sorted[0]}
	anchor := sorted[0].Y
	for _, f := range sorted[1:] {
		if math.Abs(f.Y-anchor) <= tolerance {
			current = append(current, f)
			continue
		}
		rows = append(rows, current)
		current = Row{f}
		anchor = f.Y
	}
	return append(rows, current)
}

// Flatten concatenates pages in order.
func Flatten(pages []Page) []Fragment {
	n := 0
	for _, p := range pages {
		n += len(p)
	}
	out := make([]Fragment, 0, n)
	for _, p := range pages {
		out = append(out, p...)
	}
	return out
}

// sortByX returns a copy of row ordered by x, ties keeping input order.
func sortByX(row Row) Row {
	sorted := make(Row, len(row))
	copy(sorted, row)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})
	return sorted
}

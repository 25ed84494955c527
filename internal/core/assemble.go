package core

import (
	"math"
	"sort"
	"strings"
)

// Outcome tags what happened to one fragment during row assembly.
type Outcome int

const (
	Placed Outcome = iota
	DroppedNoMatch
)

func (o Outcome) String() string {
	switch o {
	case Placed:
		return "placed"
	case DroppedNoMatch:
		return "dropped_no_match"
	default:
		return "unknown"
	}
}

// Placement records the fate of one fragment. Column is set only when placed.
type Placement struct {
	Fragment Fragment
	Outcome  Outcome
	Column   string
}

// Assemble builds one record from a data row. See AssembleRow.
func Assemble(row Row, columns []ColumnSpec, layout Layout) ExamRecord {
	rec, _ := AssembleRow(row, columns, layout)
	return rec
}

// AssembleRow assigns each fragment of row to at most one column.
//
// Fragments are visited left to right. For each fragment the columns are
// ranked by distance from the fragment's x to the column reference (the
// left edge, or the midpoint for center-aligned keys), and the fragment
// goes to the first column that is still free and whose classifier accepts
// the trimmed text. A fragment with no such column is dropped. The record
// always contains every column key.
func AssembleRow(row Row, columns []ColumnSpec, layout Layout) (ExamRecord, []Placement) {
	rec := make(ExamRecord, len(columns))
	for _, c := range columns {
		rec[c.Key] = ""
	}

	refs := make([]float64, len(columns))
	for i, c := range columns {
		refs[i] = c.Left
		if layout.CenterAligned[c.Key] {
			refs[i] = c.Left + c.Width/2
		}
	}

	occupied := make([]bool, len(columns))
	ranking := make([]int, len(columns))
	placements := make([]Placement, 0, len(row))

	for _, f := range sortByX(row) {
		text := strings.TrimSpace(f.Text)

		for i := range ranking {
			ranking[i] = i
		}
		sort.SliceStable(ranking, func(a, b int) bool {
			return math.Abs(f.X-refs[ranking[a]]) < math.Abs(f.X-refs[ranking[b]])
		})

		p := Placement{Fragment: f, Outcome: DroppedNoMatch}
		for _, idx := range ranking {
			if occupied[idx] || !Accepts(columns[idx].Key, text) {
				continue
			}
			occupied[idx] = true
			rec[columns[idx].Key] = text
			p.Outcome = Placed
			p.Column = columns[idx].Key
			break
		}
		placements = append(placements, p)
	}

	return rec, placements
}

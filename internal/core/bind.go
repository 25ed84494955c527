package core

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// HeaderMismatchError reports that the resolved header does not line up with
// the registered column set. It replaces silent positional binding.
type HeaderMismatchError struct {
	Mode      BindMode
	Expected  int      // registered columns
	Found     int      // resolved header edges
	Unmatched []string // labels that matched no column, or matched one twice
}

func (e *HeaderMismatchError) Error() string {
	if len(e.Unmatched) > 0 {
		return fmt.Sprintf("header mismatch (%s binding): unmatched labels %q", e.Mode, e.Unmatched)
	}
	return fmt.Sprintf("header mismatch (%s binding): expected %d columns, found %d", e.Mode, e.Expected, e.Found)
}

// BindColumns turns a resolved header into column specs.
//
// Widths are the distance to the next edge; the last column gets
// layout.LastColumnWidth. Keys come from the registry, either by matching
// labels (NFC normalised, case folded, whitespace and hyphens ignored)
// against each definition's key, label and aliases, or by position. Any
// disagreement in count or labels is a *HeaderMismatchError.
func BindColumns(h HeaderResult, layout Layout) ([]ColumnSpec, error) {
	defs := All()
	mode := layout.Binding
	if mode == "" {
		mode = BindByLabel
	}

	if len(h.Edges) != len(defs) {
		return nil, &HeaderMismatchError{Mode: mode, Expected: len(defs), Found: len(h.Edges)}
	}

	keys := make([]string, len(h.Edges))
	switch mode {
	case BindByPosition:
		for i, def := range defs {
			keys[i] = def.Key
		}
	default:
		lookup := make(map[string]string)
		for _, def := range defs {
			for _, name := range append([]string{def.Key, def.Label}, def.Aliases...) {
				lookup[CanonicalLabel(name)] = def.Key
			}
		}
		used := make(map[string]bool, len(defs))
		var unmatched []string
		for i, label := range h.Labels {
			key, ok := lookup[CanonicalLabel(label)]
			if !ok || used[key] {
				unmatched = append(unmatched, label)
				continue
			}
			used[key] = true
			keys[i] = key
		}
		if len(unmatched) > 0 {
			return nil, &HeaderMismatchError{Mode: mode, Expected: len(defs), Found: len(h.Edges), Unmatched: unmatched}
		}
	}

	specs := make([]ColumnSpec, len(h.Edges))
	for i, edge := range h.Edges {
		width := layout.LastColumnWidth
		if i+1 < len(h.Edges) {
			width = h.Edges[i+1] - edge
		}
		specs[i] = ColumnSpec{Key: keys[i], Left: edge, Width: width}
	}
	return specs, nil
}

// CanonicalLabel folds a header label for comparison.
func CanonicalLabel(s string) string {
	s = cases.Fold().String(norm.NFC.String(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' || r == '\u00ad' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

package core

import "fmt"

// BindMode selects how resolved header edges are bound to column keys.
type BindMode string

const (
	// BindByLabel matches each header label against the registered labels.
	BindByLabel BindMode = "label"
	// BindByPosition assigns the registered keys in order, left to right.
	BindByPosition BindMode = "position"
)

// Layout holds the geometric parameters of the reconstruction.
// All distances are in layout units.
type Layout struct {
	HeaderFragments int      // Leading fragments of page one that form the header
	DetectHeader    bool     // Find the header end at the first row holding a date
	HeaderTolerance float64  // Row grouping tolerance inside the header
	DataTolerance   float64  // Row grouping tolerance for data rows
	SnapDistance    float64  // Max distance of a header fragment from its edge
	HeaderGap       float64  // Data rows must lie this far below the last header row
	LastColumnWidth float64  // Width assigned to the right-most column
	MergeThreshold  int      // Page merging runs only above this page count
	MergeOffset     float64  // Horizontal shift applied to second-half pages
	MergeTolerance  float64  // Row tolerance when interleaving paired pages
	MaxPages        int      // 0 reads every page
	Binding         BindMode // label or position
	CenterAligned   map[string]bool
}

// DefaultLayout returns the layout used for the published exam plans.
// CenterAligned is taken from the column registry.
func DefaultLayout() Layout {
	return Layout{
		HeaderFragments: 28,
		HeaderTolerance: 0.5,
		DataTolerance:   0.1,
		SnapDistance:    0.7,
		HeaderGap:       0.01,
		LastColumnWidth: 10,
		MergeThreshold:  5,
		MergeOffset:     100,
		MergeTolerance:  0.01,
		Binding:         BindByLabel,
		CenterAligned:   CenterAligned(),
	}
}

// Validate reports parameter combinations the pipeline cannot work with.
func (l Layout) Validate() error {
	if l.HeaderFragments < 0 {
		return fmt.Errorf("header fragments must be >= 0, got %d", l.HeaderFragments)
	}
	if l.HeaderTolerance < 0 || l.DataTolerance < 0 || l.MergeTolerance < 0 {
		return fmt.Errorf("row tolerances must be >= 0")
	}
	if l.SnapDistance <= 0 {
		return fmt.Errorf("snap distance must be > 0, got %v", l.SnapDistance)
	}
	if l.MaxPages < 0 {
		return fmt.Errorf("max pages must be >= 0, got %d", l.MaxPages)
	}
	switch l.Binding {
	case BindByLabel, BindByPosition, "":
	default:
		return fmt.Errorf("unknown binding mode %q", l.Binding)
	}
	return nil
}

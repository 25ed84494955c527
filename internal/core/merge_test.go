package core_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/examplan/internal/core"
)

func numberedPages(n int) []core.Page {
	pages := make([]core.Page, n)
	for i := range pages {
		pages[i] = core.Page{{Text: fmt.Sprintf("p%d", i), X: 1, Y: 1}}
	}
	return pages
}

func TestMergePages_CountLaw(t *testing.T) {
	layout := core.DefaultLayout()
	for n := 0; n <= 12; n++ {
		pages := numberedPages(n)
		merged := core.MergePages(pages, layout)
		if n <= 5 {
			assert.Equal(t, pages, merged, "n=%d", n)
			continue
		}
		assert.Len(t, merged, n/2, "n=%d", n)
	}
}

func TestMergePages_ShiftsAndInterleaves(t *testing.T) {
	pages := numberedPages(6)
	pages[0] = core.Page{
		{Text: "L-row2", X: 3, Y: 2},
		{Text: "L-row1", X: 3, Y: 1},
	}
	pages[3] = core.Page{
		{Text: "R-row1", X: 2, Y: 1.005},
		{Text: "R-row2", X: 1, Y: 2},
	}

	merged := core.MergePages(pages, core.DefaultLayout())

	require.Len(t, merged, 3)
	assert.Equal(t, core.Page{
		{Text: "L-row1", X: 3, Y: 1},
		{Text: "R-row1", X: 102, Y: 1.005},
		{Text: "L-row2", X: 3, Y: 2},
		{Text: "R-row2", X: 101, Y: 2},
	}, merged[0])
}

func TestMergePages_DropsUnmatchedTrailingPage(t *testing.T) {
	merged := core.MergePages(numberedPages(7), core.DefaultLayout())

	require.Len(t, merged, 3)
	// Page 0 pairs with page 3, page 2 with page 5; page 6 has no partner.
	assert.Equal(t, "p2", merged[2][0].Text)
	assert.Equal(t, "p5", merged[2][1].Text)
	assert.Equal(t, 101.0, merged[2][1].X)
}

func TestMergePages_DoesNotMutateInput(t *testing.T) {
	pages := numberedPages(6)
	core.MergePages(pages, core.DefaultLayout())
	assert.Equal(t, 1.0, pages[3][0].X)
}

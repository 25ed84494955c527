package core_test

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/examplan/internal/core"
)

var midKuerzel = []core.ColumnSpec{
	{Key: "mid", Left: 0, Width: 20},
	{Key: "kuerzel", Left: 20, Width: 10},
}

func TestAssemble_NearestColumn(t *testing.T) {
	row := core.Row{
		{Text: "AB", X: 19, Y: 0},
		{Text: "M1", X: 1, Y: 0},
	}

	rec := core.Assemble(row, midKuerzel, core.Layout{})

	assert.Equal(t, core.ExamRecord{"mid": "M1", "kuerzel": "AB"}, rec)
}

func TestAssembleRow_ClassifierVeto(t *testing.T) {
	row := core.Row{
		{Text: "M1", X: 1.1, Y: 0},
		{Text: "   ", X: 0.9, Y: 0},
	}

	rec, placements := core.AssembleRow(row, midKuerzel, core.Layout{})

	assert.Equal(t, core.ExamRecord{"mid": "M1", "kuerzel": ""}, rec)
	require.Len(t, placements, 2)
	assert.Equal(t, core.DroppedNoMatch, placements[0].Outcome)
	assert.Empty(t, placements[0].Column)
	assert.Equal(t, core.Placed, placements[1].Outcome)
	assert.Equal(t, "mid", placements[1].Column)
}

func TestAssembleRow_OccupiedColumnFallsThrough(t *testing.T) {
	row := core.Row{
		{Text: "M1", X: 0, Y: 0},
		{Text: "M2", X: 1, Y: 0},
	}

	rec, placements := core.AssembleRow(row, midKuerzel, core.Layout{})

	// "M2" cannot take mid again, so it lands in the next nearest column that accepts it.
	assert.Equal(t, core.ExamRecord{"mid": "M1", "kuerzel": "M2"}, rec)
	assert.Equal(t, "kuerzel", placements[1].Column)
}

func TestAssembleRow_CenterAlignedUsesMidpoint(t *testing.T) {
	columns := []core.ColumnSpec{
		{Key: "pi_ba", Left: 0, Width: 10},
		{Key: "ti_ba", Left: 10, Width: 10},
	}
	row := core.Row{{Text: "3", X: 8, Y: 0}}

	byEdge := core.Assemble(row, columns, core.Layout{})
	assert.Equal(t, "3", byEdge["ti_ba"])

	centered := core.Layout{CenterAligned: map[string]bool{"pi_ba": true, "ti_ba": true}}
	byMid := core.Assemble(row, columns, centered)
	assert.Equal(t, "3", byMid["pi_ba"])
	assert.Empty(t, byMid["ti_ba"])
}

func TestAssemble_EmptyRowYieldsAllKeys(t *testing.T) {
	rec := core.Assemble(nil, midKuerzel, core.Layout{})
	assert.Equal(t, core.ExamRecord{"mid": "", "kuerzel": ""}, rec)
}

func TestAssembleRow_Exclusivity(t *testing.T) {
	columns := []core.ColumnSpec{
		{Key: "mid", Left: 0, Width: 4},
		{Key: "kuerzel", Left: 4, Width: 4},
		{Key: "datum", Left: 8, Width: 6},
		{Key: "zeit", Left: 14, Width: 4},
		{Key: "raeume", Left: 18, Width: 10},
	}
	values := []string{"M1", "ADS", "2025-01-20", "10:00", "H1.01", "", "12", "x"}
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 200; i++ {
		var row core.Row
		for j := rng.IntN(8); j > 0; j-- {
			row = append(row, core.Fragment{
				Text: values[rng.IntN(len(values))],
				X:    rng.Float64() * 30,
			})
		}

		rec, placements := core.AssembleRow(row, columns, core.DefaultLayout())

		require.Len(t, rec, len(columns), "iteration %d", i)
		for _, c := range columns {
			assert.Contains(t, rec, c.Key)
		}

		seen := make(map[string]bool)
		for _, p := range placements {
			if p.Outcome != core.Placed {
				continue
			}
			assert.False(t, seen[p.Column], "column %s placed twice in %v", p.Column, row)
			seen[p.Column] = true
			assert.Equal(t, strings.TrimSpace(p.Fragment.Text), rec[p.Column])
		}
		assert.Len(t, placements, len(row), fmt.Sprintf("iteration %d", i))
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "placed", core.Placed.String())
	assert.Equal(t, "dropped_no_match", core.DroppedNoMatch.String())
}

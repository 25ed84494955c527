package core_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/examplan/internal/core"
)

func texts(rows []core.Row) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		for _, f := range row {
			out[i] = append(out[i], f.Text)
		}
	}
	return out
}

func TestGroupByRows_Empty(t *testing.T) {
	assert.Empty(t, core.GroupByRows(nil, 0.1))
}

func TestGroupByRows_ShuffleInvariant(t *testing.T) {
	fragments := []core.Fragment{
		{Text: "a", X: 1, Y: 1.00},
		{Text: "b", X: 5, Y: 1.05},
		{Text: "c", X: 9, Y: 2.00},
		{Text: "d", X: 2, Y: 2.08},
		{Text: "e", X: 3, Y: 3.50},
		{Text: "f", X: 7, Y: 7.20},
		{Text: "g", X: 4, Y: 7.25},
	}
	want := rowSets(core.GroupByRows(fragments, 0.1))
	require.Len(t, want, 4)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		shuffled := append([]core.Fragment(nil), fragments...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, rowSets(core.GroupByRows(shuffled, 0.1)))
	}
}

func rowSets(rows []core.Row) []map[string]bool {
	out := make([]map[string]bool, len(rows))
	for i, row := range rows {
		out[i] = make(map[string]bool)
		for _, f := range row {
			out[i][f.Text] = true
		}
	}
	return out
}

func TestGroupByRows_ToleranceAnchoredOnFirstMember(t *testing.T) {
	// Each step is within tolerance of its predecessor, but "c" is more
	// than tolerance away from the anchor "a".
	rows := core.GroupByRows([]core.Fragment{
		{Text: "a", Y: 1.00},
		{Text: "b", Y: 1.08},
		{Text: "c", Y: 1.16},
		{Text: "d", Y: 1.24},
	}, 0.1)

	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, texts(rows))
}

func TestGroupByRows_ToleranceIsInclusive(t *testing.T) {
	rows := core.GroupByRows([]core.Fragment{
		{Text: "a", Y: 1.0},
		{Text: "b", Y: 1.5},
		{Text: "c", Y: 1.5000001},
	}, 0.5)

	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, texts(rows))
}

func TestGroupByRows_DoesNotMutateInput(t *testing.T) {
	in := []core.Fragment{{Text: "b", Y: 2}, {Text: "a", Y: 1}}
	core.GroupByRows(in, 0.1)
	assert.Equal(t, "b", in[0].Text)
}

package fragments

import (
	"math"
	"strings"
	"unicode"
)

// Glyph is one positioned string as reported by a PDF decoder, in points
// with the origin at the bottom-left of the page.
type Glyph struct {
	Text     string
	Font     string
	FontSize float64
	X, Y, W  float64
}

// Run is a horizontal sequence of glyphs merged into one piece of text.
// X is the left edge and Y the baseline of the first glyph.
type Run struct {
	Text     string
	X, Y     float64
	FontSize float64
}

// MergeOptions controls glyph merging. Gaps are in ems of the font size.
type MergeOptions struct {
	JoinGap     float64 // larger gaps start a new run
	SpaceGap    float64 // larger gaps inside a run insert a space
	YTolerance  float64 // baseline difference in points still on the same line
	SizeEpsilon float64 // font size difference in points still the same style
}

// DefaultMergeOptions suits the exam plan tables.
var DefaultMergeOptions = MergeOptions{
	JoinGap:     0.6,
	SpaceGap:    0.15,
	YTolerance:  0.5,
	SizeEpsilon: 0.5,
}

// MergeGlyphs joins consecutive glyphs of the decoder's emission order into
// runs. A run ends when the baseline moves, the font size changes, the next
// glyph jumps back, or the horizontal gap exceeds the join threshold.
// Whitespace-only runs are discarded.
func MergeGlyphs(glyphs []Glyph, opts MergeOptions) []Run {
	var (
		runs    []Run
		current *Run
		text    strings.Builder
		lastEnd float64
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(text.String())
		if current.Text != "" {
			runs = append(runs, *current)
		}
		current = nil
		text.Reset()
	}

	for _, g := range glyphs {
		if g.Text == "" {
			continue
		}
		em := math.Max(g.FontSize, 1)

		if current != nil {
			gap := g.X - lastEnd
			sameLine := math.Abs(g.Y-current.Y) <= opts.YTolerance
			sameSize := math.Abs(g.FontSize-current.FontSize) <= opts.SizeEpsilon
			if !sameLine || !sameSize || gap > opts.JoinGap*em || gap < -opts.JoinGap*em {
				flush()
			} else if gap > opts.SpaceGap*em && !endsWithSpace(text.String()) && !startsWithSpace(g.Text) {
				text.WriteByte(' ')
			}
		}

		if current == nil {
			if strings.TrimSpace(g.Text) == "" {
				continue
			}
			current = &Run{X: g.X, Y: g.Y, FontSize: g.FontSize}
		}
		text.WriteString(g.Text)
		lastEnd = g.X + g.W
	}
	flush()
	return runs
}

func endsWithSpace(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)
	return unicode.IsSpace(r[len(r)-1])
}

func startsWithSpace(s string) bool {
	for _, r := range s {
		return unicode.IsSpace(r)
	}
	return false
}

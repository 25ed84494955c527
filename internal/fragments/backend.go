package fragments

import (
	"bytes"
	"fmt"

	dslipak "github.com/dslipak/pdf"
	ledongthuc "github.com/ledongthuc/pdf"
)

// backend decodes the glyphs of every page of a document.
type backend interface {
	Name() string
	Glyphs(data []byte, maxPages int) ([][]Glyph, error)
}

// Backend names accepted in Options.Backends.
const (
	BackendLedongthuc = "ledongthuc"
	BackendDslipak    = "dslipak"
)

func backendByName(name string) (backend, error) {
	switch name {
	case BackendLedongthuc:
		return ledongthucBackend{}, nil
	case BackendDslipak:
		return dslipakBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown pdf backend %q", name)
	}
}

type ledongthucBackend struct{}

func (ledongthucBackend) Name() string { return BackendLedongthuc }

// Glyphs recovers from panics: the content stream interpreter panics on
// malformed operators instead of returning an error.
func (ledongthucBackend) Glyphs(data []byte, maxPages int) (pages [][]Glyph, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ledongthuc: %v", r)
		}
	}()

	r, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	n := pageLimit(r.NumPage(), maxPages)
	pages = make([][]Glyph, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, t := range p.Content().Text {
			pages[i-1] = append(pages[i-1], Glyph{Text: t.S, Font: t.Font, FontSize: t.FontSize, X: t.X, Y: t.Y, W: t.W})
		}
	}
	return pages, nil
}

type dslipakBackend struct{}

func (dslipakBackend) Name() string { return BackendDslipak }

func (dslipakBackend) Glyphs(data []byte, maxPages int) (pages [][]Glyph, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dslipak: %v", r)
		}
	}()

	r, err := dslipak.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	n := pageLimit(r.NumPage(), maxPages)
	pages = make([][]Glyph, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, t := range p.Content().Text {
			pages[i-1] = append(pages[i-1], Glyph{Text: t.S, Font: t.Font, FontSize: t.FontSize, X: t.X, Y: t.Y, W: t.W})
		}
	}
	return pages, nil
}

func pageLimit(n, max int) int {
	if max > 0 && n > max {
		return max
	}
	return n
}

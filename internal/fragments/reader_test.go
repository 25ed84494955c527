package fragments

import (
	"context"
	"errors"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/examplan/internal/core"
)

type fakeBackend struct {
	name  string
	pages [][]Glyph
	err   error
	calls int
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Glyphs(_ []byte, maxPages int) ([][]Glyph, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[:pageLimit(len(f.pages), maxPages)], nil
}

func testReader(t *testing.T, opts Options, backends ...backend) *Reader {
	t.Helper()
	r, err := NewReader(opts)
	require.NoError(t, err)
	r.backends = backends
	r.inspect = func([]byte) ([]types.Dim, error) {
		return []types.Dim{{Width: 800, Height: 600}, {Width: 800, Height: 0}}, nil
	}
	return r
}

var pdfBytes = []byte("%PDF-1.7\n% test document")

func word(text string, x, y float64) []Glyph {
	var glyphs []Glyph
	for _, r := range text {
		glyphs = append(glyphs, Glyph{Text: string(r), FontSize: 10, X: x, Y: y, W: 5})
		x += 5
	}
	return glyphs
}

func TestReadPages_ConvertsUnits(t *testing.T) {
	page1 := append(word("MID", 16, 584), word("Datum", 160, 584)...)
	b := &fakeBackend{name: "fake", pages: [][]Glyph{page1, nil, word("x", 32, 300)}}
	r := testReader(t, Options{}, b)

	pages, err := r.ReadPages(context.Background(), pdfBytes)
	require.NoError(t, err)

	// The empty second page is skipped; the third has no dimensions and
	// falls back to A4 landscape.
	require.Len(t, pages, 2)
	assert.Equal(t, core.Page{
		{Text: "MID", X: 1, Y: 1},
		{Text: "Datum", X: 10, Y: 1},
	}, pages[0])
	assert.InDelta(t, (595.28-300)/16, pages[1][0].Y, 1e-9)
	assert.Equal(t, 2.0, pages[1][0].X)
}

func TestStream_Events(t *testing.T) {
	b := &fakeBackend{name: "fake", pages: [][]Glyph{word("A", 16, 584), word("B", 16, 584)}}
	r := testReader(t, Options{}, b)

	var events []Event
	err := r.Stream(context.Background(), pdfBytes, func(ev Event) error {
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, events, 4)
	assert.Equal(t, Event{Kind: PageStart, Page: 1}, events[0])
	assert.Equal(t, Text, events[1].Kind)
	assert.Equal(t, "A", events[1].Fragment.Text)
	assert.Equal(t, Event{Kind: PageStart, Page: 2}, events[2])
	assert.Equal(t, 2, events[3].Page)
}

func TestStream_EmitErrorStops(t *testing.T) {
	b := &fakeBackend{name: "fake", pages: [][]Glyph{word("A", 16, 584)}}
	r := testReader(t, Options{}, b)
	stop := errors.New("stop")

	err := r.Stream(context.Background(), pdfBytes, func(Event) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func TestReadPages_FallsBackToNextBackend(t *testing.T) {
	broken := &fakeBackend{name: "broken", err: errors.New("bad xref")}
	good := &fakeBackend{name: "good", pages: [][]Glyph{word("ok", 0, 500)}}
	r := testReader(t, Options{}, broken, good)

	pages, err := r.ReadPages(context.Background(), pdfBytes)
	require.NoError(t, err)
	assert.Equal(t, "ok", pages[0][0].Text)
	assert.Equal(t, 1, broken.calls)
}

func TestReadPages_AllBackendsFail(t *testing.T) {
	r := testReader(t, Options{},
		&fakeBackend{name: "one", err: errors.New("bad xref")},
		&fakeBackend{name: "two", err: errors.New("bad stream")},
	)

	_, err := r.ReadPages(context.Background(), pdfBytes)
	require.ErrorIs(t, err, core.ErrDecode)
	assert.Contains(t, err.Error(), "bad xref")
	assert.Contains(t, err.Error(), "bad stream")
}

func TestReadPages_MaxPages(t *testing.T) {
	b := &fakeBackend{name: "fake", pages: [][]Glyph{word("A", 0, 500), word("B", 0, 500), word("C", 0, 500)}}
	r := testReader(t, Options{MaxPages: 2}, b)

	pages, err := r.ReadPages(context.Background(), pdfBytes)
	require.NoError(t, err)
	assert.Len(t, pages, 2)
}

func TestReadPages_RejectsInput(t *testing.T) {
	r, err := NewReader(Options{})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = r.ReadPages(ctx, nil)
	assert.ErrorIs(t, err, core.ErrEmptyFile)

	_, err = r.ReadPages(ctx, []byte("hello, world"))
	assert.ErrorIs(t, err, core.ErrNotPDF)

	_, err = r.ReadPages(ctx, []byte("%PDF-1.4\nthis is not a document\n"))
	assert.ErrorIs(t, err, core.ErrDecode)
}

func TestReadPages_InspectFailure(t *testing.T) {
	r := testReader(t, Options{}, &fakeBackend{name: "fake"})
	r.inspect = func([]byte) ([]types.Dim, error) { return nil, errors.New("xref corrupt") }

	_, err := r.ReadPages(context.Background(), pdfBytes)
	assert.ErrorIs(t, err, core.ErrDecode)
}

func TestReadPages_EncryptedDocument(t *testing.T) {
	r := testReader(t, Options{}, &fakeBackend{name: "fake"})
	r.inspect = func([]byte) ([]types.Dim, error) {
		return nil, errors.New("pdfcpu: this file is encrypted, please provide the user password")
	}

	_, err := r.ReadPages(context.Background(), pdfBytes)
	assert.ErrorIs(t, err, core.ErrDecode)
	assert.ErrorIs(t, err, core.ErrEncrypted)
	assert.Equal(t, "PDF003", core.MapError(err).Code)
}

func TestReadPages_Cancelled(t *testing.T) {
	r := testReader(t, Options{}, &fakeBackend{name: "fake", pages: [][]Glyph{word("A", 0, 500)}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ReadPages(ctx, pdfBytes)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewReader_UnknownBackend(t *testing.T) {
	_, err := NewReader(Options{Backends: []string{"mupdf"}})
	assert.Error(t, err)
}

func TestCollectPages(t *testing.T) {
	f := func(s string) Event { return Event{Kind: Text, Fragment: core.Fragment{Text: s}} }
	pages := CollectPages([]Event{
		f("orphan"),
		{Kind: PageStart, Page: 1},
		f("a"),
		f("b"),
		{Kind: PageStart, Page: 2},
		{Kind: PageStart, Page: 3},
		f("c"),
	})

	require.Len(t, pages, 3)
	assert.Equal(t, "orphan", pages[0][0].Text)
	assert.Len(t, pages[1], 2)
	assert.Equal(t, "c", pages[2][0].Text)

	assert.Empty(t, CollectPages(nil))
}

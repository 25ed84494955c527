// Package fragments decodes PDF bytes into pages of positioned text.
//
// The document is first read by pdfcpu for structural validation and page
// dimensions. Glyphs are then decoded with ledongthuc/pdf, falling back to
// dslipak/pdf, merged into runs and converted to layout units: x from the
// left edge and y from the top edge, both divided by Options.Unit.
package fragments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/JonMunkholm/examplan/internal/core"
)

// DefaultUnit is the number of points per layout unit.
const DefaultUnit = 16.0

// a4Landscape is used when a page reports no usable dimensions.
var a4Landscape = types.Dim{Width: 841.89, Height: 595.28}

// Options configures a Reader.
type Options struct {
	Unit     float64      // points per layout unit
	Merge    MergeOptions // glyph merging
	Validate bool         // run pdfcpu validation and log findings
	MaxPages int          // 0 decodes every page
	Backends []string     // decoders to try, in order
}

// Reader turns PDF bytes into core pages. It is safe for concurrent use.
type Reader struct {
	opts     Options
	backends []backend
	inspect  func(data []byte) ([]types.Dim, error)
}

// NewReader returns a Reader. Zero options select the defaults.
func NewReader(opts Options) (*Reader, error) {
	if opts.Unit <= 0 {
		opts.Unit = DefaultUnit
	}
	if opts.Merge == (MergeOptions{}) {
		opts.Merge = DefaultMergeOptions
	}
	if len(opts.Backends) == 0 {
		opts.Backends = []string{BackendLedongthuc, BackendDslipak}
	}

	r := &Reader{opts: opts}
	for _, name := range opts.Backends {
		b, err := backendByName(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		r.backends = append(r.backends, b)
	}
	r.inspect = r.pageDims
	return r, nil
}

// ReadPages decodes data and returns its non-empty pages.
func (r *Reader) ReadPages(ctx context.Context, data []byte) ([]core.Page, error) {
	var c PageCollector
	if err := r.Stream(ctx, data, c.Handle); err != nil {
		return nil, err
	}
	return c.Pages(), nil
}

// Stream decodes data and calls emit for every page boundary and fragment,
// in document order. Decoder failures wrap core.ErrDecode.
func (r *Reader) Stream(ctx context.Context, data []byte, emit func(Event) error) error {
	if len(data) == 0 {
		return core.ErrEmptyFile
	}
	if !bytes.Contains(data[:min(len(data), 1024)], []byte("%PDF-")) {
		return core.ErrNotPDF
	}

	dims, err := r.inspect(data)
	if err != nil {
		return decodeFailure(err)
	}

	pages, err := r.decode(ctx, data)
	if err != nil {
		return err
	}

	for i, glyphs := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(Event{Kind: PageStart, Page: i + 1}); err != nil {
			return err
		}
		dim := a4Landscape
		if i < len(dims) && dims[i].Height > 0 {
			dim = dims[i]
		}
		for _, run := range MergeGlyphs(glyphs, r.opts.Merge) {
			ev := Event{Kind: Text, Page: i + 1, Fragment: r.toFragment(run, dim)}
			if err := emit(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Reader) decode(ctx context.Context, data []byte) ([][]Glyph, error) {
	var errs []error
	for _, b := range r.backends {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages, err := b.Glyphs(data, r.opts.MaxPages)
		if err == nil {
			return pages, nil
		}
		slog.Warn("pdf backend failed", "backend", b.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
	}
	return nil, decodeFailure(errors.Join(errs...))
}

// decodeFailure wraps a decoder error in core.ErrDecode, adding
// core.ErrEncrypted when the library reported an encrypted document.
func decodeFailure(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "encrypt") || strings.Contains(msg, "password") {
		return fmt.Errorf("%w: %w: %w", core.ErrDecode, core.ErrEncrypted, err)
	}
	return fmt.Errorf("%w: %w", core.ErrDecode, err)
}

func (r *Reader) toFragment(run Run, dim types.Dim) core.Fragment {
	return core.Fragment{
		Text: run.Text,
		X:    run.X / r.opts.Unit,
		Y:    (dim.Height - run.Y) / r.opts.Unit,
	}
}

// pageDims reads the document with pdfcpu and returns the page sizes.
func (r *Reader) pageDims(data []byte) ([]types.Dim, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, err
	}
	if r.opts.Validate {
		if err := api.ValidateContext(ctx); err != nil {
			slog.Warn("pdf validation findings", "error", err)
		}
	}
	return ctx.PageDims()
}

package core

import "fmt"

// ParseResult is the reconstructed table of one document.
type ParseResult struct {
	Pages   int
	Headers []string
	Columns []ColumnSpec
	Records []ExamRecord
	Placed  int
	Dropped int
}

// Parse reconstructs the exam table from decoded pages.
//
// Pages are truncated to layout.MaxPages (when set) and merged. The header
// is resolved on the first page and bound to the registered columns. Every
// fragment below the last header row is grouped into rows with the data
// tolerance and assembled into one record per row, page then row order.
func Parse(pages []Page, layout Layout) (*ParseResult, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	if layout.MaxPages > 0 && len(pages) > layout.MaxPages {
		pages = pages[:layout.MaxPages]
	}

	pages = MergePages(pages, layout)

	var header HeaderResult
	if layout.DetectHeader {
		header = DetectHeaders(pages[0], layout)
	} else {
		header = ResolveHeaders(pages[0], layout.HeaderFragments, layout)
	}

	columns, err := BindColumns(header, layout)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Pages:   len(pages),
		Headers: header.Labels,
		Columns: columns,
	}

	cutoff := header.LastRowY() + layout.HeaderGap
	for _, page := range pages {
		var body []Fragment
		for _, f := range page {
			if f.Y > cutoff {
				body = append(body, f)
			}
		}

		for _, row := range GroupByRows(body, layout.DataTolerance) {
			rec, placements := AssembleRow(row, columns, layout)
			for _, p := range placements {
				if p.Outcome == Placed {
					result.Placed++
				} else {
					result.Dropped++
				}
			}
			result.Records = append(result.Records, rec)
		}
	}

	return result, nil
}

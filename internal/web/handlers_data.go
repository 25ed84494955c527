package web

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// handleExamsCSV exports the filtered records of a plan, visible columns only.
func (s *Server) handleExamsCSV(w http.ResponseWriter, r *http.Request) {
	state := parseViewState(r.URL.Query())
	res, err := s.service.Query(state.Plan, state.Filter())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	cols := state.Visible(res.Columns)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("pruefungsplan_%s_%s.csv", fileNamePart(res.Plan.Name), timestamp)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	csvWriter := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.Label
	}
	if err := csvWriter.Write(header); err != nil {
		// Can't change status code after writing, just log and return
		slog.Warn("csv export aborted", "error", err)
		return
	}

	record := make([]string, len(cols))
	for _, entry := range res.Entries {
		for i, col := range cols {
			record[i] = entry[col.Key]
		}
		if err := csvWriter.Write(record); err != nil {
			slog.Warn("csv export aborted", "error", err)
			return
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		slog.Warn("csv export flush failed", "error", err)
	}
}

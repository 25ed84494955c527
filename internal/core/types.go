package core

import (
	"time"

	"github.com/google/uuid"
)

// Fragment is a single piece of positioned text emitted by the PDF decoder.
// X and Y are in layout units; Y grows downwards.
type Fragment struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Page is the ordered list of fragments found on one page.
type Page []Fragment

// Row is a group of fragments sharing approximately the same vertical position.
type Row []Fragment

// ColumnSpec binds a semantic column key to a horizontal span.
type ColumnSpec struct {
	Key   string  `json:"key"`
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// ExamRecord maps column keys to the trimmed cell value found for that column.
// Keys absent from a record mean "no value" and are equivalent to "".
type ExamRecord = map[string]string

// ColumnGroup distinguishes descriptive exam columns from per-course semester columns.
type ColumnGroup string

const (
	GroupGeneral ColumnGroup = "general"
	GroupCourse  ColumnGroup = "course"
)

// AcceptFunc reports whether a trimmed cell value may belong to a column.
type AcceptFunc func(value string) bool

// ColumnDefinition describes one known exam table column.
type ColumnDefinition struct {
	Key           string      // Semantic key: "datum"
	Label         string      // Display label: "Datum"
	Aliases       []string    // Alternative header spellings found in PDFs
	Group         ColumnGroup // general or course
	Width         int         // Default display width in pixels
	Hidden        bool        // Hidden unless the user enables it
	CenterAligned bool        // Content is centered, rank by column midpoint
	Accepts       AcceptFunc  // nil accepts any value
}

// Schedule is one parsed exam plan plus the metadata needed to serve it.
type Schedule struct {
	ID        uuid.UUID    `json:"id"`
	Source    string       `json:"source"`
	FileName  string       `json:"file_name"`
	SHA256    string       `json:"sha256"`
	PageCount int          `json:"page_count"`
	Headers   []string     `json:"headers"`
	Columns   []ColumnSpec `json:"columns"`
	Records   []ExamRecord `json:"-"`
	Placed    int          `json:"placed"`
	Dropped   int          `json:"dropped"`
	ParsedAt  time.Time    `json:"parsed_at"`
}

// ScheduleSummary is the listing form of a stored schedule.
type ScheduleSummary struct {
	ID        uuid.UUID `json:"id"`
	Source    string    `json:"source"`
	FileName  string    `json:"file_name"`
	SHA256    string    `json:"sha256"`
	PageCount int       `json:"page_count"`
	Records   int       `json:"records"`
	Dropped   int       `json:"dropped"`
	ParsedAt  time.Time `json:"parsed_at"`
}

// Summary returns the listing form of the schedule.
func (s *Schedule) Summary() ScheduleSummary {
	return ScheduleSummary{
		ID:        s.ID,
		Source:    s.Source,
		FileName:  s.FileName,
		SHA256:    s.SHA256,
		PageCount: s.PageCount,
		Records:   len(s.Records),
		Dropped:   s.Dropped,
		ParsedAt:  s.ParsedAt,
	}
}

// HasColumn reports whether the schedule's header bound the given key.
func (s *Schedule) HasColumn(key string) bool {
	for _, c := range s.Columns {
		if c.Key == key {
			return true
		}
	}
	return false
}

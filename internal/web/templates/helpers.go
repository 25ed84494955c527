// Package templates renders the HTML pages of the exam plan viewer.
//
// The *_templ.go files are generated from the .templ sources with
// `templ generate`; edit the .templ files, not the generated code.
package templates

import (
	"fmt"
	"strconv"
	"time"

	"github.com/JonMunkholm/examplan/internal/core"
)

// Option is one entry of a select box.
type Option struct {
	Value string
	Label string
}

// ColumnToggle is one entry of the column visibility list.
type ColumnToggle struct {
	Key     string
	Label   string
	Visible bool
}

// ExamPageData is everything the exam table page shows.
type ExamPageData struct {
	Plan      core.PlanInfo
	Plans     []core.PlanInfo
	Columns   []core.ColumnDefinition // visible columns in display order
	Toggles   []ColumnToggle
	Courses   []Option
	Semesters []Option
	Entries   []core.ExamRecord

	Total    int
	Filtered int

	// Current state, echoed into the form fields.
	Search   string
	Filters  map[string]string
	Course   string
	Semester string

	CSVURL   string
	ResetURL string
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02.01.2006 15:04")
}

// planSource is the sub-heading: the file name and when it was parsed.
func planSource(p core.PlanInfo) string {
	if ts := formatTime(p.ParsedAt); ts != "" {
		return p.FileName + " · Stand " + ts
	}
	return p.FileName
}

func countLabel(filtered, total, dropped int) string {
	label := fmt.Sprintf("%d Prüfungen", total)
	if filtered != total {
		label = fmt.Sprintf("%d von %d Prüfungen", filtered, total)
	}
	if dropped > 0 {
		label += fmt.Sprintf(" · %d Textfragmente nicht zugeordnet", dropped)
	}
	return label
}

func minWidth(px int) string { return "min-width:" + strconv.Itoa(px) + "px" }

func colspan(columns int) string { return strconv.Itoa(max(columns, 1)) }

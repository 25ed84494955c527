package web

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JonMunkholm/examplan/internal/core"
	"github.com/JonMunkholm/examplan/internal/index"
)

// Query parameter names shared by the page, the JSON API and the CSV export.
const (
	paramPlan     = "plan"
	paramSearch   = "search"
	paramFilters  = "filters"
	paramCols     = "cols"
	paramCourse   = "course"
	paramSemester = "semester"
)

// ViewState is everything a shared table URL carries.
type ViewState struct {
	Plan     string
	Search   string
	Filters  map[string]string // column key -> filter text
	Hidden   map[string]bool   // column key -> hidden
	Course   string
	Semester string
}

// defaultHidden returns the registry's default visibility.
func defaultHidden() map[string]bool {
	hidden := make(map[string]bool)
	for _, def := range core.All() {
		hidden[def.Key] = def.Hidden
	}
	return hidden
}

// parseViewState reads a ViewState from query values. Malformed filter or
// visibility payloads fall back to the defaults.
func parseViewState(q url.Values) ViewState {
	return ViewState{
		Plan:     strings.TrimSpace(q.Get(paramPlan)),
		Search:   strings.TrimSpace(q.Get(paramSearch)),
		Filters:  decodeFilters(q.Get(paramFilters)),
		Hidden:   decodeHidden(q.Get(paramCols)),
		Course:   q.Get(paramCourse),
		Semester: q.Get(paramSemester),
	}
}

// Values encodes the state, omitting everything that equals its default.
func (v ViewState) Values() url.Values {
	q := url.Values{}
	if v.Plan != "" {
		q.Set(paramPlan, v.Plan)
	}
	if s := strings.TrimSpace(v.Search); s != "" {
		q.Set(paramSearch, s)
	}
	if enc := encodeFilters(v.Filters); enc != "" {
		q.Set(paramFilters, enc)
	}
	if enc := encodeHidden(v.Hidden); enc != "" {
		q.Set(paramCols, enc)
	}
	if v.Course != "" {
		q.Set(paramCourse, v.Course)
	}
	if v.Semester != "" {
		q.Set(paramSemester, v.Semester)
	}
	return q
}

// URL returns path with the encoded state as query string.
func (v ViewState) URL(path string) string {
	if q := v.Values().Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// Filter converts the state to an index filter.
func (v ViewState) Filter() index.Filter {
	return index.Filter{
		Search:   v.Search,
		Columns:  v.Filters,
		Course:   v.Course,
		Semester: v.Semester,
	}
}

// Visible returns the columns of defs that are not hidden, in order.
func (v ViewState) Visible(defs []core.ColumnDefinition) []core.ColumnDefinition {
	out := make([]core.ColumnDefinition, 0, len(defs))
	for _, def := range defs {
		hidden, ok := v.Hidden[def.Key]
		if !ok {
			hidden = def.Hidden
		}
		if !hidden {
			out = append(out, def)
		}
	}
	return out
}

func encodeFilters(filters map[string]string) string {
	active := make(map[string]string)
	for k, val := range filters {
		if strings.TrimSpace(val) != "" {
			active[k] = val
		}
	}
	if len(active) == 0 {
		return ""
	}
	data, err := json.Marshal(active)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

func decodeFilters(encoded string) map[string]string {
	filters := make(map[string]string)
	if encoded == "" {
		return filters
	}
	if err := decodeState(encoded, &filters); err != nil {
		slog.Warn("ignoring malformed filters parameter", "error", err)
		return make(map[string]string)
	}
	// A JSON null leaves the map nil.
	if filters == nil {
		return make(map[string]string)
	}
	return filters
}

func encodeHidden(hidden map[string]bool) string {
	defaults := defaultHidden()
	changed := make(map[string]bool)
	for k, val := range hidden {
		if def, ok := defaults[k]; ok && def == val {
			continue
		}
		changed[k] = val
	}
	if len(changed) == 0 {
		return ""
	}
	data, err := json.Marshal(changed)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// decodeHidden merges the encoded differences over the default visibility.
func decodeHidden(encoded string) map[string]bool {
	hidden := defaultHidden()
	if encoded == "" {
		return hidden
	}
	var changed map[string]bool
	if err := decodeState(encoded, &changed); err != nil {
		slog.Warn("ignoring malformed cols parameter", "error", err)
		return hidden
	}
	for k, val := range changed {
		hidden[k] = val
	}
	return hidden
}

// decodeState accepts standard and URL-safe base64, padded or not.
func decodeState(encoded string, v any) error {
	encoded = strings.TrimRight(encoded, "=")
	data, err := base64.RawStdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawURLEncoding.DecodeString(encoded)
		if err != nil {
			return err
		}
	}
	return json.Unmarshal(data, v)
}

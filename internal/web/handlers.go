package web

import (
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/JonMunkholm/examplan/internal/core"
	"github.com/JonMunkholm/examplan/internal/core/columns"
	"github.com/JonMunkholm/examplan/internal/web/templates"
)

// handleIndex renders the exam table page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := parseViewState(q)

	// Plain form submissions are folded into the shareable encoding first.
	if folded, ok := foldFormState(q, state); ok {
		http.Redirect(w, r, folded.URL("/"), http.StatusSeeOther)
		return
	}

	res, err := s.service.Query(state.Plan, state.Filter())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	visible := state.Visible(res.Columns)
	toggles := make([]templates.ColumnToggle, len(res.Columns))
	shown := make(map[string]bool, len(visible))
	for _, def := range visible {
		shown[def.Key] = true
	}
	for i, def := range res.Columns {
		toggles[i] = templates.ColumnToggle{Key: def.Key, Label: def.Label, Visible: shown[def.Key]}
	}

	data := templates.ExamPageData{
		Plan:      res.Plan,
		Plans:     s.service.Plans(),
		Columns:   visible,
		Toggles:   toggles,
		Courses:   courseOptions(res.Columns),
		Semesters: semesterOptions(),
		Entries:   res.Entries,
		Total:     res.Total,
		Filtered:  res.Filtered,
		Search:    state.Search,
		Filters:   state.Filters,
		Course:    state.Course,
		Semester:  state.Semester,
		CSVURL:    state.URL("/api/exams.csv"),
		ResetURL:  ViewState{Plan: state.Plan}.URL("/"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExamPage(data).Render(r.Context(), w); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
	}
}

// foldFormState merges "f.<key>" filter inputs and the "show" column
// checkboxes of the page form into state. It reports false when q holds
// no form fields.
func foldFormState(q url.Values, state ViewState) (ViewState, bool) {
	folded := false
	if state.Filters == nil {
		state.Filters = make(map[string]string)
	}
	for key, values := range q {
		col, ok := strings.CutPrefix(key, "f.")
		if !ok || col == "" {
			continue
		}
		folded = true
		if len(values) > 0 {
			state.Filters[col] = strings.TrimSpace(values[0])
		}
	}

	if q.Get("cols_form") != "" {
		folded = true
		show := make(map[string]bool)
		for _, key := range q["show"] {
			show[key] = true
		}
		for key := range state.Hidden {
			state.Hidden[key] = !show[key]
		}
	}
	return state, folded
}

// ExamsResponse is the JSON form of a filtered plan.
type ExamsResponse struct {
	Plan     core.PlanInfo     `json:"plan"`
	Entries  []core.ExamRecord `json:"entries"`
	Total    int               `json:"total"`
	Filtered int               `json:"filtered"`
}

// handleExams returns the filtered records of a plan.
func (s *Server) handleExams(w http.ResponseWriter, r *http.Request) {
	state := parseViewState(r.URL.Query())
	res, err := s.service.Query(state.Plan, state.Filter())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	entries := res.Entries
	if entries == nil {
		entries = []core.ExamRecord{}
	}
	writeJSON(w, ExamsResponse{
		Plan:     res.Plan,
		Entries:  entries,
		Total:    res.Total,
		Filtered: res.Filtered,
	})
}

// ColumnResponse describes one registered column.
type ColumnResponse struct {
	Key           string `json:"key"`
	Label         string `json:"label"`
	Group         string `json:"group"`
	Width         int    `json:"width"`
	MinWidth      int    `json:"min_width"`
	Hidden        bool   `json:"hidden"`
	CenterAligned bool   `json:"center_aligned"`
}

// handleColumns lists the registered columns in display order.
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	defs := core.All()
	out := make([]ColumnResponse, len(defs))
	for i, def := range defs {
		out[i] = ColumnResponse{
			Key:           def.Key,
			Label:         def.Label,
			Group:         string(def.Group),
			Width:         def.Width,
			MinWidth:      columns.MinWidth,
			Hidden:        def.Hidden,
			CenterAligned: def.CenterAligned,
		}
	}
	writeJSON(w, out)
}

// OptionResponse is a key/label pair.
type OptionResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// handleCourses lists the course columns a semester selection applies to.
func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	defs := core.ByGroup(core.GroupCourse)
	out := make([]OptionResponse, len(defs))
	for i, def := range defs {
		out[i] = OptionResponse{Key: def.Key, Label: def.Label}
	}
	writeJSON(w, out)
}

// handleSemesters lists the selectable semester values.
func (s *Server) handleSemesters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, columns.Semesters)
}

// handlePlans lists the loaded plans.
func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.Plans())
}

// handleSchedules lists the stored parse history, newest first.
func (s *Server) handleSchedules(w http.ResponseWriter, r *http.Request) {
	limit := min(parseIntParam(r, "limit", core.DefaultHistoryLimit), core.MaxHistoryLimit)
	history, err := s.service.History(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if history == nil {
		history = []core.ScheduleSummary{}
	}
	writeJSON(w, history)
}

// HealthResponse reports liveness and parse slot usage.
type HealthResponse struct {
	Status string                  `json:"status"`
	Plans  int                     `json:"plans"`
	Parses core.ParseLimiterStatus `json:"parses"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{
		Status: "ok",
		Plans:  len(s.service.Plans()),
		Parses: s.service.LimiterStatus(),
	})
}

// courseOptions returns the course columns present in the plan.
func courseOptions(defs []core.ColumnDefinition) []templates.Option {
	var out []templates.Option
	for _, def := range defs {
		if def.Group == core.GroupCourse {
			out = append(out, templates.Option{Value: def.Key, Label: def.Label})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func semesterOptions() []templates.Option {
	out := make([]templates.Option, len(columns.Semesters))
	for i, sem := range columns.Semesters {
		out[i] = templates.Option{Value: sem.Key, Label: sem.Label}
	}
	return out
}

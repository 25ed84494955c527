// Package columns registers the exam plan column set with the core registry.
// Import this package for its side effect before parsing a document.
package columns

import "github.com/JonMunkholm/examplan/internal/core"

// Semesters lists the values offered by the semester selector, in display
// order. The selector mirrors the published plan legend; a course cell itself
// only ever holds a semester number, see semesterNumber.
var Semesters = []Semester{
	{Key: "1", Label: "1"},
	{Key: "2", Label: "2"},
	{Key: "3", Label: "3"},
	{Key: "4", Label: "4"},
	{Key: "5", Label: "5"},
	{Key: "6", Label: "6"},
	{Key: "7", Label: "7"},
	{Key: "WP", Label: "Wahlpflicht"},
	{Key: "WP-I", Label: "Wahlpflicht Informatik Master"},
	{Key: "WP-IN", Label: "Wahlpflicht Informatik Bachelor"},
	{Key: "WP-L", Label: "Wahlpflicht Lerneinheit Master"},
	{Key: "WP-LE", Label: "Wahlpflicht Lerneinheit Bachelor"},
}

// Semester is one selectable semester value.
type Semester struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// SemesterKeys returns the semester values in display order.
func SemesterKeys() []string {
	keys := make([]string, len(Semesters))
	for i, s := range Semesters {
		keys[i] = s.Key
	}
	return keys
}

const (
	// DefaultWidth applies to columns without an explicit width.
	DefaultWidth = 140
	// MinWidth is the narrowest a column may be resized to.
	MinWidth = 20
)

// semesterNumber accepts the values a course cell holds: 1 through 6.
var semesterNumber = core.OneOf("1", "2", "3", "4", "5", "6")

func init() {
	examiner := core.LetterCode(2, "Sprachenzentrum")

	general := []core.ColumnDefinition{
		{Key: "mid", Label: "MID", Width: 90, Hidden: true, Accepts: core.NonEmpty()},
		{Key: "kuerzel", Label: "Kürzel", Aliases: []string{"Kuerzel", "Kürzel Modul"}, Width: 100, Accepts: core.ShortCode(4)},
		{Key: "po", Label: "PO", Aliases: []string{"Prüfungsordnung"}, Width: 100, Accepts: core.OneOf("2016", "2023")},
		{Key: "lp", Label: "LP", Aliases: []string{"CP", "ECTS"}, Width: 60, Hidden: true, CenterAligned: true, Accepts: core.NumberIn(5, 6, 7)},
		{Key: "datum", Label: "Datum", Width: 100, Accepts: core.ISODate()},
		{Key: "zeit", Label: "Zeit", Aliases: []string{"Uhrzeit", "Beginn"}, Width: 80, Accepts: core.ClockTime()},
		{Key: "pruefungsform", Label: "Form", Aliases: []string{"Prüfungsform", "Pruefungsform"}, Width: 104, Hidden: true, Accepts: core.Text(5)},
		{Key: "pruefungsdauer", Label: "Dauer", Aliases: []string{"Prüfungsdauer", "Pruefungsdauer", "Dauer (min)"}, Width: 90, Accepts: core.Numeric()},
		{Key: "modul", Label: "Modul", Aliases: []string{"Modulbezeichnung", "Modultitel"}, Width: 300, Hidden: true, Accepts: core.Text(4)},
		{Key: "pruefer", Label: "Prüfer", Aliases: []string{"Pruefer", "Erstprüfer"}, Width: 90, Hidden: true, Accepts: examiner},
		{Key: "pruefer_name", Label: "Prüfer Name", Aliases: []string{"Pruefer Name", "Name Prüfer"}, Width: 140, Accepts: core.Text(5)},
		{Key: "zweitpruefer", Label: "Zweitprüfer", Aliases: []string{"Zweitpruefer", "Zweit-prüfer"}, Width: 90, Hidden: true, Accepts: examiner},
		{Key: "b_m", Label: "Bachelor/Master", Aliases: []string{"B/M", "BA/MA"}, Width: 60, Hidden: true, CenterAligned: true, Accepts: core.OneOf("B", "M")},
		{Key: "raeume", Label: "Räume", Aliases: []string{"Raeume", "Raum"}, Width: 140, Accepts: core.Marked(".")},
		{Key: "beisitzer", Label: "Beisitzer", Width: 90, Hidden: true, Accepts: core.Text(5)},
	}
	for _, def := range general {
		def.Group = core.GroupGeneral
		core.Register(def)
	}

	courses := []core.ColumnDefinition{
		{Key: "pi_ba", Label: "Praktische Informatik Bachelor", Aliases: []string{"PI BA", "PIB"}},
		{Key: "ti_ba", Label: "Theoretische Informatik Bachelor", Aliases: []string{"TI BA", "TIB"}},
		{Key: "mi_ba", Label: "Medieninformatik Bachelor", Aliases: []string{"MI BA", "MIB"}},
		{Key: "wi_ba", Label: "Wirtschaftsinformatik Bachelor", Aliases: []string{"WI BA", "WIB"}},
		{Key: "pi_ba_dual", Label: "Praktische Informatik Dual Bachelor", Aliases: []string{"PI BA dual", "PIBd"}},
		{Key: "ti_ba_dual", Label: "Theoretische Informatik Dual Bachelor", Aliases: []string{"TI BA dual", "TIBd"}},
		{Key: "mi_ba_dual", Label: "Medieninformatik Dual Bachelor", Aliases: []string{"MI BA dual", "MIBd"}},
		{Key: "wi_ba_dual", Label: "Wirtschaftsinformatik Dual Bachelor", Aliases: []string{"WI BA dual", "WIBd"}},
		{Key: "pi_ma", Label: "Praktische Informatik Master", Aliases: []string{"PI MA", "PIM"}},
		{Key: "ti_ma", Label: "Theoretische Informatik Master", Aliases: []string{"TI MA", "TIM"}},
		{Key: "mi_ma", Label: "Medieninformatik Master", Aliases: []string{"MI MA", "MIM"}},
		{Key: "wi_ma", Label: "Wirtschaftsinformatik Master", Aliases: []string{"WI MA", "WIM"}},
		{Key: "is_ma", Label: "Internetsicherheit Master", Aliases: []string{"IS MA", "ISM"}},
	}
	for _, def := range courses {
		def.Group = core.GroupCourse
		def.Width = DefaultWidth
		def.CenterAligned = true
		def.Accepts = semesterNumber
		core.Register(def)
	}
}

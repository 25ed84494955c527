package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/examplan/internal/core"
	_ "github.com/JonMunkholm/examplan/internal/core/columns"
)

func TestAccepts_Date(t *testing.T) {
	assert.True(t, core.Accepts("datum", "2023-12-25"))
	assert.False(t, core.Accepts("datum", "2023-13-40"))
	assert.False(t, core.Accepts("datum", "25.12.2023"))
	assert.False(t, core.Accepts("datum", "2023-02-30"))
}

func TestAccepts_UnknownKeyIsPermissive(t *testing.T) {
	for _, v := range []string{"", "anything", "12", "2023-13-40"} {
		assert.True(t, core.Accepts("no_such_column", v), "value %q", v)
	}
}

func TestAccepts_Columns(t *testing.T) {
	tests := []struct {
		key    string
		accept []string
		reject []string
	}{
		{"mid", []string{"10001", "M1"}, []string{""}},
		{"kuerzel", []string{"ADS", "MA1", "Ä"}, []string{"", "12", "ABCDE"}},
		{"po", []string{"2016", "2023"}, []string{"2020", "PO 2023"}},
		{"lp", []string{"5", "6", "7", "5.0"}, []string{"8", "LP", ""}},
		{"zeit", []string{"09:00", "23:59"}, []string{"9:00", "24:00", "12:60"}},
		{"pruefungsform", []string{"Klausur", "mündlich"}, []string{"K90", "12345"}},
		{"pruefungsdauer", []string{"90", "120", "1.5"}, []string{"", "90 min"}},
		{"modul", []string{"Analysis", "Mathe"}, []string{"ADS", "2023"}},
		{"pruefer", []string{"AB", "Sprachenzentrum"}, []string{"12", "ABC", "A."}},
		{"pruefer_name", []string{"Becker", "Dr. Max Mustermann", "Prof. Jane Doe"}, []string{"Name", "A B", "Li", "12345"}},
		{"zweitpruefer", []string{"CD"}, []string{"C"}},
		{"beisitzer", []string{"Assistant Name", "Helper"}, []string{"AB", "123", "EF", ""}},
		{"b_m", []string{"B", "M"}, []string{"BM", "b"}},
		{"raeume", []string{"H1.01", "A.2.14"}, []string{"H101", "1.5"}},
		{"pi_ba", []string{"1", "6"}, []string{"0", "7", "invalid", "WP", ""}},
		{"is_ma", []string{"3"}, []string{"WP-I", "3.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			for _, v := range tt.accept {
				assert.True(t, core.Accepts(tt.key, v), "%s should accept %q", tt.key, v)
			}
			for _, v := range tt.reject {
				assert.False(t, core.Accepts(tt.key, v), "%s should reject %q", tt.key, v)
			}
		})
	}
}

func TestAccepts_CourseColumnsShareSemesterRange(t *testing.T) {
	for _, key := range core.CourseKeys() {
		assert.True(t, core.Accepts(key, "1"), key)
		assert.True(t, core.Accepts(key, "6"), key)
		assert.False(t, core.Accepts(key, "0"), key)
		assert.False(t, core.Accepts(key, "7"), key)
		assert.False(t, core.Accepts(key, "invalid"), key)
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, core.IsNumeric("42"))
	assert.True(t, core.IsNumeric(" 4.5 "))
	assert.False(t, core.IsNumeric(""))
	assert.False(t, core.IsNumeric("NaN"))
	assert.False(t, core.IsNumeric("Inf"))
	assert.False(t, core.IsNumeric("4a"))
}

package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testOpts = Options{
	Keys:       []string{"kuerzel", "modul", "pruefer_name", "pi_ba", "mi_ba"},
	FilterKeys: []string{"kuerzel", "modul", "pruefer_name"},
	CourseKeys: []string{"pi_ba", "mi_ba"},
	Semesters:  []string{"1", "2", "3", "WP"},
}

func testIndex() *Index {
	return New([]map[string]string{
		{"kuerzel": "ADS", "modul": "Algorithmen und Datenstrukturen", "pruefer_name": "Becker", "pi_ba": "2", "mi_ba": ""},
		{"kuerzel": "MA1", "modul": "Mathematik 1", "pruefer_name": "Öztürk", "pi_ba": "1", "mi_ba": "1"},
		{"kuerzel": "WEB", "modul": "Webentwicklung", "pruefer_name": "Schmidt", "pi_ba": "", "mi_ba": "3"},
		{"kuerzel": "SEC", "modul": "IT-Sicherheit", "pruefer_name": "Becker", "pi_ba": "WP", "mi_ba": "WP"},
		{"kuerzel": "", "modul": "", "pruefer_name": "", "pi_ba": "", "mi_ba": ""},
	}, testOpts)
}

func TestSearch(t *testing.T) {
	ix := testIndex()

	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"empty filter keeps everything", Filter{}, []int{0, 1, 2, 3, 4}},
		{"blank search is ignored", Filter{Search: "   "}, []int{0, 1, 2, 3, 4}},
		{"global search is case-insensitive", Filter{Search: "becker"}, []int{0, 3}},
		{"global search short needle", Filter{Search: "ma"}, []int{1}},
		{"global search matches any column", Filter{Search: "entwick"}, []int{2}},
		{"global search folds umlauts", Filter{Search: "ÖZTÜRK"}, []int{1}},
		{"global search keeps inner spaces", Filter{Search: "und D"}, []int{0}},
		{"global search no match", Filter{Search: "physik"}, nil},
		{"column filter", Filter{Columns: map[string]string{"modul": " sicher "}}, []int{3}},
		{"column filters are ANDed", Filter{Columns: map[string]string{"pruefer_name": "becker", "kuerzel": "sec"}}, []int{3}},
		{"column filter on other column does not match", Filter{Columns: map[string]string{"kuerzel": "becker"}}, nil},
		{"column filter on course key is ignored", Filter{Columns: map[string]string{"pi_ba": "9"}}, []int{0, 1, 2, 3, 4}},
		{"course keeps non-empty", Filter{Course: "mi_ba"}, []int{1, 2, 3}},
		{"unknown course is ignored", Filter{Course: "xx_ba"}, []int{0, 1, 2, 3, 4}},
		{"semester with course", Filter{Course: "pi_ba", Semester: "1"}, []int{1}},
		{"semester without course", Filter{Semester: "WP"}, []int{3}},
		{"semester in any course", Filter{Semester: "3"}, []int{2}},
		{"unknown semester is ignored", Filter{Semester: "9"}, []int{0, 1, 2, 3, 4}},
		{"all conditions", Filter{Search: "e", Course: "pi_ba", Semester: "WP", Columns: map[string]string{"kuerzel": "S"}}, []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ix.Search(tt.filter))
		})
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	ix := New(nil, testOpts)
	assert.Equal(t, 0, ix.Len())
	assert.Empty(t, ix.Search(Filter{Search: "abc"}))
}

func TestRecord(t *testing.T) {
	ix := testIndex()
	assert.Equal(t, 5, ix.Len())
	assert.Equal(t, "WEB", ix.Record(2)["kuerzel"])
}

func TestTrigrams(t *testing.T) {
	assert.Nil(t, trigrams("ab"))
	assert.Equal(t, []string{"abc", "bcd"}, trigrams("abcd"))
	assert.Equal(t, []string{"übe", "ber"}, trigrams("über"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, Fold("STRASSE"), Fold("strasse"))
	assert.Equal(t, "prüfer", Fold("PRÜFER"))
	// Decomposed u + combining diaeresis folds to the same string.
	assert.Equal(t, Fold("Pru\u0308fer"), Fold("Prüfer"))
}

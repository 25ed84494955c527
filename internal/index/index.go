// Package index provides an in-memory inverted index over exam records.
//
// Course and semester selections are answered from Roaring bitmaps. Text
// filters (global search and per-column filters) are substring matches; a
// trigram bitmap index narrows the candidate rows before each candidate is
// verified against the folded cell values.
package index

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Options describes the record layout the index is built for.
type Options struct {
	Keys       []string // every key, in display order
	FilterKeys []string // keys that accept column filters
	CourseKeys []string // per-course semester columns
	Semesters  []string // values a semester selection may take
}

// Filter is one query. Zero values disable the corresponding condition.
type Filter struct {
	Search   string            `json:"search,omitempty"`
	Columns  map[string]string `json:"filters,omitempty"`
	Course   string            `json:"course,omitempty"`
	Semester string            `json:"semester,omitempty"`
}

// Index is immutable after New and safe for concurrent readers.
type Index struct {
	records []map[string]string
	opts    Options

	folded [][]string // folded[row][keyIdx]
	keyIdx map[string]int

	all            *roaring.Bitmap
	course         map[string]*roaring.Bitmap
	courseSemester map[string]*roaring.Bitmap
	semester       map[string]*roaring.Bitmap
	grams          map[string]*roaring.Bitmap

	filterKeys map[string]bool
	semesters  map[string]bool
}

// New indexes records. The records are retained, not copied.
func New(records []map[string]string, opts Options) *Index {
	ix := &Index{
		records:        records,
		opts:           opts,
		folded:         make([][]string, len(records)),
		keyIdx:         make(map[string]int, len(opts.Keys)),
		all:            roaring.New(),
		course:         make(map[string]*roaring.Bitmap),
		courseSemester: make(map[string]*roaring.Bitmap),
		semester:       make(map[string]*roaring.Bitmap),
		grams:          make(map[string]*roaring.Bitmap),
		filterKeys:     make(map[string]bool, len(opts.FilterKeys)),
		semesters:      make(map[string]bool, len(opts.Semesters)),
	}
	for i, k := range opts.Keys {
		ix.keyIdx[k] = i
	}
	for _, k := range opts.FilterKeys {
		ix.filterKeys[k] = true
	}
	for _, s := range opts.Semesters {
		ix.semesters[s] = true
	}

	fold := newFolder()
	for row, rec := range records {
		id := uint32(row)
		ix.all.Add(id)

		values := make([]string, len(opts.Keys))
		for i, key := range opts.Keys {
			values[i] = fold(rec[key])
			for _, g := range trigrams(values[i]) {
				addTo(ix.grams, g, id)
			}
		}
		ix.folded[row] = values

		for _, c := range opts.CourseKeys {
			v := rec[c]
			if strings.TrimSpace(v) != "" {
				addTo(ix.course, c, id)
			}
			if v != "" {
				addTo(ix.courseSemester, c+"\x00"+v, id)
				addTo(ix.semester, v, id)
			}
		}
	}
	return ix
}

// Len returns the number of indexed records.
func (ix *Index) Len() int { return len(ix.records) }

// Record returns the record at row.
func (ix *Index) Record(row int) map[string]string { return ix.records[row] }

// Search returns the matching row numbers in ascending order.
//
// The global search keeps rows where any value contains the folded search
// text. Column filters are trimmed and must each be contained in their
// column. A known course keeps rows with a non-empty value for it. A known
// semester keeps rows whose selected course equals it, or, with no course
// selected, rows where any course equals it. Unknown courses and semesters
// are ignored.
func (ix *Index) Search(f Filter) []int {
	fold := newFolder()
	candidates := ix.all.Clone()

	course := ""
	if ix.isCourse(f.Course) {
		course = f.Course
		candidates.And(ix.bitmap(ix.course, course))
	}
	if ix.semesters[f.Semester] {
		if course != "" {
			candidates.And(ix.bitmap(ix.courseSemester, course+"\x00"+f.Semester))
		} else {
			candidates.And(ix.bitmap(ix.semester, f.Semester))
		}
	}

	var needles []string
	search := ""
	if strings.TrimSpace(f.Search) != "" {
		search = fold(f.Search)
		needles = append(needles, search)
	}
	columns := make(map[int]string)
	for key, v := range f.Columns {
		idx, ok := ix.keyIdx[key]
		v = strings.TrimSpace(v)
		if !ok || v == "" || !ix.filterKeys[key] {
			continue
		}
		columns[idx] = fold(v)
		needles = append(needles, columns[idx])
	}

	for _, n := range needles {
		for _, g := range trigrams(n) {
			candidates.And(ix.bitmap(ix.grams, g))
		}
	}

	var rows []int
	it := candidates.Iterator()
	for it.HasNext() {
		row := int(it.Next())
		if ix.matches(row, search, columns) {
			rows = append(rows, row)
		}
	}
	return rows
}

func (ix *Index) matches(row int, search string, columns map[int]string) bool {
	values := ix.folded[row]
	if search != "" {
		found := false
		for _, v := range values {
			if strings.Contains(v, search) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for idx, needle := range columns {
		if !strings.Contains(values[idx], needle) {
			return false
		}
	}
	return true
}

func (ix *Index) isCourse(key string) bool {
	for _, c := range ix.opts.CourseKeys {
		if c == key {
			return true
		}
	}
	return false
}

func (ix *Index) bitmap(m map[string]*roaring.Bitmap, key string) *roaring.Bitmap {
	if bm, ok := m[key]; ok {
		return bm
	}
	return roaring.New()
}

func addTo(m map[string]*roaring.Bitmap, key string, id uint32) {
	bm, ok := m[key]
	if !ok {
		bm = roaring.New()
		m[key] = bm
	}
	bm.Add(id)
}

// Fold normalises s for case-insensitive comparison.
func Fold(s string) string {
	return newFolder()(s)
}

// newFolder returns a folding func. A cases.Caser keeps state, so each
// goroutine needs its own.
func newFolder() func(string) string {
	caser := cases.Fold()
	return func(s string) string {
		return caser.String(norm.NFC.String(s))
	}
}

func trigrams(s string) []string {
	runes := []rune(s)
	if len(runes) < 3 {
		return nil
	}
	grams := make([]string, 0, len(runes)-2)
	for i := 0; i+3 <= len(runes); i++ {
		grams = append(grams, string(runes[i:i+3]))
	}
	return grams
}

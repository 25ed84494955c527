package core

// validation.go holds the cell classifiers used to decide whether a text
// fragment may be placed into a column. Classifiers receive trimmed values.
// Empty values are rejected by every builder here.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockPattern   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// IsNumeric reports whether s reads as a finite number.
func IsNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// NonEmpty accepts any non-empty value.
func NonEmpty() AcceptFunc {
	return func(v string) bool { return v != "" }
}

// Numeric accepts values that parse as a number.
func Numeric() AcceptFunc {
	return IsNumeric
}

// NumberIn accepts numeric values equal to one of the given numbers.
func NumberIn(values ...float64) AcceptFunc {
	return func(v string) bool {
		if !IsNumeric(v) {
			return false
		}
		f, _ := strconv.ParseFloat(v, 64)
		for _, want := range values {
			if f == want {
				return true
			}
		}
		return false
	}
}

// OneOf accepts values that exactly equal one of the given strings.
func OneOf(values ...string) AcceptFunc {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return func(v string) bool { return set[v] }
}

// ShortCode accepts non-numeric values of 1 to max characters.
func ShortCode(max int) AcceptFunc {
	return func(v string) bool {
		n := utf8.RuneCountInString(v)
		return n > 0 && n <= max && !IsNumeric(v)
	}
}

// Text accepts non-numeric values of at least min characters.
func Text(min int) AcceptFunc {
	return func(v string) bool {
		return v != "" && utf8.RuneCountInString(v) >= min && !IsNumeric(v)
	}
}

// ISODate accepts YYYY-MM-DD strings naming a real calendar date.
func ISODate() AcceptFunc {
	return func(v string) bool {
		if !isoDatePattern.MatchString(v) {
			return false
		}
		_, err := time.Parse(time.DateOnly, v)
		return err == nil
	}
}

// ClockTime accepts HH:MM with hours 00-23 and minutes 00-59.
func ClockTime() AcceptFunc {
	return func(v string) bool { return clockPattern.MatchString(v) }
}

// LetterCode accepts exactly n letters, or one of the listed exceptions.
func LetterCode(n int, exceptions ...string) AcceptFunc {
	exception := OneOf(exceptions...)
	return func(v string) bool {
		if exception(v) {
			return true
		}
		if utf8.RuneCountInString(v) != n {
			return false
		}
		for _, r := range v {
			if !unicode.IsLetter(r) {
				return false
			}
		}
		return true
	}
}

// Marked accepts non-numeric values containing marker.
func Marked(marker string) AcceptFunc {
	return func(v string) bool {
		return strings.Contains(v, marker) && !IsNumeric(v)
	}
}

// AnyOf accepts values accepted by at least one of fns.
func AnyOf(fns ...AcceptFunc) AcceptFunc {
	return func(v string) bool {
		for _, fn := range fns {
			if fn(v) {
				return true
			}
		}
		return false
	}
}

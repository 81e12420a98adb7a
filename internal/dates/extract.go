// Package dates derives a year from free document text.
//
// Only years 2000–2099 are recognized. A full date pattern whose year falls
// outside that window does not count as a hit.
package dates

import (
	"regexp"
	"strconv"
	"time"
)

// DatePattern is one entry of the ordered pattern table. Patterns are tried
// in order by [ExtractAt]; the first pattern whose first match carries a
// 20xx year wins.
type DatePattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// Patterns lists the recognized date shapes (order matters).
var Patterns = []DatePattern{
	{"iso", regexp.MustCompile(`\b(\d{4})[/-](\d{1,2})[/-](\d{1,2})\b`)},
	{"us", regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)},
	{"month-name", regexp.MustCompile(
		`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* (\d{1,2}),? (\d{4})\b`)},
}

var (
	reYearToken = regexp.MustCompile(`^20\d{2}$`)
	reYearAny   = regexp.MustCompile(`\b(20\d{2})\b`)
)

// Extract is [ExtractAt] with the current time.
func Extract(text string) (label string, year int) {
	return ExtractAt(text, time.Now())
}

// ExtractAt returns the year label and year found in text. It never fails:
// when text holds no 20xx year at all the year of now is returned. The label
// is always the four year digits as they appear in the text.
func ExtractAt(text string, now time.Time) (label string, year int) {
	for _, p := range Patterns {
		m := p.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if tok, ok := yearGroup(m[1:]); ok {
			return tok, atoi(tok)
		}
	}

	if m := reYearAny.FindStringSubmatch(text); m != nil {
		return m[1], atoi(m[1])
	}

	year = now.Year()
	return strconv.Itoa(year), year
}

// yearGroup returns the first captured group that is a 20xx year.
func yearGroup(groups []string) (string, bool) {
	for _, g := range groups {
		if reYearToken.MatchString(g) {
			return g, true
		}
	}
	return "", false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

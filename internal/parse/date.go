package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"uchet/internal/core"
)

// Genitive month names as they appear in date headers ("7 апреля").
var monthNames = map[string]int{
	"января":   1,
	"февраля":  2,
	"марта":    3,
	"апреля":   4,
	"мая":      5,
	"июня":     6,
	"июля":     7,
	"августа":  8,
	"сентября": 9,
	"октября":  10,
	"ноября":   11,
	"декабря":  12,
}

var (
	numericDateRe = regexp.MustCompile(`^(\d{1,2})[./-](\d{1,2})[./-](\d{2,4})`)
	namedDateRe   = regexp.MustCompile(`^(\d{1,2}) +([а-яёА-ЯЁ]+)(?: +(\d{4}))?:?`)
)

// ExtractDate recognizes a date at the start of a cleaned header line.
// Numeric D.M.Y (also with '/' or '-') is tried first, then the
// localized "D month [year]" form with an optional trailing colon. Years
// below 100 mean 2000+Y; a missing year defaults to the reference
// date's year. Returns false when neither form matches or the resulting
// combination is not a real calendar date.
func ExtractDate(line string, ref time.Time) (core.Date, bool) {
	line = strings.TrimSpace(line)

	if m := numericDateRe.FindStringSubmatch(line); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		return makeDate(year, month, day)
	}

	m := namedDateRe.FindStringSubmatch(line)
	if m == nil {
		return core.Date{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, ok := monthNames[strings.ToLower(m[2])]
	if !ok {
		return core.Date{}, false
	}
	year := ref.Year()
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
	}
	return makeDate(year, month, day)
}

// makeDate builds a Date and rejects combinations that do not exist on
// the calendar (time.Date would silently normalize 31 February).
func makeDate(year, month, day int) (core.Date, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return core.Date{}, false
	}
	d := core.NewDate(year, month, day)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return core.Date{}, false
	}
	return d, true
}

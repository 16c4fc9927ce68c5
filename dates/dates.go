// Package dates turns free-form date text from CVs into calendar dates.
//
// Normalization is heuristic and lossy. Strategies run in a fixed order and
// the first match wins, so "first year wins" imprecision is expected: a
// description mentioning 1998 dates an entry to 1998 even if a later phrase
// says 2004.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/vitae/core"
)

// Bare years outside this window are too likely to be page counts, street
// numbers or similar.
const (
	bareYearMin = 1950
	bareYearMax = 2030
)

// Strategy names the rule that produced a date.
type Strategy string

const (
	StrategyNone      Strategy = "none"
	StrategyRange     Strategy = "range"
	StrategyBareYear  Strategy = "bare-year"
	StrategyMonthYear Strategy = "month-year"
	StrategyISO       Strategy = "iso"
)

var (
	rangePattern     = regexp.MustCompile(`(?i)\b(\d{4})\s*-\s*(?:\d{4}|present|current|now)\b`)
	bareYearPattern  = regexp.MustCompile(`\b(\d{4})\b`)
	monthYearPattern = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{4})\b`)
	isoPattern       = regexp.MustCompile(`\b(\d{4})-(\d{1,2})(?:-(\d{1,2}))?\b`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Normalize derives a date for an entry. Ranges, month names and ISO dates are
// read from the raw date text (or from title and description when there is
// none); the bare-year fallback scans title, description and raw date text
// together. The zero time means no date.
func Normalize(rawDate, title, description string) time.Time {
	date, _ := Explain(rawDate, title, description)
	return date
}

// Parse normalizes a standalone date string.
func Parse(text string) time.Time {
	return Normalize(text, "", "")
}

// Explain is Normalize that also reports which strategy matched.
func Explain(rawDate, title, description string) (time.Time, Strategy) {
	combined := clean(strings.Join([]string{title, description, rawDate}, " "))
	dateText := clean(rawDate)
	if dateText == "" {
		dateText = clean(title + " " + description)
	}

	if d, ok := matchRange(dateText); ok {
		return d, StrategyRange
	}
	if d, ok := matchBareYear(combined); ok {
		return d, StrategyBareYear
	}
	if d, ok := matchMonthYear(dateText); ok {
		return d, StrategyMonthYear
	}
	if d, ok := matchISO(dateText); ok {
		return d, StrategyISO
	}
	return time.Time{}, StrategyNone
}

// clean maps en and em dashes to hyphens and collapses whitespace.
func clean(s string) string {
	s = strings.NewReplacer("–", "-", "—", "-", "−", "-").Replace(s)
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

func matchRange(s string) (time.Time, bool) {
	m := rangePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	return build(m[1], time.January, 1)
}

func matchBareYear(s string) (time.Time, bool) {
	for _, m := range bareYearPattern.FindAllStringSubmatch(s, -1) {
		year, _ := strconv.Atoi(m[1])
		if year >= bareYearMin && year <= bareYearMax {
			return build(m[1], time.January, 1)
		}
	}
	return time.Time{}, false
}

func matchMonthYear(s string) (time.Time, bool) {
	m := monthYearPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	month := months[strings.ToLower(m[1])[:3]]
	return build(m[2], month, 1)
}

func matchISO(s string) (time.Time, bool) {
	m := isoPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	day := 1
	if m[3] != "" {
		day, _ = strconv.Atoi(m[3])
	}
	return build(m[1], time.Month(month), day)
}

// build assembles a UTC date, rejecting out-of-range years and impossible days.
func build(yearText string, month time.Month, day int) (time.Time, bool) {
	year, err := strconv.Atoi(yearText)
	if err != nil || year < core.MinYear || year > core.MaxYear {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != month {
		return time.Time{}, false
	}
	return d, true
}

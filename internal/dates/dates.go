// Package dates parses the free-text Spanish dates that IIS job boards
// publish as application deadlines ("15/01/2025", "15 de enero de 2025", ...).
package dates

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrUnrecognizedFormat is returned when no known date pattern matches.
var ErrUnrecognizedFormat = errors.New("dates: unrecognized date format")

var months = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"octubre": time.October, "noviembre": time.November, "diciembre": time.December,
	"ene": time.January, "feb": time.February, "mar": time.March,
	"abr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "ago": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dic": time.December,
}

var patterns = []struct {
	re    *regexp.Regexp
	build func(m []string) (time.Time, bool)
}{
	// DD/MM/YYYY
	{regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`), numericDMY},
	// DD-MM-YYYY
	{regexp.MustCompile(`(\d{1,2})-(\d{1,2})-(\d{4})`), numericDMY},
	// D de <mes> de YYYY
	{regexp.MustCompile(`(\d{1,2})\s+de\s+(\p{L}+)\s+de\s+(\d{4})`), namedDMY},
	// D <mes> YYYY
	{regexp.MustCompile(`(\d{1,2})\s+(\p{L}+)\s+(\d{4})`), namedDMY},
	// YYYY-MM-DD
	{regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`), numericYMD},
}

func numericDMY(m []string) (time.Time, bool) {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return makeDate(year, month, day)
}

func numericYMD(m []string) (time.Time, bool) {
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return makeDate(year, month, day)
}

func namedDMY(m []string) (time.Time, bool) {
	day, _ := strconv.Atoi(m[1])
	month, ok := months[Fold(m[2])]
	if !ok {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[3])
	return makeDate(year, int(month), day)
}

func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2), which means the
	// input was not a real calendar date.
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return d, true
}

// Fold lowercases a string and strips diacritics, so "Sábado" matches
// "sabado" and label text like "Fecha Límite" can be compared plainly.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Parse returns the first date found in text, normalized to midnight UTC.
// The text may carry surrounding prose ("Plazo: hasta el 20/01/2025").
func Parse(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, ErrUnrecognizedFormat
	}
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if d, ok := p.build(m); ok {
			return d, nil
		}
	}
	return time.Time{}, ErrUnrecognizedFormat
}

// ExtractAll returns every parseable date in text, in order of appearance
// per pattern. Detail pages often hold both an opening and a closing date.
func ExtractAll(text string) []time.Time {
	var found []time.Time
	for _, p := range patterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			if d, ok := p.build(m); ok {
				found = append(found, d)
			}
		}
	}
	return found
}

// IsOpen reports whether a deadline has not passed yet. The deadline day
// itself still counts as open.
func IsOpen(deadline time.Time, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !deadline.Before(today)
}

// Display formats a date the way the reports show it.
func Display(d time.Time) string {
	return d.Format("02/01/2006")
}

package scraper

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	daysRe    = regexp.MustCompile(`(\d+)\s*zi(?:le)?`)
	hoursRe   = regexp.MustCompile(`(\d+)h`)
	minutesRe = regexp.MustCompile(`(\d+)m`)
	secondsRe = regexp.MustCompile(`(\d+)s`)
	nonDigit  = regexp.MustCompile(`\D`)
)

// ParseDate parses the site's date strings: "29.11.2025 10:00" or bare
// "29.11.2025" (midnight). Returns nil when the value is absent or
// unparsable.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.ParseInLocation("02.01.2006 15:04", s, time.Local); err == nil {
		return &t
	}
	if t, err := time.ParseInLocation("02.01.2006", s, time.Local); err == nil {
		return &t
	}
	log.Printf("Warning: could not parse date %q", s)
	return nil
}

// ParsePrice normalizes a price display string into a decimal value. It
// recognizes Romanian formatting ("1.200,50") and US formatting ("1,200.50").
// The result is not persisted anywhere; listings keep the display string.
func ParsePrice(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty price string")
	}

	clean := strings.NewReplacer("RON", "", "LEI", "", "lei", "").Replace(s)
	// strings.Fields also drops non-breaking spaces
	clean = strings.Join(strings.Fields(clean), "")

	dots := strings.Count(clean, ".")
	commas := strings.Count(clean, ",")

	switch {
	case dots == 0 && commas == 0:
		// plain integer or decimal
	case dots > 1:
		// multiple dots: Romanian thousands "1.234.567,89"
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case commas > 1:
		// multiple commas: US thousands "1,234,567.89"
		clean = strings.ReplaceAll(clean, ",", "")
	case dots == 1 && commas == 1:
		if strings.LastIndex(clean, ",") > strings.LastIndex(clean, ".") {
			// "1.200,50": comma is the decimal separator
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.ReplaceAll(clean, ",", ".")
		} else {
			// "1,200.50": dot is the decimal separator
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case commas == 1:
		// lone comma: European decimal "1200,50"
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	value, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse price %q (cleaned %q): %w", s, clean, err)
	}
	return value, nil
}

// parseBidCount strips everything but digits and parses the remainder,
// defaulting to 0 when nothing parsable is left.
func parseBidCount(s string) int {
	digits := nonDigit.ReplaceAllString(s, "")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// parseCountdown turns rendered countdown text like "2 zile 3h 15m" into an
// absolute timestamp relative to now. A countdown with all components zero
// or missing yields nil.
func parseCountdown(text string, now time.Time) *time.Time {
	if text == "" {
		return nil
	}

	var days, hours, minutes, seconds int
	if m := daysRe.FindStringSubmatch(text); m != nil {
		days, _ = strconv.Atoi(m[1])
	}
	if m := hoursRe.FindStringSubmatch(text); m != nil {
		hours, _ = strconv.Atoi(m[1])
	}
	if m := minutesRe.FindStringSubmatch(text); m != nil {
		minutes, _ = strconv.Atoi(m[1])
	}
	if m := secondsRe.FindStringSubmatch(text); m != nil {
		seconds, _ = strconv.Atoi(m[1])
	}

	if days == 0 && hours == 0 && minutes == 0 && seconds == 0 {
		return nil
	}

	t := now.Add(time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second)
	return &t
}

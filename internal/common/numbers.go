package common

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ToNumber parses a raw amount string, tolerating thousands separators.
// It returns (0, false) for empty or non-numeric input; callers render the
// false case as a blank cell rather than an error.
func ToNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAmount renders a number the way amounts appear in the source text.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', 2, 64)
}

// ParseDMY parses a day/month/year date ("05/03/2024", "5-3-24"). Two-digit
// years are taken as 2000+year. Returns ok=false when the string is not a
// valid calendar date; callers pass the original string through unchanged.
func ParseDMY(s string) (time.Time, bool) {
	parts := splitDMY(s)
	if parts == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])
	if len(parts[2]) == 2 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// reject overflow like 31/02 which time.Date would normalize
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

func splitDMY(s string) []string {
	var sep byte
	switch {
	case strings.Count(s, "/") == 2:
		sep = '/'
	case strings.Count(s, "-") == 2:
		sep = '-'
	default:
		return nil
	}
	parts := strings.Split(s, string(sep))
	if len(parts) != 3 {
		return nil
	}
	if !allDigits(parts[0]) || !allDigits(parts[1]) || !allDigits(parts[2]) {
		return nil
	}
	if len(parts[0]) > 2 || len(parts[1]) > 2 || len(parts[2]) < 2 || len(parts[2]) > 4 {
		return nil
	}
	return parts
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

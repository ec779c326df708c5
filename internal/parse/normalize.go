package parse

import (
	"regexp"
	"strings"
)

var (
	reColon = regexp.MustCompile(`\s*:\s*`)
	reSpace = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes raw page or OCR text before any pattern matching:
// non-breaking spaces become ordinary spaces, runs of whitespace around a
// colon collapse to " : ", and all remaining whitespace runs (newlines
// included) collapse to single spaces. Idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	t := strings.ReplaceAll(s, " ", " ")
	t = reColon.ReplaceAllString(t, " : ")
	t = reSpace.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// reSegmentBoundary splits pasted text into per-invoice segments on the
// boundary phrases that open or close an invoice in the source documents.
var reSegmentBoundary = regexp.MustCompile(`(?i)\s(?:Tax\s*Invoice|Invoice\s*Amount\s*Summary)\s`)

// SplitSegments breaks an already-normalized text blob into chunks, one per
// invoice segment. Fragments too short to carry any field are discarded.
func SplitSegments(norm string) []string {
	parts := reSegmentBoundary.Split(norm, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) >= 10 {
			out = append(out, p)
		}
	}
	return out
}

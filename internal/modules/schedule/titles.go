package schedule

import (
	"regexp"
	"strings"
)

var (
	titlePunct = regexp.MustCompile(`[:.,-]+`)
	spaceRun   = regexp.MustCompile(`\s+`)
)

// NormalizeTitle folds a title for equality checks only, never for display.
func NormalizeTitle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = titlePunct.ReplaceAllString(s, "")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SameTitle is the exact comparison tried before normalization.
func SameTitle(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// SplitChairpersons splits the free-text chair list on commas, trimming
// and dropping blanks.
func SplitChairpersons(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// JoinNames is the inverse used when chair text is synthesized from refs.
func JoinNames(names []string) string {
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, ", ")
}

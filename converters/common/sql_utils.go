package common

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	spaceRun   = regexp.MustCompile(`\s+`)
	disallowed = regexp.MustCompile(`[^a-zA-Z0-9 _]+`)
)

// SanitizeColumnNames normalizes raw column names into SQL-friendly
// identifiers: trimmed, disallowed characters stripped, whitespace collapsed
// to underscores. A name reduced to nothing becomes cl{idx}; a leading digit
// gets a "c_" prefix; duplicates get a numeric suffix, skipping suffixes an
// earlier column already produced. Order is preserved.
func SanitizeColumnNames(raw []string) []string {
	out := make([]string, len(raw))

	counter := map[string]int{}
	used := map[string]bool{}
	for idx, name := range raw {
		name = strings.TrimSpace(name)
		name = disallowed.ReplaceAllString(name, "")
		name = spaceRun.ReplaceAllString(name, "_")

		if name == "" {
			name = fmt.Sprintf("cl%d", idx)
		} else if name[0] >= '0' && name[0] <= '9' {
			name = "c_" + name
		}

		counter[name]++
		candidate := name
		if counter[name] > 1 {
			candidate = fmt.Sprintf("%s%d", name, counter[name])
		}
		for used[candidate] {
			counter[name]++
			candidate = fmt.Sprintf("%s%d", name, counter[name])
		}
		used[candidate] = true
		out[idx] = candidate
	}
	return out
}

// QuoteIdent backtick-quotes an identifier so reserved words and odd
// characters survive, doubling any embedded backticks.
func QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// EscapeString doubles embedded single quotes for use inside a SQL string
// literal. The caller supplies the surrounding quotes.
func EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

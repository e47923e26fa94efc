package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

// Confidence levels assigned by how a value was obtained. Exact labeled
// matches score highest; keyword categorization and positional parsing
// score lower; fallbacks lowest.
const (
	confExact       = 0.95
	confParsed      = 0.85
	confCategorized = 0.70
	confFuzzy       = 0.60
)

var (
	amountRe  = regexp.MustCompile(`\$?\s*\(?([\d,]+(?:\.\d+)?)\)?`)
	percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
)

// parseAmount converts a currency token ("$1,275,000.50", "(423,750)") to a
// float. Parenthesized amounts are negative per accounting convention.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

// lineAmounts extracts every dollar amount on a line, left to right.
func lineAmounts(line string) []float64 {
	var out []float64
	for _, m := range amountRe.FindAllStringSubmatch(line, -1) {
		if v, ok := parseAmount(m[1]); ok {
			out = append(out, v)
		}
	}
	return out
}

// parsePercent extracts the first percentage on a line ("92.5 %" -> 92.5).
func parsePercent(s string) (float64, bool) {
	m := percentRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// section returns the slice of content from the first start-pattern match to
// the first end-pattern match after it, or "" when no start pattern matches.
// Matching is case-insensitive via pre-lowered content.
func section(content string, startPatterns, endPatterns []*regexp.Regexp) string {
	lower := strings.ToLower(content)

	start := -1
	for _, re := range startPatterns {
		if loc := re.FindStringIndex(lower); loc != nil {
			start = loc[0]
			break
		}
	}
	if start == -1 {
		return ""
	}

	end := len(content)
	for _, re := range endPatterns {
		if loc := re.FindStringIndex(lower[start:]); loc != nil {
			end = start + loc[0]
			break
		}
	}
	return content[start:end]
}

// stripDescription removes amounts and trailing separators from a line,
// leaving the human-readable item description.
func stripDescription(line string) string {
	desc := amountRe.ReplaceAllString(line, "")
	desc = strings.TrimRight(desc, " \t-_.:$")
	return strings.TrimSpace(desc)
}

// containsAny reports whether s contains any of the given substrings.
// Callers pass pre-lowered input.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// rewriteRules normalize legal phrasing into engineering phrasing. Applied
// in order; all patterns are case-insensitive and word-bounded so "must"
// never matches inside another word.
//
// This is the same kind of table-driven rewriting the rest of the pipeline
// uses: deterministic and easy to extend, with no claim to understand the
// sentence.
var rewriteRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\bmanufacturers\s+shall\b`), "the engineering team shall"},
	{regexp.MustCompile(`(?i)\bles\s+constructeurs\s+doivent\b`), "the engineering team shall"},
	{regexp.MustCompile(`(?i)\bdoivent\b`), "shall"},
	{regexp.MustCompile(`(?i)\bdoit\b`), "shall"},
	{regexp.MustCompile(`(?i)\bmust\b`), "shall"},
	{regexp.MustCompile(`(?i)\bis required to\b`), "shall"},
	{regexp.MustCompile(`(?i)\bare required to\b`), "shall"},
}

// toEngineering rewrites an actionable clause into a testable statement:
// obligations normalized to "shall", sentence-cased, terminated with a
// period. Pure function of the clause text.
func toEngineering(clause string) string {
	s := strings.TrimSpace(clause)
	for _, rule := range rewriteRules {
		s = rule.re.ReplaceAllString(s, rule.repl)
	}

	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	s = string(unicode.ToUpper(first)) + s[size:]
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}

package matcher

import "strings"

// literalMatcher matches a fixed substring against a candidate name, the
// --fixed-strings counterpart to regexMatcher. Case-insensitive matching
// folds both the needle and the haystack, which is adequate for the ASCII
// and common-Unicode filenames fd spends most of its time on.
type literalMatcher struct {
	pattern    string
	foldedCase bool
}

func newLiteralMatcher(pattern string, caseSensitive bool) *literalMatcher {
	p := pattern
	folded := !caseSensitive
	if folded {
		p = strings.ToLower(p)
	}
	return &literalMatcher{pattern: p, foldedCase: folded}
}

func (m *literalMatcher) Match(candidate string) bool {
	c := candidate
	if m.foldedCase {
		c = strings.ToLower(c)
	}
	return strings.Contains(c, m.pattern)
}

func (m *literalMatcher) Close() {}

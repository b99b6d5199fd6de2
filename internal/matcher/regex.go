package matcher

import "go.elara.ws/pcre"

// regexMatcher matches via the PCRE2-dialect engine, narrowed down to a
// single Match predicate: fd only ever asks "does this name match", never
// "where" or "how many times".
type regexMatcher struct {
	re *pcre.Regexp
}

func newRegexMatcher(pattern string, caseSensitive bool) (*regexMatcher, error) {
	var opts pcre.CompileOption
	if !caseSensitive {
		opts |= pcre.Caseless
	}

	re, err := pcre.CompileOpts(pattern, opts)
	if err != nil {
		return nil, err
	}
	return &regexMatcher{re: re}, nil
}

func (m *regexMatcher) Match(candidate string) bool {
	return m.re.Match([]byte(candidate))
}

func (m *regexMatcher) Close() {
	if m.re != nil {
		m.re.Close()
	}
}

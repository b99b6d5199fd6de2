// Package matcher compiles a user-supplied search pattern into a reusable
// matcher for filesystem entry names. Three engines are available — a
// literal substring matcher for fixed strings, a glob matcher, and a
// PCRE2-dialect regex matcher — chosen once at compile time based on the
// requested match mode.
package matcher

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher decides whether a candidate string (a basename or a full path,
// depending on FullPath) satisfies the compiled pattern.
type Matcher interface {
	Match(candidate string) bool
	// Close releases engine resources (PCRE2 match data). Safe to call on
	// matchers that hold nothing to release.
	Close()
}

// Options controls how a pattern is compiled.
type Options struct {
	Glob          bool // treat pattern as a shell glob instead of a regex
	FixedStrings  bool // treat pattern as a literal substring, no metacharacters
	CaseSensitive bool // smart-case resolution happens before Compile is called
	FullPath      bool // match the full path instead of just the basename
}

// Compile builds a Matcher for pattern under opts.
//
// A pattern equal to the empty string, ".", or "^" is recognized as a
// universal match, per the listing shorthand fd's users rely on.
func Compile(pattern string, opts Options) (Matcher, error) {
	if pattern == "" || pattern == "." || pattern == "^" {
		return universalMatcher{}, nil
	}

	switch {
	case opts.Glob:
		return newGlobMatcher(pattern, opts.CaseSensitive)
	case opts.FixedStrings:
		return newLiteralMatcher(pattern, opts.CaseSensitive), nil
	default:
		m, err := newRegexMatcher(pattern, opts.CaseSensitive)
		if err != nil {
			if !looksLiteral(pattern) {
				return nil, fmt.Errorf("%w (pattern contains regex metacharacters — to match them literally, use --fixed-strings)", err)
			}
			return nil, err
		}
		return m, nil
	}
}

// looksLiteral reports whether pattern has no regex metacharacters. When a
// pattern that has some fails to compile, Compile's error steers the user
// toward --fixed-strings.
func looksLiteral(pattern string) bool {
	return !strings.ContainsAny(pattern, `\.+*?()|[]{}^$`)
}

type universalMatcher struct{}

func (universalMatcher) Match(string) bool { return true }
func (universalMatcher) Close()            {}

// globMatcher matches via doublestar, which understands ** and the rest of
// the gitignore-adjacent glob dialect fd's --glob mode promises.
type globMatcher struct {
	pattern    string
	foldedCase bool
}

func newGlobMatcher(pattern string, caseSensitive bool) (*globMatcher, error) {
	p := pattern
	folded := !caseSensitive
	if folded {
		p = strings.ToLower(p)
	}
	if !doublestar.ValidatePattern(p) {
		return nil, fmt.Errorf("invalid glob pattern: %q", pattern)
	}
	return &globMatcher{pattern: p, foldedCase: folded}, nil
}

func (m *globMatcher) Match(candidate string) bool {
	c := candidate
	if m.foldedCase {
		c = strings.ToLower(c)
	}
	ok, _ := doublestar.Match(m.pattern, c)
	return ok
}

func (m *globMatcher) Close() {}

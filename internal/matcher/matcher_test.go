package matcher

import (
	"strings"
	"testing"
)

func TestUniversalMatch(t *testing.T) {
	for _, pattern := range []string{"", ".", "^"} {
		m, err := Compile(pattern, Options{})
		if err != nil {
			t.Fatalf("Compile(%q): %v", pattern, err)
		}
		defer m.Close()
		if !m.Match("anything.txt") {
			t.Errorf("pattern %q should match everything", pattern)
		}
	}
}

func TestLiteralMatch(t *testing.T) {
	m := newLiteralMatcher("foo", true)
	if !m.Match("a.foo") {
		t.Error("expected match")
	}
	if m.Match("a.FOO") {
		t.Error("case-sensitive literal should not match different case")
	}

	ci := newLiteralMatcher("foo", false)
	if !ci.Match("a.FOO") {
		t.Error("case-insensitive literal should match different case")
	}
}

func TestRegexMatch(t *testing.T) {
	m, err := Compile(`^[a-c]\.foo$`, Options{CaseSensitive: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer m.Close()

	cases := map[string]bool{
		"a.foo": true,
		"b.foo": true,
		"d.foo": false,
		"A.foo": false,
	}
	for name, want := range cases {
		if got := m.Match(name); got != want {
			t.Errorf("Match(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestRegexSmartCaseInsensitive(t *testing.T) {
	m, err := Compile("foo", Options{CaseSensitive: false})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer m.Close()
	if !m.Match("C.Foo") {
		t.Error("smart-case (lower pattern) should match mixed-case filename")
	}
}

func TestGlobMatch(t *testing.T) {
	m, err := Compile("*.foo", Options{Glob: true, CaseSensitive: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer m.Close()

	if !m.Match("a.foo") {
		t.Error("expected glob match")
	}
	if m.Match("a.bar") {
		t.Error("expected no glob match")
	}
}

func TestRegexInvalidPatternSuggestsFixedStrings(t *testing.T) {
	_, err := Compile("a(b", Options{CaseSensitive: true})
	if err == nil {
		t.Fatal("expected compile error for unbalanced group")
	}
	if !strings.Contains(err.Error(), "--fixed-strings") {
		t.Errorf("expected error to suggest --fixed-strings, got %q", err)
	}
}

package config

import "testing"

func TestResolveCaseSensitive(t *testing.T) {
	cases := []struct {
		pattern                   string
		caseSensitive, ignoreCase bool
		want                      bool
	}{
		{"foo", false, false, false},
		{"Foo", false, false, true},
		{"Foo", false, true, false},
		{"foo", true, false, true},
	}
	for _, tt := range cases {
		got := ResolveCaseSensitive(tt.pattern, tt.caseSensitive, tt.ignoreCase)
		if got != tt.want {
			t.Errorf("ResolveCaseSensitive(%q, %v, %v) = %v, want %v",
				tt.pattern, tt.caseSensitive, tt.ignoreCase, got, tt.want)
		}
	}
}

package filter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dl/fdx/internal/walker"
)

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSetAcceptExtension(t *testing.T) {
	dir := t.TempDir()
	md := writeFile(t, dir, "readme.md", 10)
	txt := writeFile(t, dir, "notes.txt", 10)

	s := &Set{Extensions: []string{"md"}}
	if !s.Accept(&walker.Entry{Path: md}) {
		t.Error("expected readme.md to be accepted")
	}
	if s.Accept(&walker.Entry{Path: txt}) {
		t.Error("expected notes.txt to be rejected")
	}
}

func TestSetAcceptSize(t *testing.T) {
	dir := t.TempDir()
	small := writeFile(t, dir, "small.bin", 10)
	big := writeFile(t, dir, "big.bin", 2000)

	s := &Set{Sizes: []SizeBound{{Op: SizeAtLeast, Bytes: 1000}}}
	if s.Accept(&walker.Entry{Path: small}) {
		t.Error("expected small.bin to be rejected")
	}
	if !s.Accept(&walker.Entry{Path: big}) {
		t.Error("expected big.bin to be accepted")
	}
}

func TestSetAcceptMTime(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "f.txt", 1)

	now := time.Now()
	s := &Set{HasMTimeAfter: true, MTimeAfter: now.Add(-time.Hour)}
	if !s.Accept(&walker.Entry{Path: p}) {
		t.Error("expected recently-written file to be accepted")
	}

	s2 := &Set{HasMTimeBefore: true, MTimeBefore: now.Add(-time.Hour)}
	if s2.Accept(&walker.Entry{Path: p}) {
		t.Error("expected recently-written file to be rejected by an before-an-hour-ago bound")
	}
}

func TestSetPrune(t *testing.T) {
	s := &Set{PruneAll: true}
	dirEntry := &walker.Entry{Path: "/tmp/x", IsDir: true}
	if !s.Prune(dirEntry) {
		t.Error("expected directory to be pruned")
	}
	fileEntry := &walker.Entry{Path: "/tmp/x", IsDir: false}
	if s.Prune(fileEntry) {
		t.Error("files are never pruned")
	}
}

func TestParseSize(t *testing.T) {
	cases := []struct {
		in      string
		wantOp  SizeOp
		wantVal int64
	}{
		{"+1k", SizeAtLeast, 1000},
		{"-1M", SizeAtMost, 1000 * 1000},
		{"100", SizeEqual, 100},
		{"1Ki", SizeEqual, 1024},
	}
	for _, tt := range cases {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			if err != nil {
				t.Fatalf("ParseSize(%q) error: %v", tt.in, err)
			}
			if got.Op != tt.wantOp || got.Bytes != tt.wantVal {
				t.Errorf("ParseSize(%q) = %+v, want op=%v bytes=%d", tt.in, got, tt.wantOp, tt.wantVal)
			}
		})
	}
}

func TestParseOwner(t *testing.T) {
	o, err := ParseOwner("!root:wheel")
	if err != nil {
		t.Fatal(err)
	}
	if !o.HasUser || !o.UserNeg || o.User != "root" {
		t.Errorf("user side parsed wrong: %+v", o)
	}
	if !o.HasGroup || o.GroupNeg || o.Group != "wheel" {
		t.Errorf("group side parsed wrong: %+v", o)
	}
}

func TestParseMTimeBoundRelative(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	got, err := ParseMTimeBound("2d", now)
	if err != nil {
		t.Fatal(err)
	}
	want := now.Add(-48 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("ParseMTimeBound(2d) = %v, want %v", got, want)
	}
}

func TestParseMTimeBoundEpoch(t *testing.T) {
	got, err := ParseMTimeBound("@0", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(time.Unix(0, 0)) {
		t.Errorf("ParseMTimeBound(@0) = %v, want unix epoch", got)
	}
}

func TestParseType(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want EntryType
	}{
		{"f", TypeFile}, {"file", TypeFile},
		{"d", TypeDir}, {"directory", TypeDir},
		{"x", TypeExecutable},
	} {
		got, err := ParseType(tt.in)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseType("bogus"); err == nil {
		t.Error("expected error for unrecognized type")
	}
}

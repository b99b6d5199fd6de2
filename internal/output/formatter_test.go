package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dl/fdx/internal/walker"
)

func fileEntry(t *testing.T, dir, name string, mode os.FileMode) *walker.Entry {
	t.Helper()
	path := filepath.Join(dir, name)
	if mode.IsDir() {
		if err := os.Mkdir(path, 0o755); err != nil {
			t.Fatal(err)
		}
		return &walker.Entry{Path: path, IsDir: true}
	}
	if err := os.WriteFile(path, []byte("x"), mode); err != nil {
		t.Fatal(err)
	}
	return &walker.Entry{Path: path}
}

func TestPathFormatterPlainNoColor(t *testing.T) {
	dir := t.TempDir()
	e := fileEntry(t, dir, "a.txt", 0o644)

	f := NewPathFormatter(NoStyles(), false, false, TerminatorNewline, "", "")
	got := string(f.Format(nil, e, e.Path))
	if got != e.Path+"\n" {
		t.Errorf("got %q", got)
	}
}

func TestPathFormatterDirTrailingSeparator(t *testing.T) {
	dir := t.TempDir()
	e := fileEntry(t, dir, "sub", os.ModeDir)

	f := NewPathFormatter(NoStyles(), false, false, TerminatorNewline, "/", "")
	got := string(f.Format(nil, e, e.Path))
	if !strings.HasSuffix(strings.TrimSuffix(got, "\n"), "/") {
		t.Errorf("expected trailing separator, got %q", got)
	}
}

func TestPathFormatterNullTerminatorNoTrailingSlash(t *testing.T) {
	dir := t.TempDir()
	e := fileEntry(t, dir, "sub", os.ModeDir)

	f := NewPathFormatter(NoStyles(), false, false, TerminatorNull, "/", "")
	got := f.Format(nil, e, e.Path)
	if got[len(got)-1] != 0 {
		t.Fatalf("expected trailing NUL byte")
	}
	body := string(got[:len(got)-1])
	if strings.HasSuffix(body, "/") {
		t.Errorf("did not expect trailing separator in null-terminated mode, got %q", body)
	}
}

func TestPathFormatterColorStylesExecutable(t *testing.T) {
	dir := t.TempDir()
	e := fileEntry(t, dir, "run.sh", 0o755)

	styles := NewStyles("")
	if got := styles.StyleFor("run.sh", IndicatorExec); !got.GetBold() {
		t.Errorf("expected executable indicator to resolve to a bold style")
	}

	f := NewPathFormatter(styles, true, false, TerminatorNewline, "/", "")
	got := string(f.Format(nil, e, e.Path))
	if !strings.HasSuffix(got, e.Path+"\n") && !strings.Contains(got, "run.sh") {
		t.Errorf("expected rendered path to still contain the filename, got %q", got)
	}
}

func TestPathFormatterTemplate(t *testing.T) {
	f := NewPathFormatter(NoStyles(), false, false, TerminatorNewline, "/", "{/.} ({/})")
	e := &walker.Entry{Path: "one/two/three.txt"}
	got := string(f.Format(nil, e, e.Path))
	want := "three (three.txt)\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIndicatorClassification(t *testing.T) {
	dir := t.TempDir()

	reg := fileEntry(t, dir, "plain.txt", 0o644)
	if got := Indicator(reg); got != IndicatorRegular {
		t.Errorf("regular file indicator = %q", got)
	}

	exe := fileEntry(t, dir, "run", 0o755)
	if got := Indicator(exe); got != IndicatorExec {
		t.Errorf("executable indicator = %q", got)
	}

	sub := fileEntry(t, dir, "sub", os.ModeDir)
	if got := Indicator(sub); got != IndicatorDir {
		t.Errorf("dir indicator = %q", got)
	}
}

func TestSinkLineIsUnbuffered(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf, true)
	if err := s.WriteLine([]byte("hello\n")); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("expected immediate write, got %q", buf.String())
	}
}

func TestSinkBlockBuffersUntilFlush(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf, false)
	if err := s.WriteLine([]byte("hello\n")); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected block sink to withhold bytes before Flush, buf=%q", buf.String())
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("got %q after flush", buf.String())
	}
}

func TestStylesSGRParsing(t *testing.T) {
	s := NewStyles("di=01;34:*.md=32")
	dirStyle := s.StyleFor("somedir", IndicatorDir)
	if !dirStyle.GetBold() {
		t.Errorf("expected di indicator to be bold")
	}
	mdStyle := s.StyleFor("readme.md", IndicatorRegular)
	if mdStyle.Render("x") == "x" {
		t.Errorf("expected extension style to render with an escape sequence")
	}
}

// Package output implements fdx's result formatting and stdout sink:
// LS_COLORS-driven path coloring, OSC 8 hyperlinks, format-template
// substitution, and a buffering strategy that switches on whether
// stdout is a terminal.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dl/fdx/internal/walker"
)

// Terminator selects how a formatted path ends.
type Terminator int

const (
	// TerminatorNewline appends "\n", the default for interactive/piped output.
	TerminatorNewline Terminator = iota
	// TerminatorNull appends "\x00", for -0/--print0.
	TerminatorNull
	// TerminatorNone appends nothing, leaving separation to the caller.
	TerminatorNone
)

func (t Terminator) bytes() []byte {
	switch t {
	case TerminatorNull:
		return []byte{0}
	case TerminatorNone:
		return nil
	default:
		return []byte{'\n'}
	}
}

// Formatter renders one walked entry to bytes.
type Formatter interface {
	Format(buf []byte, e *walker.Entry, displayPath string) []byte
}

// PathFormatter is fdx's default Formatter: component-by-component
// LS_COLORS styling, optional hyperlink wrapping, and an optional
// --format template for fd's path-oriented rendering.
type PathFormatter struct {
	Styles     Styles
	Color      bool
	Hyperlink  bool
	Terminator Terminator
	Separator  string // "" keeps the OS separator
	Template   string // "" renders the plain/colored path
}

// NewPathFormatter builds a PathFormatter.
func NewPathFormatter(styles Styles, color, hyperlink bool, term Terminator, separator, template string) *PathFormatter {
	return &PathFormatter{
		Styles:     styles,
		Color:      color,
		Hyperlink:  hyperlink,
		Terminator: term,
		Separator:  separator,
		Template:   template,
	}
}

// Format renders e, whose raw path is displayPath (already relative to
// whatever base directory the caller configured).
func (f *PathFormatter) Format(buf []byte, e *walker.Entry, displayPath string) []byte {
	var rendered string
	if f.Template != "" {
		rendered = expandFormatTemplate(f.Template, displayPath)
	} else {
		rendered = f.renderPath(e, displayPath)
	}

	if f.Hyperlink {
		rendered = wrapHyperlink(rendered, displayPath)
	}

	buf = append(buf, rendered...)
	buf = append(buf, f.Terminator.bytes()...)
	return buf
}

// renderPath walks displayPath component by component, styling each
// with the LS_COLORS entry its name/extension/type resolves to, and
// appends a trailing separator after a directory (unless the path is
// null-terminated, where a trailing slash is redundant noise).
func (f *PathFormatter) renderPath(e *walker.Entry, displayPath string) string {
	sep := f.Separator
	if sep == "" {
		sep = string(filepath.Separator)
	}

	if !f.Color || !f.Styles.enabled {
		if e.IsDir && f.Terminator != TerminatorNull && !strings.HasSuffix(displayPath, sep) {
			return displayPath + sep
		}
		return displayPath
	}

	comps := strings.Split(displayPath, sep)
	indicator := Indicator(e)

	var b strings.Builder
	for i, c := range comps {
		if i > 0 {
			b.WriteString(sep)
		}
		if c == "" {
			continue
		}
		ind := IndicatorDir
		if i == len(comps)-1 {
			ind = indicator
		}
		style := f.Styles.StyleFor(c, ind)
		b.WriteString(style.Render(c))
	}
	if e.IsDir && f.Terminator != TerminatorNull {
		b.WriteString(f.Styles.StyleFor("", IndicatorDir).Render(sep))
	}
	return b.String()
}

// wrapHyperlink wraps rendered in an OSC 8 hyperlink escape sequence
// pointing at a file:// URL built from displayPath's absolute form.
func wrapHyperlink(rendered, displayPath string) string {
	abs, err := filepath.Abs(displayPath)
	if err != nil {
		abs = displayPath
	}
	host, _ := os.Hostname()
	url := fmt.Sprintf("file://%s%s", host, filepath.ToSlash(abs))
	return "\x1b]8;;" + url + "\x1b\\" + rendered + "\x1b]8;;\x1b\\"
}

// expandFormatTemplate substitutes fdx's path placeholders within a
// --format template: {} full path, {.} path minus final extension,
// {/} basename, {//} parent path, {/.} basename minus extension. This
// mirrors internal/executor's Expand but is kept as its own small, pure
// function here — the two packages format for different sinks (stdout
// vs. a child argv) and neither should import the other for four lines
// of string substitution.
func expandFormatTemplate(tmpl, path string) string {
	r := strings.NewReplacer(
		"{/.}", stripExt(filepath.Base(path)),
		"{//}", filepath.Dir(path),
		"{/}", filepath.Base(path),
		"{.}", stripExt(path),
		"{}", path,
	)
	return r.Replace(tmpl)
}

func stripExt(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return path
	}
	return strings.TrimSuffix(path, ext)
}

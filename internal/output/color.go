package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Indicator codes LS_COLORS defines for file-type classes, checked
// ahead of the extension table.
const (
	IndicatorDir      = "di"
	IndicatorSymlink  = "ln"
	IndicatorSocket   = "so"
	IndicatorPipe     = "pi"
	IndicatorExec     = "ex"
	IndicatorOrphan   = "or" // broken symlink target
	IndicatorBlockDev = "bd"
	IndicatorCharDev  = "cd"
	IndicatorRegular  = "fi"
)

// defaultLSColors mirrors coreutils' built-in table, used when LS_COLORS
// is unset or empty.
const defaultLSColors = "di=01;34:ln=01;36:so=01;35:pi=33:ex=01;32:or=40;31;01:bd=40;33;01:cd=40;33;01:fi=0"

// Styles holds the lipgloss styles resolved from an LS_COLORS table,
// keyed by indicator class, extension, and exact filename the way
// LS_COLORS itself is structured.
type Styles struct {
	byIndicator map[string]lipgloss.Style
	byExt       map[string]lipgloss.Style
	byName      map[string]lipgloss.Style
	enabled     bool
}

// NewStyles compiles Styles from an LS_COLORS value (colon-separated
// indicator=sgr, *.ext=sgr, or *name=sgr entries). An empty value falls
// back to defaultLSColors.
func NewStyles(lsColors string) Styles {
	if lsColors == "" {
		lsColors = defaultLSColors
	}
	s := Styles{
		byIndicator: make(map[string]lipgloss.Style),
		byExt:       make(map[string]lipgloss.Style),
		byName:      make(map[string]lipgloss.Style),
		enabled:     true,
	}
	for _, entry := range strings.Split(lsColors, ":") {
		key, sgr, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		style := styleFromSGR(sgr)
		switch {
		case strings.HasPrefix(key, "*."):
			s.byExt[strings.ToLower(strings.TrimPrefix(key, "*."))] = style
		case strings.HasPrefix(key, "*"):
			s.byName[strings.TrimPrefix(key, "*")] = style
		default:
			s.byIndicator[key] = style
		}
	}
	return s
}

// NoStyles returns a Styles value that renders every component unstyled,
// for --color=never or a non-terminal sink.
func NoStyles() Styles {
	return Styles{enabled: false}
}

// ansiColors maps the single-digit SGR color code to the lipgloss ANSI
// index it selects.
var ansiColors = map[byte]string{
	'0': "0", '1': "1", '2': "2", '3': "3",
	'4': "4", '5': "5", '6': "6", '7': "7",
}

// styleFromSGR turns a semicolon-separated SGR parameter list (e.g.
// "01;34") into a lipgloss.Style. Only the SGR codes LS_COLORS actually
// emits are recognized; anything else is ignored rather than rejected.
func styleFromSGR(sgr string) lipgloss.Style {
	style := lipgloss.NewStyle()
	for _, code := range strings.Split(sgr, ";") {
		switch {
		case code == "1" || code == "01":
			style = style.Bold(true)
		case code == "4" || code == "04":
			style = style.Underline(true)
		case len(code) == 2 && code[0] == '3':
			if c, ok := ansiColors[code[1]]; ok {
				style = style.Foreground(lipgloss.Color(c))
			}
		case len(code) == 2 && code[0] == '4':
			if c, ok := ansiColors[code[1]]; ok {
				style = style.Background(lipgloss.Color(c))
			}
		}
	}
	return style
}

// StyleFor resolves the style for one path component, checking (in
// order) an exact-filename override, the file-type indicator, then the
// extension table — LS_COLORS' own resolution precedence. indicator is
// one of the Indicator* constants.
func (s Styles) StyleFor(name, indicator string) lipgloss.Style {
	if !s.enabled {
		return lipgloss.NewStyle()
	}
	if st, ok := s.byName[name]; ok {
		return st
	}
	if indicator != IndicatorRegular {
		if st, ok := s.byIndicator[indicator]; ok {
			return st
		}
	}
	if ext := fileExt(name); ext != "" {
		if st, ok := s.byExt[strings.ToLower(ext)]; ok {
			return st
		}
	}
	if st, ok := s.byIndicator[indicator]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

func fileExt(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i+1:]
}

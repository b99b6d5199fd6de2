package cli

import (
	"fmt"
	"strings"

	"github.com/dl/fdx/internal/filter"
)

// ColorMode controls when colored output is used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when stdout is a terminal
	ColorAlways                  // always use color
	ColorNever                   // never use color
)

// Config holds every flag fdx recognizes, already parsed
// into Go-native values — cmd/fdx's cobra command binds flags directly
// onto these fields, and Run validates and executes the search.
type Config struct {
	Pattern string
	Paths   []string

	Hidden            bool
	NoIgnore          bool
	Unrestricted      int // -u repeated: 1 disables VCS+custom ignore, 2 also shows hidden
	NoIgnoreVCS       bool
	NoGlobalIgnore    bool
	NoIgnoreParent    bool
	NoRequireGit      bool
	CaseSensitive     bool
	IgnoreCase        bool
	Glob              bool
	Regex             bool
	FixedStrings      bool
	FullPath          bool
	Follow            bool
	AbsolutePath      bool
	ListDetails       bool
	Print0            bool
	MaxDepth          int
	MinDepth          int
	ExactDepth        int
	Prune             bool
	Types             []string
	Extensions        []string
	Excludes          []string
	Sizes             []string
	ChangedWithin     string
	ChangedBefore     string
	Newer             string
	Older             string
	Owner             string
	Exec              []string
	ExecBatch         []string
	BatchSize         int
	Color             string
	Threads           int
	OneFileSystem     bool
	IgnoreFiles       []string
	MaxResults        int
	FirstMatchOnly    bool // -1
	Quiet             bool
	ShowErrors        bool
	PathSeparator     string
	BaseDirectory     string
	SearchPath        []string
	StripCwdPrefix    bool
	StripCwdPrefixSet bool
	Format            string
	Hyperlink         bool
}

// Validate checks flag combinations that are treated as argument
// errors (exit code 2).
func (c *Config) Validate() error {
	if c.CaseSensitive && c.IgnoreCase {
		return fmt.Errorf("cannot use --case-sensitive and --ignore-case together")
	}
	nModes := 0
	for _, b := range []bool{c.Glob, c.Regex, c.FixedStrings} {
		if b {
			nModes++
		}
	}
	if nModes > 1 {
		return fmt.Errorf("--glob, --regex, and --fixed-strings are mutually exclusive")
	}
	if len(c.Exec) > 0 && len(c.ExecBatch) > 0 {
		return fmt.Errorf("cannot use --exec and --exec-batch together")
	}
	if c.ListDetails && (len(c.Exec) > 0 || len(c.ExecBatch) > 0) {
		return fmt.Errorf("cannot use --list-details with --exec or --exec-batch")
	}
	if c.MaxDepth < 0 || c.MinDepth < 0 || c.ExactDepth < 0 {
		return fmt.Errorf("depth bounds must not be negative")
	}
	if c.ExactDepth > 0 && (c.MaxDepth > 0 || c.MinDepth > 0) {
		return fmt.Errorf("--exact-depth cannot be combined with --max-depth/--min-depth")
	}
	for _, t := range c.Types {
		if _, err := filter.ParseType(t); err != nil {
			return err
		}
	}
	for _, s := range c.Sizes {
		if _, err := filter.ParseSize(s); err != nil {
			return err
		}
	}
	if c.Owner != "" {
		if _, err := filter.ParseOwner(c.Owner); err != nil {
			return err
		}
	}
	switch strings.ToLower(c.Color) {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("invalid --color value %q", c.Color)
	}
	return nil
}

func (c *Config) colorMode() ColorMode {
	switch strings.ToLower(c.Color) {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

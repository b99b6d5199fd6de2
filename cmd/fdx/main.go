package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dl/fdx/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := cli.Config{
		Threads: 0,
		Types:   nil,
	}
	exitCode := 0

	root := &cobra.Command{
		Use:     "fdx [pattern] [path...]",
		Short:   "Find entries in the filesystem",
		Version: version + " (" + commit + ")",
		Args:    cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.Pattern = args[0]
			}
			if len(args) > 1 {
				cfg.Paths = args[1:]
			}
			exitCode = cli.Run(cfg)
			return nil
		},
	}
	bindFlags(root, &cfg)

	if err := root.Execute(); err != nil {
		return 2
	}
	return exitCode
}

// bindFlags wires every flag fdx recognizes directly onto cfg's fields.
func bindFlags(cmd *cobra.Command, cfg *cli.Config) {
	f := cmd.Flags()

	f.BoolVarP(&cfg.Hidden, "hidden", "H", false, "Include hidden files and directories")
	f.BoolVarP(&cfg.NoIgnore, "no-ignore", "I", false, "Do not respect .gitignore/.ignore/.fdignore/global-ignore files")
	f.CountVarP(&cfg.Unrestricted, "unrestricted", "u", "Reduce filtering (repeat for more: -u, -uu)")
	f.BoolVar(&cfg.NoIgnoreVCS, "no-ignore-vcs", false, "Do not respect .gitignore files")
	f.BoolVar(&cfg.NoGlobalIgnore, "no-global-ignore-file", false, "Do not respect the global ignore file")
	f.BoolVar(&cfg.NoIgnoreParent, "no-ignore-parent", false, "Do not respect ignore files in parent directories")
	f.BoolVar(&cfg.NoRequireGit, "no-require-git", false, "Apply gitignore rules even without a .git directory")
	f.BoolVarP(&cfg.CaseSensitive, "case-sensitive", "s", false, "Case-sensitive search")
	f.BoolVarP(&cfg.IgnoreCase, "ignore-case", "i", false, "Case-insensitive search")
	f.BoolVarP(&cfg.Glob, "glob", "g", false, "Treat the pattern as a glob instead of a regex")
	f.BoolVar(&cfg.Regex, "regex", false, "Treat the pattern as a regex (default)")
	f.BoolVarP(&cfg.FixedStrings, "fixed-strings", "F", false, "Treat the pattern as a literal string")
	f.BoolVarP(&cfg.FullPath, "full-path", "p", false, "Match the pattern against the full path")
	f.BoolVarP(&cfg.Follow, "follow", "L", false, "Follow symbolic links")
	f.BoolVarP(&cfg.AbsolutePath, "absolute-path", "a", false, "Print absolute paths")
	f.BoolVarP(&cfg.ListDetails, "list-details", "l", false, "Use a detailed listing format (implies --exec-batch)")
	f.BoolVarP(&cfg.Print0, "print0", "0", false, "Separate results by the null byte")
	f.IntVarP(&cfg.MaxDepth, "max-depth", "d", 0, "Maximum search depth")
	f.IntVar(&cfg.MinDepth, "min-depth", 0, "Minimum search depth")
	f.IntVar(&cfg.ExactDepth, "exact-depth", 0, "Only match at this exact depth")
	f.BoolVar(&cfg.Prune, "prune", false, "Do not descend into directories that match the pattern")
	f.StringSliceVarP(&cfg.Types, "type", "t", nil, "Filter by entry type (f, d, l, x, e, s, p, b, c)")
	f.StringSliceVarP(&cfg.Extensions, "extension", "e", nil, "Filter by file extension")
	f.StringSliceVarP(&cfg.Excludes, "exclude", "E", nil, "Exclude entries matching this glob")
	f.StringSliceVarP(&cfg.Sizes, "size", "S", nil, "Filter by file size")
	f.StringVar(&cfg.ChangedWithin, "changed-within", "", "Only entries modified within this duration/date")
	f.StringVar(&cfg.ChangedBefore, "changed-before", "", "Only entries modified before this duration/date")
	f.StringVar(&cfg.Newer, "newer", "", "Alias for --changed-within")
	f.StringVar(&cfg.Older, "older", "", "Alias for --changed-before")
	f.StringVarP(&cfg.Owner, "owner", "o", "", "Filter by file owner/group")
	f.StringSliceVarP(&cfg.Exec, "exec", "x", nil, "Execute a command for each result")
	f.StringSliceVarP(&cfg.ExecBatch, "exec-batch", "X", nil, "Execute a command once with all results")
	f.IntVar(&cfg.BatchSize, "batch-size", 0, "Maximum argv size per --exec-batch invocation")
	f.StringVarP(&cfg.Color, "color", "c", "auto", "When to use color output (auto, always, never)")
	f.IntVarP(&cfg.Threads, "threads", "j", 0, "Number of worker threads (default: number of CPUs)")
	f.BoolVar(&cfg.OneFileSystem, "one-file-system", false, "Do not descend into other file systems")
	f.BoolVar(&cfg.OneFileSystem, "mount", false, "Alias for --one-file-system")
	f.BoolVar(&cfg.OneFileSystem, "xdev", false, "Alias for --one-file-system")
	f.StringSliceVar(&cfg.IgnoreFiles, "ignore-file", nil, "Additional ignore file to respect")
	f.IntVar(&cfg.MaxResults, "max-results", 0, "Limit the number of results")
	f.BoolVarP(&cfg.FirstMatchOnly, "first-match-only", "1", false, "Stop after the first result")
	f.BoolVarP(&cfg.Quiet, "quiet", "q", false, "Produce no output, exit based on whether a match was found")
	f.BoolVar(&cfg.ShowErrors, "show-errors", false, "Print traversal errors to stderr")
	f.StringVar(&cfg.PathSeparator, "path-separator", "", "Override the path separator used in output")
	f.StringVar(&cfg.BaseDirectory, "base-directory", "", "Change to this directory before searching")
	f.StringSliceVar(&cfg.SearchPath, "search-path", nil, "Explicit list of search roots")
	cfg.StripCwdPrefix = true
	cfg.StripCwdPrefixSet = true
	f.BoolVar(&cfg.StripCwdPrefix, "strip-cwd-prefix", true, "Strip the current directory prefix from absolute search roots")
	f.StringVar(&cfg.Format, "format", "", "Custom output format template, e.g. '{/.}'")
	f.BoolVar(&cfg.Hyperlink, "hyperlink", false, "Wrap paths in OSC 8 terminal hyperlinks")
}

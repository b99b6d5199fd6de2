package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dl/fdx/internal/config"
	"github.com/dl/fdx/internal/executor"
	"github.com/dl/fdx/internal/filter"
	"github.com/dl/fdx/internal/matcher"
	"github.com/dl/fdx/internal/output"
	"github.com/dl/fdx/internal/receiver"
	"github.com/dl/fdx/internal/walker"
)

// logWarn writes a warning to stderr in a terse "progname: message" shape.
func logWarn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fdx: "+format+"\n", args...)
}

// bufferWindow is the receiver's phase-1 deadline. No flag exposes it;
// it is a fixed constant the way the reference tool's own buffering
// window is.
const bufferWindow = 100 * time.Millisecond

// Run executes one fdx search end to end: compiles the matcher and
// filter set, drives the walker, and feeds accepted entries to either
// the plain formatter or the command executor. Returns the process exit
// code.
func Run(cfg Config) int {
	if err := cfg.Validate(); err != nil {
		logWarn("%v", err)
		return 2
	}

	if cfg.BaseDirectory != "" {
		if err := os.Chdir(cfg.BaseDirectory); err != nil {
			logWarn("--base-directory: %v", err)
			return 2
		}
	}

	caseSensitive := config.ResolveCaseSensitive(cfg.Pattern, cfg.CaseSensitive, cfg.IgnoreCase)
	pm, err := matcher.Compile(cfg.Pattern, matcher.Options{
		Glob:          cfg.Glob,
		FixedStrings:  cfg.FixedStrings,
		CaseSensitive: caseSensitive,
		FullPath:      cfg.FullPath,
	})
	if err != nil {
		logWarn("%v", err)
		return 2
	}
	defer pm.Close()

	filterSet, err := buildFilterSet(cfg, pm)
	if err != nil {
		logWarn("%v", err)
		return 2
	}

	roots := cfg.Paths
	if len(cfg.SearchPath) > 0 {
		roots = cfg.SearchPath
	}
	if len(roots) == 0 {
		roots = []string{"."}
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	cancel := new(atomic.Bool)
	stopSignals := installSignalHandler(cancel)
	defer stopSignals()

	unrestricted := cfg.Unrestricted
	ignoreVCS := !(cfg.NoIgnore || cfg.NoIgnoreVCS || unrestricted >= 1)
	ignoreCustom := !(cfg.NoIgnore || unrestricted >= 1)
	useGlobal := !(cfg.NoIgnore || cfg.NoGlobalIgnore || unrestricted >= 1)
	hidden := cfg.Hidden || unrestricted >= 2

	walkOpts := walker.Options{
		Roots:          roots,
		FollowSymlinks: cfg.Follow,
		OneFileSystem:  cfg.OneFileSystem,
		Hidden:         hidden,
		Ignore: walker.IgnoreFiles{
			VCSIgnore:    ignoreVCS,
			CustomIgnore: ignoreCustom,
			RequireGit:   !cfg.NoRequireGit,
			IgnoreParent: !cfg.NoIgnoreParent,
		},
		GlobalIgnoreFile: config.GlobalIgnoreFilePath(),
		UseGlobalIgnore:  useGlobal,
		ExtraIgnoreFiles: cfg.IgnoreFiles,
		Excludes:         cfg.Excludes,
		Threads:          threads,
		MinDepth:         cfg.MinDepth,
		MaxDepth:         cfg.MaxDepth,
		ExactDepth:       cfg.ExactDepth,
		Predicate:        filterSet,
		Cancel:           cancel,
	}

	entries, errs := walker.Walk(walkOpts)
	go func() {
		for e := range errs {
			if cfg.ShowErrors {
				logWarn("%v", e)
			}
		}
	}()

	maxResults := cfg.MaxResults
	if cfg.FirstMatchOnly {
		maxResults = 1
	}

	batchAll := cfg.ListDetails || len(cfg.ExecBatch) > 0

	switch {
	case cfg.ListDetails:
		return runBatched(cfg, executor.ListDetailsTemplate(), cancel, maxResults, entries)
	case len(cfg.ExecBatch) > 0:
		tmpl, _ := executor.ParseTemplate(cfg.ExecBatch)
		return runBatched(cfg, tmpl, cancel, maxResults, entries)
	case len(cfg.Exec) > 0:
		return runPerResult(cfg, cancel, maxResults, entries)
	default:
		return runPrint(cfg, cancel, maxResults, batchAll, entries)
	}
}

// buildFilterSet compiles every --type/--extension/--size/--owner/etc.
// flag into a filter.Set wrapping the compiled pattern matcher.
func buildFilterSet(cfg Config, pm matcher.Matcher) (*filter.Set, error) {
	set := &filter.Set{
		ExcludeGlobs: nil, // handled by the walker directly
		Matcher:      matcherPredicate{m: pm, fullPath: cfg.FullPath},
		PruneAll:     cfg.Prune,
	}

	for _, t := range cfg.Types {
		parsed, err := filter.ParseType(t)
		if err != nil {
			return nil, err
		}
		set.Types = append(set.Types, parsed)
	}

	for _, e := range cfg.Extensions {
		set.Extensions = append(set.Extensions, strings.ToLower(strings.TrimPrefix(e, ".")))
	}

	for _, s := range cfg.Sizes {
		parsed, err := filter.ParseSize(s)
		if err != nil {
			return nil, err
		}
		set.Sizes = append(set.Sizes, parsed)
	}

	now := time.Now()
	if cfg.ChangedWithin != "" {
		t, err := filter.ParseMTimeBound(cfg.ChangedWithin, now)
		if err != nil {
			return nil, fmt.Errorf("--changed-within: %w", err)
		}
		set.MTimeAfter, set.HasMTimeAfter = t, true
	}
	if cfg.Newer != "" {
		t, err := filter.ParseMTimeBound(cfg.Newer, now)
		if err != nil {
			return nil, fmt.Errorf("--newer: %w", err)
		}
		set.MTimeAfter, set.HasMTimeAfter = t, true
	}
	if cfg.ChangedBefore != "" {
		t, err := filter.ParseMTimeBound(cfg.ChangedBefore, now)
		if err != nil {
			return nil, fmt.Errorf("--changed-before: %w", err)
		}
		set.MTimeBefore, set.HasMTimeBefore = t, true
	}
	if cfg.Older != "" {
		t, err := filter.ParseMTimeBound(cfg.Older, now)
		if err != nil {
			return nil, fmt.Errorf("--older: %w", err)
		}
		set.MTimeBefore, set.HasMTimeBefore = t, true
	}

	if cfg.Owner != "" {
		owner, err := filter.ParseOwner(cfg.Owner)
		if err != nil {
			return nil, err
		}
		set.Owner, set.HasOwner = owner, true
	}

	return set, nil
}

// matcherPredicate adapts a compiled matcher.Matcher to walker.Predicate,
// applying it to the basename or the full path depending on --full-path.
type matcherPredicate struct {
	m        matcher.Matcher
	fullPath bool
}

func (p matcherPredicate) Accept(e *walker.Entry) bool {
	candidate := e.Path
	if !p.fullPath {
		candidate = filepath.Base(e.Path)
	}
	return p.m.Match(candidate)
}

func (p matcherPredicate) Prune(*walker.Entry) bool { return false }

// installSignalHandler handles process signals: first SIGINT flips cancel so
// workers drain gracefully, a second forces immediate exit.
func installSignalHandler(cancel *atomic.Bool) (stop func()) {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-sigs:
				if cancel.Swap(true) {
					os.Exit(130)
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// runPrint is the default mode: format and print each accepted path.
func runPrint(cfg Config, cancel *atomic.Bool, maxResults int, batchAll bool, entries <-chan *walker.Entry) int {
	isTTY := output.StdoutIsTerminal()
	useColor := resolveColor(cfg, isTTY)

	var styles output.Styles
	if useColor {
		styles = output.NewStyles(os.Getenv("LS_COLORS"))
	} else {
		styles = output.NoStyles()
	}

	term := output.TerminatorNewline
	if cfg.Print0 {
		term = output.TerminatorNull
	}

	formatter := output.NewPathFormatter(styles, useColor, cfg.Hyperlink, term, cfg.PathSeparator, cfg.Format)
	sink := output.NewSink(output.NewWriter(), isTTY)

	count := 0
	brokenPipe := false
	rcv := receiver.New(receiver.Options{
		BufferWindow: bufferWindow,
		MaxResults:   maxResults,
		BatchAll:     batchAll,
		Cancel:       cancel,
	}, func(e *walker.Entry) {
		count++
		if cfg.Quiet || brokenPipe {
			return
		}
		path := displayPath(cfg, e.Path)
		var buf []byte
		buf = formatter.Format(buf, e, path)
		if err := sink.WriteLine(buf); err != nil {
			// Broken pipe: stop writing but let the
			// walk finish draining under cancel rather than crashing.
			brokenPipe = true
			cancel.Store(true)
		}
	})
	rcv.Run(entries)
	sink.Flush()

	if brokenPipe {
		if count > 0 {
			return 0
		}
		return 1
	}
	if count == 0 {
		return 1
	}
	return 0
}

// runPerResult wires the receiver straight into a bounded executor.Pool,
// the --exec CMD pipeline.
func runPerResult(cfg Config, cancel *atomic.Bool, maxResults int, entries <-chan *walker.Entry) int {
	tmpl, _ := executor.ParseTemplate(cfg.Exec)
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	pool := executor.NewPool(tmpl, threads, os.Stdout, os.Stderr)

	paths := make(chan string, 256)
	count := 0
	go func() {
		defer close(paths)
		rcv := receiver.New(receiver.Options{
			BufferWindow: bufferWindow,
			MaxResults:   maxResults,
			Cancel:       cancel,
		}, func(e *walker.Entry) {
			count++
			paths <- e.Path
		})
		rcv.Run(entries)
	}()

	code := pool.Run(contextFromCancel(cancel), paths)
	if code != 0 {
		return code
	}
	if count == 0 {
		return 1
	}
	return 0
}

// runBatched accumulates the full sorted result set and dispatches
// chunked child invocations, the --exec-batch/-X and --list-details path.
func runBatched(cfg Config, tmpl executor.Template, cancel *atomic.Bool, maxResults int, entries <-chan *walker.Entry) int {
	var paths []string
	rcv := receiver.New(receiver.Options{
		MaxResults: maxResults,
		BatchAll:   true,
		Cancel:     cancel,
	}, func(e *walker.Entry) {
		paths = append(paths, e.Path)
	})
	rcv.Run(entries)

	if len(paths) == 0 {
		return 1
	}

	chunks := executor.Chunk(tmpl, paths, cfg.BatchSize)
	code := executor.RunBatches(contextFromCancel(cancel), tmpl, chunks, os.Stdout, os.Stderr)
	if code != 0 {
		return code
	}
	return 0
}

// contextFromCancel derives a context that is canceled when cancel
// flips true, so the executor's child processes are killed on a second
// SIGINT the same way the walker stops descending.
func contextFromCancel(cancel *atomic.Bool) context.Context {
	ctx, stop := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if cancel.Load() {
					stop()
					return
				}
			}
		}
	}()
	return ctx
}

func resolveColor(cfg Config, isTTY bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	switch cfg.colorMode() {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTTY
	}
}

// displayPath applies --absolute-path / --strip-cwd-prefix / --path-separator
// to a walked path before it is formatted.
func displayPath(cfg Config, raw string) string {
	p := raw
	switch {
	case cfg.AbsolutePath:
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	case cfg.StripCwdPrefixSet && cfg.StripCwdPrefix:
		if cwd, err := os.Getwd(); err == nil {
			if rel, err := filepath.Rel(cwd, p); err == nil {
				p = rel
			}
		}
	}
	if cfg.PathSeparator != "" && cfg.PathSeparator != string(filepath.Separator) {
		p = strings.ReplaceAll(p, string(filepath.Separator), cfg.PathSeparator)
	}
	return p
}

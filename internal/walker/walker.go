// Package walker implements the bounded-pool concurrent directory walker: a
// shared work queue of pending directories drained by a fixed number of
// worker goroutines, each applying the ignore stack, depth bounds, and the
// caller's Predicate before emitting an Entry or descending further. The
// queue+condvar shape and "clone the parent's ignore layers onto each child
// directory" trick keep a concurrent traversal lock-light without a full
// work-stealing scheduler; directories are read with os.ReadDir (portable,
// lazy stat) rather than a raw getdents64 loop.
package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
)

// Predicate decides whether an already ignore-and-depth-accepted entry
// should be emitted, and (for directories) whether the walker should
// descend into it. internal/filter.Set, composed with the selected
// internal/matcher.Matcher, implements this for cmd/fdx.
type Predicate interface {
	// Accept reports whether entry should be emitted.
	Accept(e *Entry) bool
	// Prune reports whether entry, a directory, should not be descended.
	Prune(e *Entry) bool
}

type acceptAllPredicate struct{}

func (acceptAllPredicate) Accept(*Entry) bool { return true }
func (acceptAllPredicate) Prune(*Entry) bool  { return false }

// Options configures a Walk call, the Go-native shape of the
// WalkConfig.
type Options struct {
	Roots            []string
	FollowSymlinks   bool
	OneFileSystem    bool
	Hidden           bool
	Ignore           IgnoreFiles
	GlobalIgnoreFile string
	UseGlobalIgnore  bool
	ExtraIgnoreFiles []string
	Excludes         []string // --exclude globs, rejected unconditionally
	Threads          int      // clamped to [1, 64]
	MinDepth         int
	MaxDepth         int // 0 means unbounded
	ExactDepth       int // 0 means not set
	Predicate        Predicate

	// Cancel is polled between directory children and between queue
	// dequeues. The caller (receiver, on --max-results; signal handler,
	// on SIGINT) sets it to stop the walk early. A nil Cancel disables
	// early cancellation.
	Cancel *atomic.Bool
}

func clampThreads(n int) int {
	if n < 1 {
		return 1
	}
	if n > 64 {
		return 64
	}
	return n
}

// Walk traverses Options.Roots and sends discovered entries on the returned
// channel, with I/O and directory-read errors sent on the error channel.
// Both channels are closed once the walk (or an early cancellation)
// completes.
func Walk(opts Options) (<-chan *Entry, <-chan error) {
	entries := make(chan *Entry, 256)
	errs := make(chan error, 16)

	if opts.Cancel == nil {
		opts.Cancel = new(atomic.Bool)
	}
	if opts.Predicate == nil {
		opts.Predicate = acceptAllPredicate{}
	}

	go func() {
		defer close(entries)
		defer close(errs)

		pw := &pool{
			opts:    opts,
			entries: entries,
			errs:    errs,
			visited: newVisitedSet(),
		}
		pw.cond = sync.NewCond(&pw.mu)

		for _, root := range opts.Roots {
			pw.seedRoot(root)
		}

		workers := clampThreads(opts.Threads)
		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				pw.worker()
			}()
		}
		wg.Wait()
	}()

	return entries, errs
}

// walkItem is one directory pending traversal.
type walkItem struct {
	path        string
	depth       int
	rootDev     devIno
	ignores     []ignoreLayer
	globalLayer ignoreLayer
	gitSeen     bool
}

// pool coordinates concurrent traversal with a shared work queue: a
// mutex-guarded slice plus a sync.Cond, and a pending counter that
// reaches zero exactly when there is no more work.
type pool struct {
	opts    Options
	entries chan<- *Entry
	errs    chan<- error
	visited *visitedSet

	mu      sync.Mutex
	queue   []walkItem
	pending int
	cond    *sync.Cond
	done    bool
}

func lstatRoot(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (pw *pool) seedRoot(root string) {
	info, err := lstatRoot(root)
	if err != nil {
		pw.sendErr(&WalkError{Path: root, Err: err})
		return
	}

	if !info.IsDir() {
		e := &Entry{Path: root, IsDir: false}
		if pw.opts.Predicate.Accept(e) {
			pw.emit(e)
		}
		return
	}

	rootDev, _ := statDevIno(root)
	global := loadGlobalLayer(root, pw.opts.GlobalIgnoreFile, pw.opts.ExtraIgnoreFiles, pw.opts.UseGlobalIgnore)

	gitSeen := pw.opts.Ignore.VCSIgnore && hasGitMarker(root)
	var ignores []ignoreLayer
	if pw.opts.Ignore.VCSIgnore || pw.opts.Ignore.CustomIgnore {
		if pw.opts.Ignore.IgnoreParent {
			parentLayers, parentGitSeen := loadParentLayers(root, pw.opts.Ignore)
			ignores = append(ignores, parentLayers...)
			if parentGitSeen {
				gitSeen = true
			}
		}
		ignores = append(ignores, loadIgnoreLayer(root, pw.opts.Ignore, gitSeen))
	}

	if pw.opts.FollowSymlinks || pw.opts.OneFileSystem {
		pw.visited.visit(rootDev)
	}

	pw.enqueue(walkItem{
		path:        root,
		depth:       0,
		rootDev:     rootDev,
		ignores:     ignores,
		globalLayer: global,
		gitSeen:     gitSeen,
	})
}

func (pw *pool) enqueue(item walkItem) {
	pw.mu.Lock()
	pw.queue = append(pw.queue, item)
	pw.pending++
	pw.mu.Unlock()
	pw.cond.Signal()
}

func (pw *pool) dequeue() (walkItem, bool) {
	pw.mu.Lock()
	for len(pw.queue) == 0 && !pw.done {
		pw.cond.Wait()
	}
	if pw.done && len(pw.queue) == 0 {
		pw.mu.Unlock()
		return walkItem{}, false
	}
	item := pw.queue[0]
	pw.queue = pw.queue[1:]
	pw.mu.Unlock()
	return item, true
}

func (pw *pool) finish() {
	pw.mu.Lock()
	pw.pending--
	if pw.pending == 0 && len(pw.queue) == 0 {
		pw.done = true
		pw.cond.Broadcast()
	}
	pw.mu.Unlock()
}

func (pw *pool) worker() {
	for {
		if pw.opts.Cancel.Load() {
			pw.drainQueue()
			return
		}
		item, ok := pw.dequeue()
		if !ok {
			return
		}
		pw.processDir(item)
		pw.finish()
	}
}

// drainQueue discards remaining work once cancellation fires, still
// balancing pending/finish bookkeeping so dequeue's waiters unblock.
func (pw *pool) drainQueue() {
	pw.mu.Lock()
	n := len(pw.queue)
	pw.queue = nil
	pw.pending -= n
	if pw.pending <= 0 {
		pw.done = true
	}
	pw.cond.Broadcast()
	pw.mu.Unlock()
}

func (pw *pool) sendErr(err error) {
	select {
	case pw.errs <- err:
	default:
		pw.errs <- err
	}
}

func (pw *pool) emit(e *Entry) {
	pw.entries <- e
}

// processDir reads one directory's children and, for each, applies the
// ignore stack, hidden-file rule, exclude globs and depth bounds before
// either emitting a file entry or enqueueing a subdirectory. The directory
// handle is closed before subdirectories are enqueued — traversal never
// holds more file descriptors than there are workers in flight.
func (pw *pool) processDir(item walkItem) {
	if pw.opts.Cancel.Load() {
		return
	}

	children, err := os.ReadDir(item.path)
	if err != nil {
		pw.sendErr(&WalkError{Path: item.path, Err: err})
		return
	}

	childDepth := item.depth + 1

	for _, de := range children {
		if pw.opts.Cancel.Load() {
			return
		}
		name := de.Name()
		fullPath := filepath.Join(item.path, name)

		if isVCSDir(name) && de.IsDir() {
			continue
		}
		if !pw.opts.Hidden && strings.HasPrefix(name, ".") {
			continue
		}

		isDir := de.IsDir()
		isSymlink := de.Type()&fs.ModeSymlink != 0

		if isSymlink {
			// A broken symlink stays a non-directory leaf and is still
			// emitted; its Metadata reports Broken.
			if target, err := os.Stat(fullPath); err == nil {
				isDir = target.IsDir()
			}
		}

		if pw.ignoredByAnyLayer(item, fullPath, isDir) {
			continue
		}
		if pw.matchesExclude(name, fullPath) {
			continue
		}

		entry := &Entry{
			Path:     fullPath,
			DirEntry: de,
			IsDir:    isDir,
			depth:    childDepth,
		}

		if isDir {
			pw.handleSubdir(item, entry, isSymlink)
			continue
		}

		if pw.withinDepthForEmit(childDepth) && pw.opts.Predicate.Accept(entry) {
			pw.emit(entry)
		}
	}
}

func (pw *pool) handleSubdir(parent walkItem, entry *Entry, isSymlink bool) {
	if isSymlink && !pw.opts.FollowSymlinks {
		// Unfollowed symlink-to-directory: listed as a leaf, never descended.
		if pw.withinDepthForEmit(entry.depth) && pw.opts.Predicate.Accept(entry) {
			pw.emit(entry)
		}
		return
	}

	dev, err := statDevIno(entry.Path)
	if err == nil {
		if isSymlink && pw.visited.visit(dev) {
			return // symlink cycle
		}
		if pw.opts.OneFileSystem && !sameDevice(dev, parent.rootDev) {
			return
		}
	}

	if pw.withinDepthForEmit(entry.depth) && pw.opts.Predicate.Accept(entry) {
		pw.emit(entry)
	}

	if pw.opts.Predicate.Prune(entry) {
		return
	}
	if pw.opts.MaxDepth > 0 && entry.depth >= pw.opts.MaxDepth {
		return
	}

	gitSeen := parent.gitSeen
	if pw.opts.Ignore.VCSIgnore && hasGitMarker(entry.Path) {
		gitSeen = true
	}

	var childIgnores []ignoreLayer
	if pw.opts.Ignore.VCSIgnore || pw.opts.Ignore.CustomIgnore {
		childIgnores = make([]ignoreLayer, len(parent.ignores)+1)
		copy(childIgnores, parent.ignores)
		childIgnores[len(parent.ignores)] = loadIgnoreLayer(entry.Path, pw.opts.Ignore, gitSeen)
	}

	pw.enqueue(walkItem{
		path:        entry.Path,
		depth:       entry.depth,
		rootDev:     parent.rootDev,
		ignores:     childIgnores,
		globalLayer: parent.globalLayer,
		gitSeen:     gitSeen,
	})
}

// ignoredByAnyLayer checks fullPath against the root-anchored global layer
// (--ignore-file / global ignore file, which apply regardless of descent
// depth) and against item's inherited VCS/custom-ignore chain.
func (pw *pool) ignoredByAnyLayer(item walkItem, fullPath string, isDir bool) bool {
	if isIgnoredByLayers([]ignoreLayer{item.globalLayer}, fullPath, isDir) {
		return true
	}
	return isIgnoredByLayers(item.ignores, fullPath, isDir)
}

func (pw *pool) matchesExclude(name, fullPath string) bool {
	for _, pattern := range pw.opts.Excludes {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(fullPath)); ok {
			return true
		}
	}
	return false
}

func (pw *pool) withinDepthForEmit(depth int) bool {
	if pw.opts.ExactDepth > 0 {
		return depth == pw.opts.ExactDepth
	}
	if depth < pw.opts.MinDepth {
		return false
	}
	if pw.opts.MaxDepth > 0 && depth > pw.opts.MaxDepth {
		return false
	}
	return true
}

func isVCSDir(name string) bool {
	switch name {
	case ".git", ".svn", ".hg":
		return true
	}
	return false
}

// visitedSet guards the set of directories already descended into via a
// symlink, so --follow never loops. Roots are recorded in it too, so a
// followed symlink back to a root counts as a cycle; the one-file-system
// boundary is checked against walkItem.rootDev instead.
type visitedSet struct {
	mu   sync.Mutex
	seen map[devIno]bool
}

func newVisitedSet() *visitedSet {
	return &visitedSet{seen: make(map[devIno]bool)}
}

// visit records d as seen and reports whether it had already been visited.
func (v *visitedSet) visit(d devIno) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seen[d] {
		return true
	}
	v.seen[d] = true
	return false
}

// WalkError represents an error during directory traversal.
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return "walk " + e.Path + ": " + e.Err.Error()
}

func (e *WalkError) Unwrap() error {
	return e.Err
}

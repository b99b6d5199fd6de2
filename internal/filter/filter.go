// Package filter implements the FilterSet predicate chain: per-entry
// accept/reject decisions on type, extension, size, mtime window, owner,
// and exclude globs, plus the separate prune decision for directories.
// Depth bounds are enforced by the walker, not by a Set. A Set implements walker.Predicate directly so the walker
// never needs to know which individual predicates are configured.
package filter

import (
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dl/fdx/internal/walker"
)

// EntryType enumerates the type classes --type/-t accepts.
type EntryType int

const (
	TypeFile EntryType = iota
	TypeDir
	TypeSymlink
	TypeExecutable
	TypeEmpty
	TypeSocket
	TypePipe
	TypeBlockDevice
	TypeCharDevice
)

// SizeOp is the relational operator a --size bound uses.
type SizeOp int

const (
	SizeAtLeast SizeOp = iota // "+N"
	SizeAtMost                // "-N"
	SizeEqual                 // bare "N"
)

// SizeBound is one parsed --size occurrence. Multiple occurrences combine
// with logical AND.
type SizeBound struct {
	Op    SizeOp
	Bytes int64
}

// Owner is a parsed --owner predicate: [!]user[:[!]group], numeric ids
// accepted, empty side matches anything.
type Owner struct {
	User       string
	UserNeg    bool
	HasUser    bool
	Group      string
	GroupNeg   bool
	HasGroup   bool
}

// Set is the compiled FilterSet: every predicate that is configured (its
// zero value means "not requested") must hold for an entry to be
// accepted. Set is built once at startup and is immutable afterward, so
// it is safe to share across walker worker goroutines by reference.
type Set struct {
	Types      []EntryType
	Extensions []string // lower-cased, without the leading dot
	Sizes      []SizeBound
	MTimeAfter  time.Time
	MTimeBefore time.Time
	HasMTimeAfter  bool
	HasMTimeBefore bool
	Owner      Owner
	HasOwner   bool
	ExcludeGlobs []string
	PruneGlobs   []string // directories matching any of these globs are also pruned; no flag sets it
	PruneAll     bool     // --prune: when true, every matched directory is pruned

	Matcher walker.Predicate // wraps the compiled PatternMatcher; nil means accept-all
}

// Accept implements walker.Predicate.
func (s *Set) Accept(e *walker.Entry) bool {
	if len(s.ExcludeGlobs) > 0 && s.matchesAnyGlob(s.ExcludeGlobs, e) {
		return false
	}
	if len(s.Types) > 0 && !s.matchesAnyType(e) {
		return false
	}
	if len(s.Extensions) > 0 && !s.matchesExtension(e) {
		return false
	}
	if len(s.Sizes) > 0 && !s.matchesSizes(e) {
		return false
	}
	if (s.HasMTimeAfter || s.HasMTimeBefore) && !s.matchesMTime(e) {
		return false
	}
	if s.HasOwner && !s.matchesOwner(e) {
		return false
	}
	if s.Matcher != nil && !s.Matcher.Accept(e) {
		return false
	}
	return true
}

// Prune implements walker.Predicate: directories matched by --prune (or
// by one of the PruneGlobs patterns) are not descended, though they may
// still be emitted by Accept.
func (s *Set) Prune(e *walker.Entry) bool {
	if !e.IsDir {
		return false
	}
	if s.PruneAll && s.Accept(e) {
		return true
	}
	if len(s.PruneGlobs) > 0 && s.matchesAnyGlob(s.PruneGlobs, e) {
		return true
	}
	return false
}

func (s *Set) matchesAnyGlob(patterns []string, e *walker.Entry) bool {
	base := basename(e.Path)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, e.Path); ok {
			return true
		}
	}
	return false
}

func basename(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return path
	}
	return path[i+1:]
}

func (s *Set) matchesAnyType(e *walker.Entry) bool {
	meta, err := e.Metadata()
	if err != nil {
		return false
	}
	for _, t := range s.Types {
		if typeMatches(t, e, meta) {
			return true
		}
	}
	return false
}

func typeMatches(t EntryType, e *walker.Entry, meta *walker.Metadata) bool {
	switch t {
	case TypeFile:
		return meta.Mode.IsRegular()
	case TypeDir:
		return e.IsDir
	case TypeSymlink:
		return meta.Mode&os.ModeSymlink != 0
	case TypeExecutable:
		return isExecutableEntry(e, meta)
	case TypeEmpty:
		return (meta.Mode.IsRegular() && meta.Size == 0) || (e.IsDir && dirIsEmpty(e.Path))
	case TypeSocket:
		return meta.Mode&os.ModeSocket != 0
	case TypePipe:
		return meta.Mode&os.ModeNamedPipe != 0
	case TypeBlockDevice:
		return meta.Mode&os.ModeDevice != 0 && meta.Mode&os.ModeCharDevice == 0
	case TypeCharDevice:
		return meta.Mode&os.ModeDevice != 0 && meta.Mode&os.ModeCharDevice != 0
	}
	return false
}

func dirIsEmpty(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	names, err := f.Readdirnames(1)
	if err != nil {
		return len(names) == 0
	}
	return len(names) == 0
}

func (s *Set) matchesExtension(e *walker.Entry) bool {
	base := basename(e.Path)
	ext := fileExtension(base)
	if ext == "" {
		return false
	}
	ext = strings.ToLower(ext)
	for _, want := range s.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// fileExtension returns everything after the first dot that is not the
// leading character, so "archive.tar.gz" yields "tar.gz" (multi-dot
// extensions permitted, per spec).
func fileExtension(name string) string {
	if name == "" {
		return ""
	}
	i := strings.IndexByte(name[1:], '.') + 1
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i+1:]
}

func (s *Set) matchesSizes(e *walker.Entry) bool {
	meta, err := e.Metadata()
	if err != nil {
		return false
	}
	for _, b := range s.Sizes {
		switch b.Op {
		case SizeAtLeast:
			if meta.Size < b.Bytes {
				return false
			}
		case SizeAtMost:
			if meta.Size > b.Bytes {
				return false
			}
		case SizeEqual:
			if meta.Size != b.Bytes {
				return false
			}
		}
	}
	return true
}

func (s *Set) matchesMTime(e *walker.Entry) bool {
	meta, err := e.Metadata()
	if err != nil {
		return false
	}
	if s.HasMTimeAfter && meta.ModTime.Before(s.MTimeAfter) {
		return false
	}
	if s.HasMTimeBefore && meta.ModTime.After(s.MTimeBefore) {
		return false
	}
	return true
}

func (s *Set) matchesOwner(e *walker.Entry) bool {
	meta, err := e.Metadata()
	if err != nil {
		return false
	}
	if s.Owner.HasUser {
		ok := ownerFieldMatches(s.Owner.User, meta.Uid)
		if s.Owner.UserNeg {
			ok = !ok
		}
		if !ok {
			return false
		}
	}
	if s.Owner.HasGroup {
		ok := ownerFieldMatches(s.Owner.Group, meta.Gid)
		if s.Owner.GroupNeg {
			ok = !ok
		}
		if !ok {
			return false
		}
	}
	return true
}

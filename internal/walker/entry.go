package walker

import (
	"io/fs"
	"os"
	"sync"
	"time"
)

// Entry is a single filesystem object discovered during traversal: an
// absolute or root-relative path together with lazily-resolved metadata.
// Metadata is fetched at most once per entry and cached for the duration
// of filter evaluation.
type Entry struct {
	Path    string
	DirEntry fs.DirEntry // as returned by the directory read, nil for root entries
	IsDir   bool
	depth   int

	once sync.Once
	meta *Metadata
	err  error
}

// Metadata holds the subset of stat(2) fields the FilterSet cares about.
// It is populated on first access (from the directory entry's Info, or
// Lstat) and cached on the Entry.
type Metadata struct {
	Mode    fs.FileMode
	Size    int64
	ModTime time.Time
	Uid     uint32
	Gid     uint32
	// LinkTarget is populated only when the entry is a symlink whose
	// target exists; it holds the link text as read by Readlink.
	LinkTarget string
	// Broken is true for a symlink whose target could not be stat'd.
	Broken bool
}

// Depth returns the entry's depth relative to the root it was found under
// (the root itself is depth 0).
func (e *Entry) Depth() int { return e.depth }

// Metadata lazily stats the entry and caches the result. Safe for
// concurrent, repeated calls — only the first call touches the
// filesystem.
func (e *Entry) Metadata() (*Metadata, error) {
	e.once.Do(func() {
		e.meta, e.err = statEntry(e.Path, e.DirEntry)
	})
	return e.meta, e.err
}

func statEntry(path string, de fs.DirEntry) (*Metadata, error) {
	var fi os.FileInfo
	var err error
	if de != nil && de.Type()&fs.ModeSymlink == 0 {
		fi, err = de.Info()
	}
	if fi == nil {
		fi, err = os.Lstat(path)
	}
	if err != nil {
		return nil, err
	}

	m := &Metadata{
		Mode:    fi.Mode(),
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}
	fillPlatformMetadata(m, fi)

	if m.Mode&fs.ModeSymlink != 0 {
		target, statErr := os.Stat(path)
		if statErr != nil {
			m.Broken = true
		} else {
			link, _ := os.Readlink(path)
			m.LinkTarget = link
			m.Size = target.Size()
		}
	}
	return m, nil
}

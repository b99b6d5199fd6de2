//go:build windows

package filter

import (
	"strings"

	"github.com/dl/fdx/internal/walker"
)

// windowsExecutableExts are the extensions Windows itself treats as
// directly executable (the PATHEXT default list, minus script shells that
// need an interpreter fd has no business guessing at).
var windowsExecutableExts = map[string]bool{
	".exe": true, ".bat": true, ".cmd": true, ".com": true,
}

// isExecutableEntry has no POSIX mode bits to consult on Windows; fall
// back to an extension heuristic.
func isExecutableEntry(e *walker.Entry, meta *walker.Metadata) bool {
	i := strings.LastIndexByte(e.Path, '.')
	if i < 0 {
		return false
	}
	return windowsExecutableExts[strings.ToLower(e.Path[i:])]
}

// ownerFieldMatches: Windows has no POSIX uid/gid, so no owner field ever
// matches on this platform: a plain --owner rejects every entry and a
// negated one ("!name") accepts every entry.
func ownerFieldMatches(field string, id uint32) bool {
	return false
}

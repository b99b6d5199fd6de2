//go:build unix

package filter

import (
	"os"
	"os/user"
	"strconv"

	"github.com/dl/fdx/internal/walker"
)

// isExecutableEntry checks the file-mode execute bits for the effective
// user: owner bit if the process owns the file, group bit if the process
// is a member of the owning group, other bit otherwise.
func isExecutableEntry(e *walker.Entry, meta *walker.Metadata) bool {
	if !meta.Mode.IsRegular() {
		return false
	}
	perm := meta.Mode.Perm()
	euid := uint32(os.Geteuid())
	inGroup := uint32(os.Getegid()) == meta.Gid
	if !inGroup {
		if gids, err := os.Getgroups(); err == nil {
			for _, g := range gids {
				if uint32(g) == meta.Gid {
					inGroup = true
					break
				}
			}
		}
	}
	switch {
	case euid == meta.Uid:
		return perm&0o100 != 0
	case inGroup:
		return perm&0o010 != 0
	default:
		return perm&0o001 != 0
	}
}

// ownerFieldMatches compares a parsed --owner field (user or group,
// accepting either a name or a numeric id) against a resolved numeric id.
// Name lookups are best-effort: os/user requires cgo or nsswitch data
// this process may not have, so an unresolved name falls back to a
// non-match rather than an error.
func ownerFieldMatches(field string, id uint32) bool {
	if field == "" {
		return true
	}
	if n, err := strconv.ParseUint(field, 10, 32); err == nil {
		return uint32(n) == id
	}
	return lookupNameMatches(field, id)
}

// lookupNameMatches tries field as a user name first (matching the -o
// owner field), falling back to a group name (matching the group field).
// Callers distinguish user/group context only by which id they pass, so
// this tries both lookups and compares whichever resolves.
func lookupNameMatches(field string, id uint32) bool {
	if u, err := user.Lookup(field); err == nil {
		if uid, err := strconv.ParseUint(u.Uid, 10, 32); err == nil {
			return uint32(uid) == id
		}
	}
	if g, err := user.LookupGroup(field); err == nil {
		if gid, err := strconv.ParseUint(g.Gid, 10, 32); err == nil {
			return uint32(gid) == id
		}
	}
	return false
}

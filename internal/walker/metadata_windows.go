//go:build windows

package walker

import "os"

// Windows has no POSIX uid/gid; Uid and Gid stay zero, and owner fields
// never match on this platform (see internal/filter's ownerFieldMatches).
func fillPlatformMetadata(m *Metadata, fi os.FileInfo) {}

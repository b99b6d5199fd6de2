//go:build unix

package walker

import (
	"os"
	"syscall"
)

func fillPlatformMetadata(m *Metadata, fi os.FileInfo) {
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		m.Uid = st.Uid
		m.Gid = st.Gid
	}
}

//go:build unix

package walker

import "golang.org/x/sys/unix"

// devIno identifies a directory by (device, inode), used to detect
// --follow symlink loops and to enforce the --one-file-system boundary.
type devIno struct {
	dev uint64
	ino uint64
}

func statDevIno(path string) (devIno, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return devIno{}, err
	}
	return devIno{dev: uint64(st.Dev), ino: st.Ino}, nil
}

// sameDevice reports whether a and b were stat'd from the same filesystem.
func sameDevice(a, b devIno) bool {
	return a.dev == b.dev
}

//go:build windows

package walker

import "path/filepath"

// devIno has no cheap POSIX equivalent on Windows; fall back to the
// cleaned absolute path as the cycle-detection key. This under-detects
// hardlink aliases but still suppresses the common symlink-loop case fd's
// --follow flag needs to guard against.
type devIno struct {
	path string
}

func statDevIno(path string) (devIno, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return devIno{}, err
	}
	return devIno{path: filepath.Clean(abs)}, nil
}

// sameDevice has no reliable signal on Windows without a real device
// number; treat every path as its own device, so --one-file-system
// conservatively stops descending the moment the path changes.
func sameDevice(a, b devIno) bool {
	return a.path == b.path
}

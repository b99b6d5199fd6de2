//go:build unix

package output

import (
	"os"

	"golang.org/x/sys/unix"
)

// IsTerminal checks if the given file descriptor is a terminal using
// ioctl.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}

// StdoutIsTerminal returns true if stdout is a terminal.
func StdoutIsTerminal() bool {
	return IsTerminal(os.Stdout.Fd())
}

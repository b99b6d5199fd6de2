//go:build unix

package output

import (
	"os"

	"golang.org/x/sys/unix"
)

// Writer writes formatted output to stdout using writev for
// scatter-gather I/O.
type Writer struct {
	fd int
}

// NewWriter creates a Writer that writes to stdout.
func NewWriter() *Writer {
	return &Writer{fd: int(os.Stdout.Fd())}
}

// Write implements io.Writer, writing data to stdout via writev.
func (w *Writer) Write(data []byte) (int, error) {
	total := len(data)
	for len(data) > 0 {
		n, err := unix.Writev(w.fd, [][]byte{data})
		if err != nil {
			return total - len(data), err
		}
		data = data[n:]
	}
	return total, nil
}

package output

import (
	"io/fs"

	"github.com/dl/fdx/internal/walker"
)

// Indicator resolves the LS_COLORS indicator class for e from its cached
// metadata (plain files vs executables need the mode bits); an entry whose
// metadata cannot be read is classed as an orphan.
func Indicator(e *walker.Entry) string {
	meta, err := e.Metadata()
	if err != nil {
		return IndicatorOrphan
	}
	switch {
	case meta.Broken:
		return IndicatorOrphan
	case meta.Mode&fs.ModeSymlink != 0:
		return IndicatorSymlink
	case e.IsDir:
		return IndicatorDir
	case meta.Mode&fs.ModeNamedPipe != 0:
		return IndicatorPipe
	case meta.Mode&fs.ModeSocket != 0:
		return IndicatorSocket
	case meta.Mode&fs.ModeDevice != 0:
		if meta.Mode&fs.ModeCharDevice != 0 {
			return IndicatorCharDev
		}
		return IndicatorBlockDev
	case meta.Mode.IsRegular() && meta.Mode.Perm()&0o111 != 0:
		return IndicatorExec
	default:
		return IndicatorRegular
	}
}

package logger

import (
	"encoding/hex"
	"strings"
	"sync/atomic"
)

var frameDebug atomic.Bool

// SetFrameDebug enables or disables hex dumps of bus traffic
func SetFrameDebug(enable bool) {
	frameDebug.Store(enable)
}

// FrameDebugEnabled reports whether hex dumps are enabled
func FrameDebugEnabled() bool {
	return frameDebug.Load()
}

// Frame logs a hex dump of data at debug level when frame debugging is on
func Frame(l Logger, direction string, addr uint8, data []byte) {
	if !frameDebug.Load() || l == nil {
		return
	}
	dump := strings.TrimRight(hex.Dump(data), "\n")
	l.Debug("%s 0x%02X (%d bytes)\n%s", direction, addr, len(data), dump)
}

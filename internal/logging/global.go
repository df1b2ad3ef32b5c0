package logging

import (
	"os"
	"sync"
	"sync/atomic"
)

var (
	installed atomic.Bool
	global    atomic.Pointer[Logger]

	fallbackOnce sync.Once
	fallback     *Logger
)

// InstallGlobal registers the process-wide logger. It must be called at most
// once per process; a second call is a programming error and panics rather
// than silently replacing the first logger.
func InstallGlobal(l *Logger) {
	if l == nil {
		panic("logging: InstallGlobal called with nil logger")
	}
	if !installed.CompareAndSwap(false, true) {
		panic("logging: global logger already installed")
	}
	global.Store(l)
}

// Global returns the installed process-wide logger. Before installation it
// returns a stdout info-level logger so early code paths still produce
// structured output.
func Global() *Logger {
	if l := global.Load(); l != nil {
		return l
	}
	fallbackOnce.Do(func() {
		fallback = New("mailcrate", LevelInfo, os.Stdout)
	})
	return fallback
}

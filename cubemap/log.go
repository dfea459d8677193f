package cubemap

import (
	"sync"

	"go.uber.org/zap"
)

var (
	pkgLogger   = zap.NewNop()
	pkgLoggerMu sync.RWMutex
)

// SetLogger installs the logger used for transform diagnostics. The package
// default is a no-op logger; passing nil restores it. Callers own logger
// construction and syncing.
func SetLogger(l *zap.Logger) {
	pkgLoggerMu.Lock()
	defer pkgLoggerMu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	pkgLogger = l
}

func logger() *zap.Logger {
	pkgLoggerMu.RLock()
	defer pkgLoggerMu.RUnlock()
	return pkgLogger
}

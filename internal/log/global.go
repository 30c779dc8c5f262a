package log

import "sync"

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// SetGlobal replaces the global logger
func SetGlobal(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = logger
}

// Global returns the global logger, creating a default one if unset
func Global() *Logger {
	globalMu.RLock()
	if globalLogger != nil {
		defer globalMu.RUnlock()
		return globalLogger
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = Default()
	}
	return globalLogger
}

// Package logger provides the zap-backed structured logger used by the API
// server and the CLI.
package logger

import (
	"sync"
)

// Log levels accepted by config (log.level).
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. cmd/blogapi calls it once the config
// is loaded, so log.level applies to every component it hands the logger to
// (handlers get a Named child). Fatal paths that run before or after wiring
// reach the same instance without threading it through. The first call fixes
// the level; later calls return the same instance.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = New(level)
	})
	return globalLogger
}

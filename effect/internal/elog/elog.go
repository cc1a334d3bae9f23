// Package elog holds the library's diagnostic logger. The library is silent
// by default; embedders install a zap logger to see engine internals such
// as concurrent run lifecycles and worker dispatch.
package elog

import "go.uber.org/zap"

var logger = zap.NewNop()

// Use installs l as the library's diagnostic logger. Passing nil restores
// the silent default. Not safe to call concurrently with running
// aggregations; install once at startup.
func Use(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop()
		return
	}
	logger = l
}

// L returns the current diagnostic logger.
func L() *zap.Logger {
	return logger
}

package effect

import (
	"go.uber.org/zap"

	"github.com/lightfold/effectgo/effect/internal/elog"
)

// UseLogger installs l as the library's diagnostic logger. The library is
// silent by default; with a logger installed it emits debug events for
// concurrent run lifecycles and worker dispatch. Passing nil restores the
// silent default. Install once at startup.
func UseLogger(l *zap.Logger) {
	elog.Use(l)
}

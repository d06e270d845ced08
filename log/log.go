// Package log provides access to the module-wide default logger.
//
// Timers created without an explicit logger use [Default]. Applications can
// replace it once during start-up with [SetDefault].
package log

import (
	"log/slog"
	"sync/atomic"

	"github.com/ghettovoice/timer/internal/log"
)

var def atomic.Pointer[slog.Logger]

func init() {
	def.Store(log.Def)
}

// Default returns the default logger.
func Default() *slog.Logger { return def.Load() }

// SetDefault replaces the default logger.
// Nil resets it to the built-in console logger.
func SetDefault(l *slog.Logger) {
	if l == nil {
		l = log.Def
	}
	def.Store(l)
}

// Noop returns a logger that discards everything.
func Noop() *slog.Logger { return log.Noop }

// Dev returns a verbose developer logger.
func Dev() *slog.Logger { return log.Dev }

// FmtValue returns a value logger that formats values using '%+v' or '%#v' syntax.
func FmtValue(v any, goSyntax bool) slog.LogValuer { return log.FmtValue(v, goSyntax) }

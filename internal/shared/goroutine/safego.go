// Package goroutine launches background work that must not take the process down.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/recordsdesk/triage/internal/shared/logger"
)

// SafeGo runs fn on a new goroutine and logs, rather than propagates, a panic.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer Recover(log, name)
		fn()
	}()
}

// Recover is deferred by long-running loops that already own their goroutine.
func Recover(log logger.Interface, name string) {
	if r := recover(); r != nil {
		log.Errorw("goroutine panicked",
			"goroutine", name,
			"panic", fmt.Sprint(r),
			"stack", string(debug.Stack()),
		)
	}
}

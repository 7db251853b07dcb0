// internal/browser/session/context_utils.go
package session

import "context"

// CombineContext returns a context carrying the values of tabCtx (the chromedp
// target it runs against) that is done as soon as either tabCtx or opCtx is.
// chromedp looks its connection up from context values, so the operation's
// own context cannot be used directly.
func CombineContext(tabCtx, opCtx context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(tabCtx)
	stop := context.AfterFunc(opCtx, cancel)
	return combined, func() {
		stop()
		cancel()
	}
}

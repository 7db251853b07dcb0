// internal/browser/session/interfaces.go
package session

import (
	"context"

	"github.com/chromedp/chromedp"
)

// ActionExecutor runs raw chromedp actions against the focused window. It is
// the escape hatch for page objects that need a primitive the Driver does not
// expose.
type ActionExecutor interface {
	RunActions(ctx context.Context, actions ...chromedp.Action) error
}

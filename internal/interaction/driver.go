// internal/interaction/driver.go
package interaction

import (
	"context"
	"time"
)

// Condition is an element state the driver can wait for.
type Condition int

const (
	Present Condition = iota
	Visible
	NotVisible
	// Clickable is visible, enabled and not obscured.
	Clickable
	Absent
)

func (c Condition) String() string {
	switch c {
	case Present:
		return "present"
	case Visible:
		return "visible"
	case NotVisible:
		return "not visible"
	case Clickable:
		return "clickable"
	case Absent:
		return "absent"
	default:
		return "unknown"
	}
}

// failure is how a missed condition reads in an error, e.g. "not clickable".
func (c Condition) failure() string {
	switch c {
	case NotVisible:
		return "still visible"
	case Absent:
		return "still present"
	default:
		return "not " + c.String()
	}
}

// Driver is the browser capability the Interactor is built on. Implementations
// resolve Locators on every call and serialize access to the browser themselves.
type Driver interface {
	// WaitFor blocks until cond holds for target or timeout elapses.
	WaitFor(ctx context.Context, cond Condition, target Locator, timeout time.Duration) error

	Click(ctx context.Context, target Locator) error
	// ScriptClick clicks through script execution, bypassing overlays that
	// intercept native clicks.
	ScriptClick(ctx context.Context, target Locator) error
	// MouseClick moves the pointer over target and clicks it.
	MouseClick(ctx context.Context, target Locator) error
	Tap(ctx context.Context, target Locator) error

	SendKeys(ctx context.Context, target Locator, text string) error
	// KeyEvent types keys into whatever element has focus.
	KeyEvent(ctx context.Context, keys string) error
	Clear(ctx context.Context, target Locator) error
	SetUploadFiles(ctx context.Context, target Locator, files []string) error

	Attribute(ctx context.Context, target Locator, name string) (string, error)
	CSSValue(ctx context.Context, target Locator, property string) (string, error)
	Text(ctx context.Context, target Locator) (string, error)
	IsSelected(ctx context.Context, target Locator) (bool, error)

	// ExecuteScript runs script as a function body. Elements are passed as
	// arguments[0..n]; the return value is decoded into res when non-nil.
	ExecuteScript(ctx context.Context, script string, res interface{}, elements ...Locator) error

	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	WindowHandles(ctx context.Context) ([]string, error)
	SwitchToWindow(ctx context.Context, handle string) error
	CloseWindow(ctx context.Context) error
}

// Clock abstracts time so retry budgets can be tested without sleeping.
type Clock interface {
	Now() time.Time
	// Sleep pauses for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SystemClock is the wall clock.
var SystemClock Clock = realClock{}

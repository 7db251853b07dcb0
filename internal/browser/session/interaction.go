// internal/browser/session/interaction.go
// Element-level primitives of the Session. These resolve a Locator on every
// call and do exactly one thing; waiting and retrying belong to the
// interaction package.

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/css"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-e2e/internal/interaction"
)

const pollInterval = 100 * time.Millisecond

// WaitFor blocks until cond holds for target or timeout elapses.
func (s *Session) WaitFor(ctx context.Context, cond interaction.Condition, target interaction.Locator, timeout time.Duration) error {
	if timeout <= 0 {
		return fmt.Errorf("no time left to wait for %s to be %s", target, cond)
	}
	q, err := toSelector(target)
	if err != nil {
		return err
	}

	var action chromedp.Action
	switch cond {
	case interaction.Present:
		action = chromedp.WaitReady(q.sel, q.by)
	case interaction.Visible:
		action = chromedp.WaitVisible(q.sel, q.by)
	case interaction.Clickable:
		action = chromedp.Tasks{
			chromedp.WaitVisible(q.sel, q.by),
			chromedp.WaitEnabled(q.sel, q.by),
			chromedp.Poll(unobscuredExpr(target), nil,
				chromedp.WithPollingInterval(pollInterval), chromedp.WithPollingTimeout(timeout)),
		}
	case interaction.NotVisible:
		action = chromedp.Poll(hiddenExpr(target), nil,
			chromedp.WithPollingInterval(pollInterval), chromedp.WithPollingTimeout(timeout))
	case interaction.Absent:
		action = chromedp.Poll(absentExpr(target), nil,
			chromedp.WithPollingInterval(pollInterval), chromedp.WithPollingTimeout(timeout))
	default:
		return fmt.Errorf("unsupported condition %v", cond)
	}
	return s.run(ctx, fmt.Sprintf("waiting for %s to be %s", target, cond), timeout, action)
}

// Click clicks target with a native mouse click.
func (s *Session) Click(ctx context.Context, target interaction.Locator) error {
	q, err := toSelector(target)
	if err != nil {
		return err
	}
	s.logger.Debug("Clicking element.", zap.Stringer("target", target))
	return s.run(ctx, "click on "+target.String(), actionTimeout,
		chromedp.Click(q.sel, q.by, chromedp.NodeVisible))
}

// ScriptClick calls the element's click() from script.
func (s *Session) ScriptClick(ctx context.Context, target interaction.Locator) error {
	return s.ExecuteScript(ctx, "arguments[0].click();", nil, target)
}

// MouseClick moves the pointer onto the centre of target before clicking it,
// so hover handlers fire first.
func (s *Session) MouseClick(ctx context.Context, target interaction.Locator) error {
	return s.atCentre(ctx, "hover and click on "+target.String(), target, func(ctx context.Context, x, y float64) error {
		if err := input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx); err != nil {
			return err
		}
		return chromedp.MouseClickXY(x, y).Do(ctx)
	})
}

// Tap dispatches a touch start and end on the centre of target.
func (s *Session) Tap(ctx context.Context, target interaction.Locator) error {
	return s.atCentre(ctx, "tap on "+target.String(), target, func(ctx context.Context, x, y float64) error {
		if err := input.DispatchTouchEvent(input.TouchStart, []*input.TouchPoint{{X: x, Y: y}}).Do(ctx); err != nil {
			return err
		}
		return input.DispatchTouchEvent(input.TouchEnd, []*input.TouchPoint{}).Do(ctx)
	})
}

func (s *Session) atCentre(ctx context.Context, what string, target interaction.Locator, fn func(ctx context.Context, x, y float64) error) error {
	q, err := toSelector(target)
	if err != nil {
		return err
	}
	return s.run(ctx, what, actionTimeout,
		chromedp.ScrollIntoView(q.sel, q.by),
		chromedp.QueryAfter(q.sel, func(ctx context.Context, _ runtime.ExecutionContextID, nodes ...*cdp.Node) error {
			if len(nodes) == 0 {
				return fmt.Errorf("%s matched no nodes", target)
			}
			box, err := dom.GetBoxModel().WithNodeID(nodes[0].NodeID).Do(ctx)
			if err != nil {
				return err
			}
			x, y, ok := centre(box.Content)
			if !ok {
				return fmt.Errorf("%s has no layout box", target)
			}
			return fn(ctx, x, y)
		}, q.by, chromedp.NodeVisible),
	)
}

// centre returns the midpoint of a four-point quad.
func centre(q dom.Quad) (float64, float64, bool) {
	if len(q) != 8 {
		return 0, 0, false
	}
	var x, y float64
	for i := 0; i < 8; i += 2 {
		x += q[i]
		y += q[i+1]
	}
	return x / 4, y / 4, true
}

// SendKeys focuses target and types text into it.
func (s *Session) SendKeys(ctx context.Context, target interaction.Locator, text string) error {
	q, err := toSelector(target)
	if err != nil {
		return err
	}
	return s.run(ctx, "typing into "+target.String(), actionTimeout, chromedp.SendKeys(q.sel, text, q.by))
}

// KeyEvent types keys into the focused element.
func (s *Session) KeyEvent(ctx context.Context, keys string) error {
	return s.run(ctx, "key event", actionTimeout, chromedp.KeyEvent(keys))
}

// Clear empties an input or textarea.
func (s *Session) Clear(ctx context.Context, target interaction.Locator) error {
	q, err := toSelector(target)
	if err != nil {
		return err
	}
	return s.run(ctx, "clearing "+target.String(), actionTimeout, chromedp.Clear(q.sel, q.by))
}

// SetUploadFiles sets the files of a file input.
func (s *Session) SetUploadFiles(ctx context.Context, target interaction.Locator, files []string) error {
	q, err := toSelector(target)
	if err != nil {
		return err
	}
	return s.run(ctx, "uploading to "+target.String(), actionTimeout, chromedp.SetUploadFiles(q.sel, files, q.by))
}

// Attribute returns the attribute value, or "" when the attribute is unset.
func (s *Session) Attribute(ctx context.Context, target interaction.Locator, name string) (string, error) {
	q, err := toSelector(target)
	if err != nil {
		return "", err
	}
	var (
		value string
		ok    bool
	)
	err = s.run(ctx, fmt.Sprintf("reading %s of %s", name, target), actionTimeout,
		chromedp.AttributeValue(q.sel, name, &value, &ok, q.by))
	return value, err
}

// CSSValue returns the computed value of property.
func (s *Session) CSSValue(ctx context.Context, target interaction.Locator, property string) (string, error) {
	q, err := toSelector(target)
	if err != nil {
		return "", err
	}
	var styles []*css.ComputedStyleProperty
	err = s.run(ctx, fmt.Sprintf("reading style %s of %s", property, target), actionTimeout,
		chromedp.ComputedStyle(q.sel, &styles, q.by))
	if err != nil {
		return "", err
	}
	for _, p := range styles {
		if p.Name == property {
			return p.Value, nil
		}
	}
	return "", nil
}

// Text returns the visible text of target.
func (s *Session) Text(ctx context.Context, target interaction.Locator) (string, error) {
	q, err := toSelector(target)
	if err != nil {
		return "", err
	}
	var text string
	err = s.run(ctx, "reading text of "+target.String(), actionTimeout, chromedp.Text(q.sel, &text, q.by))
	return text, err
}

// IsSelected reports the checked state of a checkbox or radio button.
func (s *Session) IsSelected(ctx context.Context, target interaction.Locator) (bool, error) {
	q, err := toSelector(target)
	if err != nil {
		return false, err
	}
	var checked bool
	err = s.run(ctx, "reading checked state of "+target.String(), actionTimeout,
		chromedp.JavascriptAttribute(q.sel, "checked", &checked, q.by))
	return checked, err
}

// ExecuteScript runs script as a function body with elements bound to
// arguments[0..n]. The result is decoded into res when it is non-nil.
func (s *Session) ExecuteScript(ctx context.Context, script string, res interface{}, elements ...interaction.Locator) error {
	expr := scriptCall(script, elements)
	return s.run(ctx, "script execution", actionTimeout,
		chromedp.Evaluate(expr, res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}))
}

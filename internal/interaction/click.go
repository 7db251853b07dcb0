// internal/interaction/click.go
package interaction

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Click waits for target to become clickable and clicks it natively. A wait
// that times out, a stale node or an intercepted click costs one attempt.
// The per-attempt wait follows FlatSlice unless overridden.
func (in *Interactor) Click(ctx context.Context, target Locator, opts ...CallOption) error {
	req := in.newRequest(OpClick, target, FlatSlice, opts)
	_, err := retry(ctx, in, req, func(ctx context.Context, slice time.Duration) (none, error) {
		if err := in.waitFor(ctx, Clickable, target, slice); err != nil {
			return none{}, err
		}
		return none{}, in.driver.Click(ctx, target)
	}, nil)
	return err
}

// ForceClick clicks target without checking that it is clickable. If the
// click fails it sleeps for one attempt's share of the budget and clicks once
// more before giving up. Use it only where the clickable wait is known to
// misreport an element.
func (in *Interactor) ForceClick(ctx context.Context, target Locator, opts ...CallOption) error {
	req := in.newRequest(OpForceClick, target, FlatSlice, opts)
	req.policy = fixedSlice(req.budget / time.Duration(req.attempts))
	req.attempts = 2
	req.pause = true
	_, err := retry(ctx, in, req, func(ctx context.Context, _ time.Duration) (none, error) {
		return none{}, in.driver.Click(ctx, target)
	}, nil)
	return err
}

// ScriptClick clicks target through script execution instead of the native
// click, for elements whose clicks are intercepted by overlays. Attempts do not
// wait on their own, so a slice is slept between them.
func (in *Interactor) ScriptClick(ctx context.Context, target Locator, opts ...CallOption) error {
	req := in.newRequest(OpScriptClick, target, FlatSlice, opts)
	req.pause = true
	_, err := retry(ctx, in, req, func(ctx context.Context, _ time.Duration) (none, error) {
		return none{}, in.driver.ScriptClick(ctx, target)
	}, nil)
	return err
}

// HoverAndClick waits for target to be present, moves the pointer over it and
// clicks. Not retried.
func (in *Interactor) HoverAndClick(ctx context.Context, target Locator, opts ...CallOption) error {
	req := in.newRequest(OpHoverAndClick, target, FlatSlice, opts)
	_, err := once(ctx, in, req, func(ctx context.Context, slice time.Duration) (none, error) {
		if err := in.waitFor(ctx, Present, target, slice); err != nil {
			return none{}, err
		}
		return none{}, in.driver.MouseClick(ctx, target)
	})
	return err
}

// Tap waits for target to be clickable and taps it with a touch event.
func (in *Interactor) Tap(ctx context.Context, target Locator, opts ...CallOption) error {
	req := in.newRequest(OpTap, target, FlatSlice, opts)
	_, err := once(ctx, in, req, func(ctx context.Context, slice time.Duration) (none, error) {
		if err := in.waitFor(ctx, Clickable, target, slice); err != nil {
			return none{}, err
		}
		return none{}, in.driver.Tap(ctx, target)
	})
	return err
}

// SelectCheckbox clicks checkbox only when its checked state differs from selected.
func (in *Interactor) SelectCheckbox(ctx context.Context, checkbox Locator, selected bool, opts ...CallOption) error {
	current, err := in.driver.IsSelected(ctx, checkbox)
	if err != nil {
		return &Error{Op: OpSelectCheckbox, Target: checkbox, Attempts: 1, Err: err}
	}
	if current == selected {
		in.logger.Debug("Checkbox already in requested state.",
			zap.Stringer("target", checkbox), zap.Bool("selected", selected))
		return nil
	}
	return in.Click(ctx, checkbox, opts...)
}

// SelectFromList picks the li under list whose text equals text.
func (in *Interactor) SelectFromList(ctx context.Context, list Locator, text string, opts ...CallOption) error {
	if err := in.WaitVisible(ctx, list, opts...); err != nil {
		return err
	}
	return in.Click(ctx, list.Descendant("li", text, TextEquals), opts...)
}

// SelectFromComboBox picks the li under box whose text contains text.
func (in *Interactor) SelectFromComboBox(ctx context.Context, box Locator, text string, opts ...CallOption) error {
	if err := in.WaitVisible(ctx, box, opts...); err != nil {
		return err
	}
	return in.Click(ctx, box.Descendant("li", text, TextContains), opts...)
}

// SelectFromMultiSelect opens a multi-select, picks the option containing text
// and then clicks loseFocus so the widget closes and commits the selection.
// Each step waits for clickability with the full budget and is not retried.
func (in *Interactor) SelectFromMultiSelect(ctx context.Context, multiSelect Locator, text string, loseFocus Locator, opts ...CallOption) error {
	steps := []Locator{
		multiSelect,
		multiSelect.Descendant("li", text, TextContains),
		loseFocus,
	}
	for _, target := range steps {
		req := in.newRequest(OpClick, target, FlatSlice, opts)
		if _, err := once(ctx, in, req, func(ctx context.Context, slice time.Duration) (none, error) {
			if err := in.waitFor(ctx, Clickable, target, slice); err != nil {
				return none{}, err
			}
			return none{}, in.driver.Click(ctx, target)
		}); err != nil {
			return fmt.Errorf("select %q from %s: %w", text, multiSelect, err)
		}
	}
	return nil
}

// SlowType clicks target and then types keys one character at a time with
// delay between them, for inputs that drop fast keystrokes.
func (in *Interactor) SlowType(ctx context.Context, target Locator, keys string, delay time.Duration, opts ...CallOption) error {
	if err := in.Click(ctx, target, opts...); err != nil {
		return err
	}
	for _, r := range keys {
		if err := in.driver.KeyEvent(ctx, string(r)); err != nil {
			return &Error{Op: OpSlowType, Target: target, Attempts: 1, Err: err}
		}
		if err := in.clock.Sleep(ctx, delay); err != nil {
			return &Error{Op: OpSlowType, Target: target, Attempts: 1, Err: err}
		}
	}
	return nil
}

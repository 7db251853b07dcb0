// internal/interaction/wait.go
package interaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// WaitVisible waits for target to become visible. Each attempt waits for its
// ShrinkingSlice of what is left, so attempts that fail fast leave more time
// to the later ones.
func (in *Interactor) WaitVisible(ctx context.Context, target Locator, opts ...CallOption) error {
	return in.waitRetrying(ctx, OpWaitVisible, Visible, target, opts)
}

// WaitNotVisible waits for target to be hidden or removed, with the same
// retry schedule as WaitVisible.
func (in *Interactor) WaitNotVisible(ctx context.Context, target Locator, opts ...CallOption) error {
	return in.waitRetrying(ctx, OpWaitNotVisible, NotVisible, target, opts)
}

// WaitPresent waits once, for the whole budget, for target to be attached.
func (in *Interactor) WaitPresent(ctx context.Context, target Locator, opts ...CallOption) error {
	return in.waitOnce(ctx, OpWaitPresent, Present, target, opts)
}

// WaitClickable waits once, for the whole budget, for target to be clickable.
func (in *Interactor) WaitClickable(ctx context.Context, target Locator, opts ...CallOption) error {
	return in.waitOnce(ctx, OpWaitClickable, Clickable, target, opts)
}

// WaitAbsent waits once, for the whole budget, for target to be detached.
func (in *Interactor) WaitAbsent(ctx context.Context, target Locator, opts ...CallOption) error {
	return in.waitOnce(ctx, OpWaitAbsent, Absent, target, opts)
}

// WaitURLEquals polls the current URL until it equals url.
func (in *Interactor) WaitURLEquals(ctx context.Context, url string, opts ...CallOption) error {
	return in.poll(ctx, in.newRequest(OpWaitURLEquals, Page, FlatSlice, opts),
		fmt.Sprintf("url to be %q", url),
		func(ctx context.Context) (bool, error) {
			current, err := in.driver.CurrentURL(ctx)
			return current == url, err
		})
}

// WaitURLContains polls the current URL until it contains fragment.
func (in *Interactor) WaitURLContains(ctx context.Context, fragment string, opts ...CallOption) error {
	return in.poll(ctx, in.newRequest(OpWaitURLContains, Page, FlatSlice, opts),
		fmt.Sprintf("url to contain %q", fragment),
		func(ctx context.Context) (bool, error) {
			current, err := in.driver.CurrentURL(ctx)
			return strings.Contains(current, fragment), err
		})
}

// WaitTextPresent polls the text of target until it contains text.
func (in *Interactor) WaitTextPresent(ctx context.Context, target Locator, text string, opts ...CallOption) error {
	return in.poll(ctx, in.newRequest(OpWaitTextPresent, target, FlatSlice, opts),
		fmt.Sprintf("text %q to be present", text),
		func(ctx context.Context) (bool, error) {
			got, err := in.driver.Text(ctx, target)
			return strings.Contains(got, text), err
		})
}

func (in *Interactor) waitRetrying(ctx context.Context, op Op, cond Condition, target Locator, opts []CallOption) error {
	req := in.newRequest(op, target, ShrinkingSlice, opts)
	_, err := retry(ctx, in, req, func(ctx context.Context, slice time.Duration) (none, error) {
		return none{}, in.waitFor(ctx, cond, target, slice)
	}, nil)
	return err
}

func (in *Interactor) waitOnce(ctx context.Context, op Op, cond Condition, target Locator, opts []CallOption) error {
	req := in.newRequest(op, target, FlatSlice, opts)
	_, err := once(ctx, in, req, func(ctx context.Context, slice time.Duration) (none, error) {
		return none{}, in.waitFor(ctx, cond, target, slice)
	})
	return err
}

// poll evaluates check every PollInterval until it holds or the budget runs
// out. A check error does not end the wait; the last one is reported alongside
// ErrConditionNotMet if the condition never holds.
func (in *Interactor) poll(ctx context.Context, req request, expect string, check func(context.Context) (bool, error)) error {
	log := in.logger.With(zap.Stringer("op", req.op), zap.Stringer("target", req.target))
	deadline := in.clock.Now().Add(req.budget)

	var (
		polls   int
		lastErr error
	)
	for {
		polls++
		ok, err := check(ctx)
		if err == nil && ok {
			log.Debug("Condition met.", zap.Int("polls", polls))
			return nil
		}
		lastErr = err

		left := deadline.Sub(in.clock.Now())
		if left <= 0 || ctx.Err() != nil {
			break
		}
		wait := in.cfg.PollInterval
		if wait > left {
			wait = left
		}
		if err := in.clock.Sleep(ctx, wait); err != nil {
			lastErr = err
			break
		}
	}

	cause := fmt.Errorf("waited %s for %s: %w", req.budget, expect, ErrConditionNotMet)
	if lastErr != nil {
		cause = fmt.Errorf("%w (last error: %v)", cause, lastErr)
	}
	log.Error("Condition not met.", zap.Int("polls", polls), zap.Error(cause))
	return &Error{Op: req.op, Target: req.target, Attempts: polls, Err: cause}
}

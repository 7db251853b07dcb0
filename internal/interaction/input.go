// internal/interaction/input.go
package interaction

import (
	"context"
	"time"
)

// TypeValue waits for target to be present and sends value to it. Retry
// semantics are the same as Click.
func (in *Interactor) TypeValue(ctx context.Context, target Locator, value string, opts ...CallOption) error {
	req := in.newRequest(OpTypeValue, target, FlatSlice, opts)
	_, err := retry(ctx, in, req, func(ctx context.Context, slice time.Duration) (none, error) {
		if err := in.waitFor(ctx, Present, target, slice); err != nil {
			return none{}, err
		}
		return none{}, in.driver.SendKeys(ctx, target, value)
	}, nil)
	return err
}

// TypeDate focuses a date input, clears it and types date. Date widgets
// reformat as they go, so this is deliberately not retried.
func (in *Interactor) TypeDate(ctx context.Context, target Locator, date string) error {
	steps := []func() error{
		func() error { return in.driver.Click(ctx, target) },
		func() error { return in.driver.Clear(ctx, target) },
		func() error { return in.driver.SendKeys(ctx, target, date) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return &Error{Op: OpTypeDate, Target: target, Attempts: 1, Err: err}
		}
	}
	return nil
}

// Clear waits for target to be visible and clears its contents.
func (in *Interactor) Clear(ctx context.Context, target Locator, opts ...CallOption) error {
	req := in.newRequest(OpClear, target, FlatSlice, opts)
	_, err := once(ctx, in, req, func(ctx context.Context, slice time.Duration) (none, error) {
		if err := in.waitFor(ctx, Visible, target, slice); err != nil {
			return none{}, err
		}
		return none{}, in.driver.Clear(ctx, target)
	})
	return err
}

// GetAttribute reads attribute name of target. An empty value is retried like
// a failure, since it usually means the element has not finished rendering.
// When every attempt comes back empty the empty value is returned without an
// error; when the last attempt failed outright its error is returned.
func (in *Interactor) GetAttribute(ctx context.Context, target Locator, name string, opts ...CallOption) (string, error) {
	return in.read(ctx, OpGetAttribute, target, opts, func(ctx context.Context) (string, error) {
		return in.driver.Attribute(ctx, target, name)
	})
}

// GetCSSValue reads the computed CSS property of target, with the same empty
// value handling as GetAttribute.
func (in *Interactor) GetCSSValue(ctx context.Context, target Locator, property string, opts ...CallOption) (string, error) {
	return in.read(ctx, OpGetCSSValue, target, opts, func(ctx context.Context) (string, error) {
		return in.driver.CSSValue(ctx, target, property)
	})
}

// GetText reads the visible text of target, with the same empty value
// handling as GetAttribute.
func (in *Interactor) GetText(ctx context.Context, target Locator, opts ...CallOption) (string, error) {
	return in.read(ctx, OpGetText, target, opts, func(ctx context.Context) (string, error) {
		return in.driver.Text(ctx, target)
	})
}

func (in *Interactor) read(ctx context.Context, op Op, target Locator, opts []CallOption, get func(context.Context) (string, error)) (string, error) {
	req := in.newRequest(op, target, FlatSlice, opts)
	return retry(ctx, in, req, func(ctx context.Context, slice time.Duration) (string, error) {
		if err := in.waitFor(ctx, Present, target, slice); err != nil {
			return "", err
		}
		return get(ctx)
	}, nonEmpty)
}

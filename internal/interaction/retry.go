// internal/interaction/retry.go
// The retry loop every element interaction runs through. One call owns one
// RetryState; nothing survives between calls.

package interaction

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Op names an interaction in logs and errors.
type Op string

const (
	OpClick             Op = "click"
	OpForceClick        Op = "forceClick"
	OpScriptClick       Op = "scriptClick"
	OpHoverAndClick     Op = "hoverAndClick"
	OpTap               Op = "tap"
	OpTypeValue         Op = "typeValue"
	OpTypeDate          Op = "typeDate"
	OpSlowType          Op = "slowType"
	OpClear             Op = "clear"
	OpGetAttribute      Op = "getAttribute"
	OpGetCSSValue       Op = "getCssValue"
	OpGetText           Op = "getText"
	OpSelectCheckbox    Op = "selectCheckbox"
	OpWaitVisible       Op = "waitVisible"
	OpWaitNotVisible    Op = "waitNotVisible"
	OpWaitPresent       Op = "waitPresent"
	OpWaitClickable     Op = "waitClickable"
	OpWaitAbsent        Op = "waitAbsent"
	OpWaitURLEquals     Op = "waitUrlEquals"
	OpWaitURLContains   Op = "waitUrlContains"
	OpWaitTextPresent   Op = "waitTextPresent"
	OpScrollToElement   Op = "scrollToElement"
	OpDragAndDrop       Op = "dragAndDrop"
	OpUploadFile        Op = "uploadFile"
	OpWindowTitles      Op = "windowTitles"
	OpVerifyDownload    Op = "verifyFileDownloaded"
	OpSetEditorContent  Op = "setEditorContent"
	OpEditorContent     Op = "editorContent"
	OpURLDifferentCheck Op = "isCurrentUrlDifferentFromBaseUrl"
)

func (o Op) String() string { return string(o) }

// RetryState is the mutable record of one interaction's progress.
type RetryState struct {
	// Attempt is the 1-based number of the attempt being (or last) run.
	Attempt      int
	AttemptsLeft int
	TimeLeft     time.Duration
	Budget       time.Duration
	MaxAttempts  int
	LastErr      error
}

// TimeoutPolicy decides how much of the remaining budget the next attempt may
// spend waiting. A policy never grants more than TimeLeft.
type TimeoutPolicy struct {
	name  string
	slice func(s RetryState) time.Duration
}

func (p TimeoutPolicy) String() string { return p.name }

// IsZero reports whether p is unset.
func (p TimeoutPolicy) IsZero() bool { return p.slice == nil }

// Slice returns the wait granted to the next attempt for state s.
func (p TimeoutPolicy) Slice(s RetryState) time.Duration {
	if s.TimeLeft <= 0 {
		return 0
	}
	d := p.slice(s)
	if d > s.TimeLeft {
		d = s.TimeLeft
	}
	if d < 0 {
		d = 0
	}
	return d
}

var (
	// ShrinkingSlice grants TimeLeft / AttemptsLeft, so attempts that fail fast
	// hand a larger slice to the ones after them.
	ShrinkingSlice = TimeoutPolicy{name: "shrinking", slice: func(s RetryState) time.Duration {
		if s.AttemptsLeft <= 0 {
			return s.TimeLeft
		}
		return s.TimeLeft / time.Duration(s.AttemptsLeft)
	}}

	// FlatSlice grants Budget / MaxAttempts to every attempt.
	FlatSlice = TimeoutPolicy{name: "flat", slice: func(s RetryState) time.Duration {
		if s.MaxAttempts <= 0 {
			return s.TimeLeft
		}
		return s.Budget / time.Duration(s.MaxAttempts)
	}}
)

// fixedSlice grants d to every attempt, bounded by what is left.
func fixedSlice(d time.Duration) TimeoutPolicy {
	return TimeoutPolicy{name: "fixed", slice: func(RetryState) time.Duration { return d }}
}

// CallOption overrides an Interactor default for a single call.
type CallOption func(*request)

// WithTimeout sets the total time budget of the call.
func WithTimeout(d time.Duration) CallOption {
	return func(r *request) { r.budget = d }
}

// WithAttempts sets the attempt budget of the call. Values below one still
// make a single attempt.
func WithAttempts(n int) CallOption {
	return func(r *request) { r.attempts = n }
}

// WithPolicy selects how the budget is split between attempts.
func WithPolicy(p TimeoutPolicy) CallOption {
	return func(r *request) { r.policy = p }
}

// request is the immutable description of one interaction call.
type request struct {
	op       Op
	target   Locator
	budget   time.Duration
	attempts int
	policy   TimeoutPolicy
	// pause sleeps one slice between attempts, for operations whose attempt
	// does not wait on its own.
	pause bool
}

func (in *Interactor) newRequest(op Op, target Locator, policy TimeoutPolicy, opts []CallOption) request {
	r := request{
		op:       op,
		target:   target,
		budget:   in.cfg.ImplicitWait,
		attempts: in.cfg.RetryCount,
		policy:   policy,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.attempts < 1 {
		r.attempts = 1
	}
	if r.budget < 0 {
		r.budget = 0
	}
	if r.policy.IsZero() {
		r.policy = policy
	}
	return r
}

// attemptFunc runs one attempt with the wait granted by the policy.
type attemptFunc[T any] func(ctx context.Context, slice time.Duration) (T, error)

// retry runs fn until it succeeds, the attempt budget is spent or ctx is done.
// accept, when non-nil, rejects successful but unusable values (empty reads);
// if the final attempt is such a soft failure its value is returned with a nil
// error. A hard failure on the final attempt is returned as *Error.
func retry[T any](ctx context.Context, in *Interactor, req request, fn attemptFunc[T], accept func(T) bool) (T, error) {
	log := in.logger.With(
		zap.Stringer("op", req.op),
		zap.Stringer("target", req.target),
		zap.Stringer("policy", req.policy),
	)
	state := RetryState{
		AttemptsLeft: req.attempts,
		TimeLeft:     req.budget,
		Budget:       req.budget,
		MaxAttempts:  req.attempts,
	}

	var last T
	for state.AttemptsLeft > 0 {
		state.Attempt++
		slice := req.policy.Slice(state)

		start := in.clock.Now()
		val, err := fn(ctx, slice)
		state.TimeLeft = spend(state.TimeLeft, in.clock.Now().Sub(start))
		state.AttemptsLeft--
		last, state.LastErr = val, err

		if err == nil && (accept == nil || accept(val)) {
			log.Debug("Interaction succeeded.", zap.Int("attempt", state.Attempt))
			return val, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			// A cancelled call never passes for an exhausted soft-empty one.
			state.LastErr = withCause(state.LastErr, ctxErr)
			break
		}
		if state.AttemptsLeft == 0 {
			break
		}

		fields := []zap.Field{
			zap.Int("attempt", state.Attempt),
			zap.Int("attempts_left", state.AttemptsLeft),
			zap.Duration("slice", slice),
			zap.Duration("time_left", state.TimeLeft),
		}
		if err != nil {
			log.Warn("Interaction failed, retrying.", append(fields, zap.Error(err))...)
		} else {
			log.Warn("Interaction returned an empty value, retrying.", fields...)
		}

		if req.pause {
			start = in.clock.Now()
			if err := in.clock.Sleep(ctx, req.policy.Slice(state)); err != nil {
				state.LastErr = withCause(state.LastErr, err)
				break
			}
			state.TimeLeft = spend(state.TimeLeft, in.clock.Now().Sub(start))
		}
	}

	if state.LastErr == nil {
		log.Warn("Interaction exhausted its attempts with an empty value.", zap.Int("attempts", state.Attempt))
		return last, nil
	}
	terminal := &Error{Op: req.op, Target: req.target, Attempts: state.Attempt, Err: state.LastErr}
	log.Error("Interaction failed.", zap.Int("attempts", state.Attempt), zap.Error(state.LastErr))
	return last, terminal
}

// once runs fn a single time with the whole budget, reporting failure the same
// way retry does.
func once[T any](ctx context.Context, in *Interactor, req request, fn attemptFunc[T]) (T, error) {
	req.attempts = 1
	req.policy = FlatSlice
	return retry(ctx, in, req, fn, nil)
}

func spend(left, elapsed time.Duration) time.Duration {
	if elapsed < 0 {
		elapsed = 0
	}
	left -= elapsed
	if left < 0 {
		return 0
	}
	return left
}

// withCause joins cause onto last unless last already carries it.
func withCause(last, cause error) error {
	switch {
	case last == nil:
		return cause
	case errors.Is(last, cause):
		return last
	default:
		return errors.Join(last, cause)
	}
}

func nonEmpty(s string) bool { return s != "" }

type none struct{}

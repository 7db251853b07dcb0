// internal/interaction/interactor.go
// Package interaction implements the element-interaction helpers used by page
// objects and step definitions: clicking, typing, reading and waiting on
// elements through a Driver, with a bounded retry loop that masks transient
// failures (not yet rendered, not yet interactable, stale references).
//
// Every call starts from the Interactor's defaults, the implicit wait (total
// time budget) and the retry count (attempt budget), which a caller can
// override per call with CallOptions. The budget is split between attempts by
// a TimeoutPolicy. Retries are logged at warn level and exhausted calls at
// error level before an *Error is returned.
package interaction

import (
	"context"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-e2e/internal/config"
)

const defaultPollInterval = 100 * time.Millisecond

// Interactor performs retrying interactions against one browser driver. It
// holds no per-call state and is safe to share between page objects.
type Interactor struct {
	driver Driver
	cfg    config.InteractionConfig
	logger *zap.Logger
	clock  Clock
	fs     afero.Fs
}

// Option configures an Interactor at construction.
type Option func(*Interactor)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(in *Interactor) { in.clock = c }
}

// WithFs sets the filesystem used for uploads and download checks.
func WithFs(fs afero.Fs) Option {
	return func(in *Interactor) { in.fs = fs }
}

// New creates an Interactor. Zero values in cfg fall back to the documented
// defaults (5000ms implicit wait, 10 attempts).
func New(driver Driver, cfg config.InteractionConfig, logger *zap.Logger, opts ...Option) *Interactor {
	if cfg.ImplicitWait <= 0 {
		cfg.ImplicitWait = config.DefaultImplicitWait
	}
	if cfg.RetryCount <= 0 {
		cfg.RetryCount = config.DefaultRetryCount
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	in := &Interactor{
		driver: driver,
		cfg:    cfg,
		logger: logger.Named("interaction"),
		clock:  SystemClock,
		fs:     afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Driver exposes the underlying driver for callers that need a primitive the
// Interactor does not wrap, such as navigation.
func (in *Interactor) Driver() Driver { return in.driver }

// Config returns the effective defaults.
func (in *Interactor) Config() config.InteractionConfig { return in.cfg }

// waitFor asks the driver for cond and normalizes its failure into a
// ConditionError naming the condition and the target.
func (in *Interactor) waitFor(ctx context.Context, cond Condition, target Locator, timeout time.Duration) error {
	if err := in.driver.WaitFor(ctx, cond, target, timeout); err != nil {
		return &ConditionError{Condition: cond, Target: target, Timeout: timeout, Err: err}
	}
	return nil
}

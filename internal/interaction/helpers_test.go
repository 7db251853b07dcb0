// internal/interaction/helpers_test.go
package interaction

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xkilldash9x/scalpel-e2e/internal/config"
)

var (
	errTimeout     = errors.New("wait timed out")
	errStale       = errors.New("stale element reference")
	errIntercepted = errors.New("element click intercepted")
)

var testEpoch = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// step is one scripted driver outcome. A failed WaitFor costs its whole
// timeout on the clock unless cost says otherwise; no WaitFor costs more than
// its timeout.
type step struct {
	val  string
	err  error
	cost time.Duration
}

func pass() step { return step{} }

func fail(err error) step { return step{err: err} }

func returns(v string) step { return step{val: v} }

func repeat(s step, n int) []step {
	out := make([]step, n)
	for i := range out {
		out[i] = s
	}
	return out
}

// fakeDriver is a scripted Driver. Each method pops its next step; the last
// step of a script is sticky so a single fail() means "always fails".
type fakeDriver struct {
	mu      sync.Mutex
	clock   *FakeClock
	scripts map[string][]step
	calls   []string
	slices  []time.Duration

	handles  [][]string
	titles   map[string]string
	current  string
	closed   []string
	executed []string
	args     [][]Locator
	uploads  [][]string
}

func newFakeDriver(clock *FakeClock) *fakeDriver {
	return &fakeDriver{
		clock:   clock,
		scripts: make(map[string][]step),
		titles:  make(map[string]string),
	}
}

func (f *fakeDriver) script(method string, steps ...step) *fakeDriver {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[method] = append(f.scripts[method], steps...)
	return f
}

func (f *fakeDriver) next(method, call string) step {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	q := f.scripts[method]
	if len(q) == 0 {
		return step{}
	}
	s := q[0]
	if len(q) > 1 {
		f.scripts[method] = q[1:]
	}
	if s.cost > 0 && method != "WaitFor" {
		f.clock.Advance(s.cost)
	}
	return s
}

func (f *fakeDriver) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeDriver) count(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (f *fakeDriver) WaitFor(_ context.Context, cond Condition, target Locator, timeout time.Duration) error {
	s := f.next("WaitFor", fmt.Sprintf("WaitFor(%s, %s)", cond, target.Value))
	f.mu.Lock()
	f.slices = append(f.slices, timeout)
	f.mu.Unlock()
	switch {
	case s.err != nil && s.cost == 0:
		f.clock.Advance(timeout)
	case s.cost > timeout:
		f.clock.Advance(timeout)
	default:
		f.clock.Advance(s.cost)
	}
	return s.err
}

func (f *fakeDriver) Click(_ context.Context, target Locator) error {
	return f.next("Click", "Click("+target.Value+")").err
}

func (f *fakeDriver) ScriptClick(_ context.Context, target Locator) error {
	return f.next("ScriptClick", "ScriptClick("+target.Value+")").err
}

func (f *fakeDriver) MouseClick(_ context.Context, target Locator) error {
	return f.next("MouseClick", "MouseClick("+target.Value+")").err
}

func (f *fakeDriver) Tap(_ context.Context, target Locator) error {
	return f.next("Tap", "Tap("+target.Value+")").err
}

func (f *fakeDriver) SendKeys(_ context.Context, target Locator, text string) error {
	return f.next("SendKeys", fmt.Sprintf("SendKeys(%s, %q)", target.Value, text)).err
}

func (f *fakeDriver) KeyEvent(_ context.Context, keys string) error {
	return f.next("KeyEvent", fmt.Sprintf("KeyEvent(%q)", keys)).err
}

func (f *fakeDriver) Clear(_ context.Context, target Locator) error {
	return f.next("Clear", "Clear("+target.Value+")").err
}

func (f *fakeDriver) SetUploadFiles(_ context.Context, target Locator, files []string) error {
	f.mu.Lock()
	f.uploads = append(f.uploads, files)
	f.mu.Unlock()
	return f.next("SetUploadFiles", "SetUploadFiles("+target.Value+")").err
}

func (f *fakeDriver) Attribute(_ context.Context, target Locator, name string) (string, error) {
	s := f.next("Attribute", fmt.Sprintf("Attribute(%s, %s)", target.Value, name))
	return s.val, s.err
}

func (f *fakeDriver) CSSValue(_ context.Context, target Locator, property string) (string, error) {
	s := f.next("CSSValue", fmt.Sprintf("CSSValue(%s, %s)", target.Value, property))
	return s.val, s.err
}

func (f *fakeDriver) Text(_ context.Context, target Locator) (string, error) {
	s := f.next("Text", "Text("+target.Value+")")
	return s.val, s.err
}

func (f *fakeDriver) IsSelected(_ context.Context, target Locator) (bool, error) {
	s := f.next("IsSelected", "IsSelected("+target.Value+")")
	return s.val == "true", s.err
}

func (f *fakeDriver) ExecuteScript(_ context.Context, script string, res interface{}, elements ...Locator) error {
	f.mu.Lock()
	f.executed = append(f.executed, script)
	f.args = append(f.args, elements)
	f.mu.Unlock()
	s := f.next("ExecuteScript", "ExecuteScript")
	if out, ok := res.(*string); ok && out != nil {
		*out = s.val
	}
	return s.err
}

func (f *fakeDriver) Navigate(_ context.Context, url string) error {
	return f.next("Navigate", "Navigate("+url+")").err
}

func (f *fakeDriver) CurrentURL(context.Context) (string, error) {
	s := f.next("CurrentURL", "CurrentURL")
	return s.val, s.err
}

func (f *fakeDriver) Title(context.Context) (string, error) {
	s := f.next("Title", "Title")
	if s.err != nil || s.val != "" {
		return s.val, s.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.titles[f.current], nil
}

func (f *fakeDriver) WindowHandles(context.Context) ([]string, error) {
	s := f.next("WindowHandles", "WindowHandles")
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.handles) == 0 {
		return nil, s.err
	}
	h := f.handles[0]
	if len(f.handles) > 1 {
		f.handles = f.handles[1:]
	}
	return h, s.err
}

func (f *fakeDriver) SwitchToWindow(_ context.Context, handle string) error {
	s := f.next("SwitchToWindow", "SwitchToWindow("+handle+")")
	if s.err == nil {
		f.mu.Lock()
		f.current = handle
		f.mu.Unlock()
	}
	return s.err
}

func (f *fakeDriver) CloseWindow(context.Context) error {
	s := f.next("CloseWindow", "CloseWindow")
	f.mu.Lock()
	f.closed = append(f.closed, f.current)
	f.mu.Unlock()
	return s.err
}

// fixture bundles an Interactor with its fakes and captured logs.
type fixture struct {
	in     *Interactor
	driver *fakeDriver
	clock  *FakeClock
	logs   *observer.ObservedLogs
	fs     afero.Fs
}

func newFixture(t *testing.T, wait time.Duration, attempts int) *fixture {
	t.Helper()
	clock := NewFakeClock(testEpoch)
	driver := newFakeDriver(clock)
	core, logs := observer.New(zapcore.DebugLevel)
	fs := afero.NewMemMapFs()
	in := New(driver, config.InteractionConfig{
		ImplicitWait: wait,
		RetryCount:   attempts,
		PollInterval: 100 * time.Millisecond,
	}, zap.New(core), WithClock(clock), WithFs(fs))
	return &fixture{in: in, driver: driver, clock: clock, logs: logs, fs: fs}
}

func (fx *fixture) elapsed() time.Duration {
	return fx.clock.Now().Sub(testEpoch)
}

func (fx *fixture) levelCount(level zapcore.Level) int {
	return fx.logs.FilterLevelExact(level).Len()
}

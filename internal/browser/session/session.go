// internal/browser/session/session.go
// Package session drives a Chrome instance over the DevTools protocol and
// exposes it as an interaction.Driver. A Session owns one browser process and
// tracks which of its page targets (windows) is focused; every action runs
// against the focused target.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-e2e/internal/config"
	"github.com/xkilldash9x/scalpel-e2e/internal/interaction"
)

const (
	defaultNavigationTimeout = 60 * time.Second
	// actionTimeout bounds primitives that run after the interaction layer has
	// already waited for the element.
	actionTimeout = 15 * time.Second
	startTimeout  = 30 * time.Second
)

// Ensure Session implements the driver the interaction layer is built on.
var _ interaction.Driver = (*Session)(nil)
var _ ActionExecutor = (*Session)(nil)

type tab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Session is a single browser process driven through chromedp.
type Session struct {
	id     string
	logger *zap.Logger
	cfg    config.BrowserConfig

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	root          target.ID

	mu      sync.RWMutex
	current target.ID
	tabs    map[target.ID]tab

	closeOnce sync.Once
}

// Option configures a Session at construction.
type Option func(*options)

type options struct {
	downloadDir string
}

// WithDownloadDir makes the browser save downloads into dir.
func WithDownloadDir(dir string) Option {
	return func(o *options) { o.downloadDir = dir }
}

// launchFlag is a Chrome command line switch.
type launchFlag struct {
	name  string
	value interface{}
}

// launchFlags lists the switches implied by cfg, in the order they are applied.
func launchFlags(cfg config.BrowserConfig) []launchFlag {
	flags := []launchFlag{
		{"no-sandbox", true},
		{"disable-gpu", true},
		{"no-first-run", true},
		{"no-default-browser-check", true},
		{"enable-automation", true},
		{"disable-dev-shm-usage", true},
	}
	if cfg.IgnoreTLSErrors {
		flags = append(flags,
			launchFlag{"ignore-certificate-errors", true},
			launchFlag{"allow-insecure-localhost", true},
		)
	}
	if w, h := cfg.Viewport["width"], cfg.Viewport["height"]; w > 0 && h > 0 {
		flags = append(flags, launchFlag{"window-size", fmt.Sprintf("%d,%d", w, h)})
	}
	for _, arg := range cfg.Args {
		key, value, found := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if found {
			flags = append(flags, launchFlag{key, value})
		} else {
			flags = append(flags, launchFlag{key, true})
		}
	}
	return flags
}

// DefaultAllocatorOptions builds the Chrome launch options for cfg.
func DefaultAllocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	var opts []chromedp.ExecAllocatorOption
	for _, f := range launchFlags(cfg) {
		opts = append(opts, chromedp.Flag(f.name, f.value))
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	return opts
}

// New launches Chrome and opens the first window. The browser lives until
// Close is called or parent is cancelled.
func New(parent context.Context, cfg config.BrowserConfig, logger *zap.Logger, opts ...Option) (*Session, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.New().String()
	log := logger.Named("browser").With(zap.String("session_id", id))

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, DefaultAllocatorOptions(cfg)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(log.Sugar().Debugf),
		chromedp.WithErrorf(log.Sugar().Warnf),
	)

	s := &Session{
		id:            id,
		logger:        log,
		cfg:           cfg,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		tabs:          make(map[target.ID]tab),
	}

	startCtx, startCancel := context.WithTimeout(parent, startTimeout)
	defer startCancel()

	actions := []chromedp.Action{}
	if o.downloadDir != "" {
		actions = append(actions, browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(o.downloadDir).
			WithEventsEnabled(true))
	}
	// The first Run allocates the browser and its initial target.
	runCtx, runCancel := CombineContext(browserCtx, startCtx)
	defer runCancel()
	if err := chromedp.Run(runCtx, actions...); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	s.root = chromedp.FromContext(browserCtx).Target.TargetID
	s.current = s.root
	s.tabs[s.root] = tab{ctx: browserCtx, cancel: browserCancel}

	log.Info("Browser session started.", zap.Bool("headless", cfg.Headless), zap.String("download_dir", o.downloadDir))
	return s, nil
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Close shuts the browser down.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.logger.Info("Closing browser session.")
		s.mu.Lock()
		for id, t := range s.tabs {
			if id != s.root {
				t.cancel()
			}
		}
		s.tabs = nil
		s.mu.Unlock()

		err = chromedp.Cancel(s.browserCtx)
		s.browserCancel()
		s.allocCancel()
	})
	return err
}

// RunActions executes actions against the focused window, bounded by both
// the window's lifetime and ctx.
func (s *Session) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	tabCtx, err := s.focused()
	if err != nil {
		return err
	}
	runCtx, cancel := CombineContext(tabCtx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// run applies the default action timeout and normalizes context errors the
// way the rest of the session reports them.
func (s *Session) run(ctx context.Context, what string, timeout time.Duration, actions ...chromedp.Action) error {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.RunActions(opCtx, actions...)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if opCtx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%s timed out after %v: %w", what, timeout, opCtx.Err())
	}
	return fmt.Errorf("%s failed: %w", what, err)
}

func (s *Session) focused() (context.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tabs == nil {
		return nil, fmt.Errorf("session %s is closed", s.id)
	}
	t, ok := s.tabs[s.current]
	if !ok {
		return nil, fmt.Errorf("window %s is no longer open", s.current)
	}
	return t.ctx, nil
}

// -- Page and window primitives --

// Navigate loads url in the focused window.
func (s *Session) Navigate(ctx context.Context, url string) error {
	timeout := s.cfg.NavigationTimeout
	if timeout <= 0 {
		timeout = defaultNavigationTimeout
	}
	s.logger.Info("Navigating.", zap.String("url", url))
	return s.run(ctx, "navigation to "+url, timeout, chromedp.Navigate(url))
}

// CurrentURL returns the URL of the focused window.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var url string
	err := s.run(ctx, "reading location", actionTimeout, chromedp.Location(&url))
	return url, err
}

// Title returns the document title of the focused window.
func (s *Session) Title(ctx context.Context) (string, error) {
	var title string
	err := s.run(ctx, "reading title", actionTimeout, chromedp.Title(&title))
	return title, err
}

// WindowHandles lists the open page targets. The window the session started
// with is always first.
func (s *Session) WindowHandles(ctx context.Context) ([]string, error) {
	runCtx, cancel := CombineContext(s.browserCtx, ctx)
	defer cancel()

	infos, err := chromedp.Targets(runCtx)
	if err != nil {
		return nil, fmt.Errorf("listing windows failed: %w", err)
	}
	handles := []string{string(s.root)}
	for _, info := range infos {
		if info.Type != "page" || info.TargetID == s.root {
			continue
		}
		handles = append(handles, string(info.TargetID))
	}
	return handles, nil
}

// SwitchToWindow focuses the window with the given handle, attaching to it on
// first use.
func (s *Session) SwitchToWindow(_ context.Context, handle string) error {
	id := target.ID(handle)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tabs == nil {
		return fmt.Errorf("session %s is closed", s.id)
	}
	if _, ok := s.tabs[id]; !ok {
		ctx, cancel := chromedp.NewContext(s.browserCtx, chromedp.WithTargetID(id))
		s.tabs[id] = tab{ctx: ctx, cancel: cancel}
	}
	s.current = id
	s.logger.Debug("Switched window.", zap.String("handle", handle))
	return nil
}

// CloseWindow closes the focused window. Another window must be switched to
// before further actions.
func (s *Session) CloseWindow(ctx context.Context) error {
	s.mu.Lock()
	id := s.current
	t, ok := s.tabs[id]
	if ok && id != s.root {
		delete(s.tabs, id)
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("window %s is no longer open", id)
	}
	if id == s.root {
		return fmt.Errorf("refusing to close the primary window")
	}

	runCtx, cancel := CombineContext(t.ctx, ctx)
	defer cancel()
	err := chromedp.Run(runCtx, page.Close())
	t.cancel()
	if err != nil {
		return fmt.Errorf("closing window %s failed: %w", id, err)
	}
	return nil
}

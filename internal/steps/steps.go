// Package steps binds the Gherkin steps of the feature files to page objects
// driven through the interaction layer.
package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-e2e/internal/interaction"
	"github.com/xkilldash9x/scalpel-e2e/internal/pages"
	"github.com/xkilldash9x/scalpel-e2e/internal/report"
)

type scenarioKey struct{}

// scenario is the per-scenario state carried on the step context.
type scenario struct {
	id      string
	name    string
	uri     string
	started time.Time
	log     *zap.Logger
}

// Suite holds what every scenario shares: the browser, the application's
// base URL and the result sink.
type Suite struct {
	in       *interaction.Interactor
	baseURL  string
	login    pages.LoginPage
	home     pages.HomePage
	reporter report.Reporter
	logger   *zap.Logger
	newID    func() string
}

// Option configures a Suite.
type Option func(*Suite)

// WithReporter records every finished scenario to r.
func WithReporter(r report.Reporter) Option {
	return func(s *Suite) { s.reporter = r }
}

// WithIDs replaces the scenario ID generator, mainly for tests.
func WithIDs(newID func() string) Option {
	return func(s *Suite) { s.newID = newID }
}

// NewSuite creates the step bindings for one browser session.
func NewSuite(in *interaction.Interactor, baseURL string, logger *zap.Logger, opts ...Option) *Suite {
	s := &Suite{
		in:      in,
		baseURL: baseURL,
		login:   pages.Login(),
		home:    pages.Home(),
		logger:  logger.Named("steps"),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InitializeScenario registers the hooks and step definitions.
func (s *Suite) InitializeScenario(sc *godog.ScenarioContext) {
	sc.Before(s.before)
	sc.After(s.after)

	sc.Step(`^user navigate to the target login page$`, s.NavigateToLoginPage)
	sc.Step(`^user enter "(.*)" and "(.*)"$`, s.EnterCredentials)
	sc.Step(`^user click the login button$`, s.ClickLoginButton)
	sc.Step(`^user should see the login success message$`, s.ShouldSeeLoginSuccess)
	sc.Step(`^user validates the url is secure$`, s.ValidateURLIsSecure)
}

func (s *Suite) before(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
	st := &scenario{
		id:      s.newID(),
		name:    sc.Name,
		uri:     sc.Uri,
		started: time.Now(),
	}
	st.log = s.logger.With(zap.String("scenario_id", st.id), zap.String("scenario", sc.Name))
	st.log.Info("Scenario started.")
	return context.WithValue(ctx, scenarioKey{}, st), nil
}

func (s *Suite) after(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
	st := current(ctx)
	if st == nil {
		return ctx, nil
	}
	result := report.ScenarioResult{
		ID:       st.id,
		Feature:  st.uri,
		Name:     st.name,
		Status:   report.StatusPassed,
		Duration: time.Since(st.started),
	}
	if err != nil {
		result.Status = report.StatusFailed
		result.Error = err.Error()
		st.log.Error("Scenario failed.", zap.Error(err))
	} else {
		st.log.Info("Scenario passed.", zap.Duration("duration", result.Duration))
	}
	if s.reporter != nil {
		if werr := s.reporter.Write(result); werr != nil {
			st.log.Warn("Failed to record scenario result.", zap.Error(werr))
		}
	}
	return ctx, nil
}

func current(ctx context.Context) *scenario {
	st, _ := ctx.Value(scenarioKey{}).(*scenario)
	return st
}

func (s *Suite) log(ctx context.Context) *zap.Logger {
	if st := current(ctx); st != nil {
		return st.log
	}
	return s.logger
}

// NavigateToLoginPage opens the login route and waits for the form.
func (s *Suite) NavigateToLoginPage(ctx context.Context) error {
	url := pages.URL(s.baseURL, s.login.Route)
	s.log(ctx).Debug("Opening login page.", zap.String("url", url))
	if err := s.in.Driver().Navigate(ctx, url); err != nil {
		return err
	}
	return s.in.WaitPresent(ctx, s.login.UsernameField)
}

// EnterCredentials types username and password into the login form.
func (s *Suite) EnterCredentials(ctx context.Context, username, password string) error {
	if err := s.in.TypeValue(ctx, s.login.UsernameField, username); err != nil {
		return err
	}
	return s.in.TypeValue(ctx, s.login.PasswordField, password)
}

// ClickLoginButton submits the login form.
func (s *Suite) ClickLoginButton(ctx context.Context) error {
	return s.in.Click(ctx, s.login.LoginButton)
}

// ShouldSeeLoginSuccess fails unless the success flash is on the page.
func (s *Suite) ShouldSeeLoginSuccess(ctx context.Context) error {
	if err := s.in.WaitPresent(ctx, s.home.SuccessMsg); err != nil {
		return fmt.Errorf("login success message was not shown: %w", err)
	}
	return nil
}

// ValidateURLIsSecure fails unless the browser ends up on a secure route.
func (s *Suite) ValidateURLIsSecure(ctx context.Context) error {
	return s.in.WaitURLContains(ctx, s.home.SecureMarker)
}

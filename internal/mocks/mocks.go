// File: internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/scalpel-e2e/internal/config"
	"github.com/xkilldash9x/scalpel-e2e/internal/interaction"
)

// -- Config Mock --

// MockConfig is a mock implementation of config.Interface.
type MockConfig struct {
	mock.Mock
}

var _ config.Interface = (*MockConfig)(nil)

func (m *MockConfig) Logger() config.LoggerConfig {
	args := m.Called()
	return args.Get(0).(config.LoggerConfig)
}

func (m *MockConfig) Browser() config.BrowserConfig {
	args := m.Called()
	return args.Get(0).(config.BrowserConfig)
}

func (m *MockConfig) Interaction() config.InteractionConfig {
	args := m.Called()
	return args.Get(0).(config.InteractionConfig)
}

func (m *MockConfig) Database() config.DatabaseConfig {
	args := m.Called()
	return args.Get(0).(config.DatabaseConfig)
}

func (m *MockConfig) Crypto() config.CryptoConfig {
	args := m.Called()
	return args.Get(0).(config.CryptoConfig)
}

func (m *MockConfig) Report() config.ReportConfig {
	args := m.Called()
	return args.Get(0).(config.ReportConfig)
}

func (m *MockConfig) Suite() config.SuiteConfig {
	args := m.Called()
	return args.Get(0).(config.SuiteConfig)
}

func (m *MockConfig) SetBrowserHeadless(b bool) { m.Called(b) }
func (m *MockConfig) SetInteractionImplicitWait(d time.Duration) { m.Called(d) }
func (m *MockConfig) SetInteractionRetryCount(n int) { m.Called(n) }
func (m *MockConfig) SetSuiteConfig(sc config.SuiteConfig) { m.Called(sc) }

// -- Driver Mock --

// MockDriver is a mock implementation of interaction.Driver. Tests that only
// care about a few calls can start from NewPermissiveDriver.
type MockDriver struct {
	mock.Mock
}

var _ interaction.Driver = (*MockDriver)(nil)

// NewPermissiveDriver returns a driver on which every wait, click, keystroke
// and navigation succeeds. Reads are left unset for the test to expect.
func NewPermissiveDriver() *MockDriver {
	m := new(MockDriver)
	m.On("WaitFor", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	for _, method := range []string{"Click", "ScriptClick", "MouseClick", "Tap", "Clear"} {
		m.On(method, mock.Anything, mock.Anything).Return(nil).Maybe()
	}
	m.On("SendKeys", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("KeyEvent", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("Navigate", mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

func (m *MockDriver) WaitFor(ctx context.Context, cond interaction.Condition, target interaction.Locator, timeout time.Duration) error {
	args := m.Called(ctx, cond, target, timeout)
	return args.Error(0)
}

func (m *MockDriver) Click(ctx context.Context, target interaction.Locator) error {
	args := m.Called(ctx, target)
	return args.Error(0)
}

func (m *MockDriver) ScriptClick(ctx context.Context, target interaction.Locator) error {
	args := m.Called(ctx, target)
	return args.Error(0)
}

func (m *MockDriver) MouseClick(ctx context.Context, target interaction.Locator) error {
	args := m.Called(ctx, target)
	return args.Error(0)
}

func (m *MockDriver) Tap(ctx context.Context, target interaction.Locator) error {
	args := m.Called(ctx, target)
	return args.Error(0)
}

func (m *MockDriver) SendKeys(ctx context.Context, target interaction.Locator, text string) error {
	args := m.Called(ctx, target, text)
	return args.Error(0)
}

func (m *MockDriver) KeyEvent(ctx context.Context, keys string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockDriver) Clear(ctx context.Context, target interaction.Locator) error {
	args := m.Called(ctx, target)
	return args.Error(0)
}

func (m *MockDriver) SetUploadFiles(ctx context.Context, target interaction.Locator, files []string) error {
	args := m.Called(ctx, target, files)
	return args.Error(0)
}

func (m *MockDriver) Attribute(ctx context.Context, target interaction.Locator, name string) (string, error) {
	args := m.Called(ctx, target, name)
	return args.String(0), args.Error(1)
}

func (m *MockDriver) CSSValue(ctx context.Context, target interaction.Locator, property string) (string, error) {
	args := m.Called(ctx, target, property)
	return args.String(0), args.Error(1)
}

func (m *MockDriver) Text(ctx context.Context, target interaction.Locator) (string, error) {
	args := m.Called(ctx, target)
	return args.String(0), args.Error(1)
}

func (m *MockDriver) IsSelected(ctx context.Context, target interaction.Locator) (bool, error) {
	args := m.Called(ctx, target)
	return args.Bool(0), args.Error(1)
}

// ExecuteScript records the call. Tests fill res through Run when they need a
// result decoded.
func (m *MockDriver) ExecuteScript(ctx context.Context, script string, res interface{}, elements ...interaction.Locator) error {
	args := m.Called(ctx, script, res, elements)
	return args.Error(0)
}

func (m *MockDriver) Navigate(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockDriver) CurrentURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockDriver) Title(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockDriver) WindowHandles(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var handles []string
	if h := args.Get(0); h != nil {
		handles = h.([]string)
	}
	return handles, args.Error(1)
}

func (m *MockDriver) SwitchToWindow(ctx context.Context, handle string) error {
	args := m.Called(ctx, handle)
	return args.Error(0)
}

func (m *MockDriver) CloseWindow(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

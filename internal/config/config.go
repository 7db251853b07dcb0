// File: internal/config/config.go
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	// DefaultImplicitWait is the interaction budget used when IMPLICIT_WAIT is unset or not numeric.
	DefaultImplicitWait = 5000 * time.Millisecond
	// DefaultRetryCount is the attempt budget used when TEST_RETRY_COUNT is unset or not numeric.
	DefaultRetryCount = 10
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Browser() BrowserConfig
	Interaction() InteractionConfig
	Database() DatabaseConfig
	Crypto() CryptoConfig
	Report() ReportConfig
	Suite() SuiteConfig

	SetBrowserHeadless(bool)
	SetInteractionImplicitWait(d time.Duration)
	SetInteractionRetryCount(n int)
	SetSuiteConfig(sc SuiteConfig)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg      LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	BrowserCfg     BrowserConfig     `mapstructure:"browser" yaml:"browser"`
	InteractionCfg InteractionConfig `mapstructure:"interaction" yaml:"interaction"`
	DatabaseCfg    DatabaseConfig    `mapstructure:"database" yaml:"database"`
	CryptoCfg      CryptoConfig      `mapstructure:"crypto" yaml:"crypto"`
	ReportCfg      ReportConfig      `mapstructure:"report" yaml:"report"`
	// SuiteCfg gets its marching orders from CLI flags, not the config file.
	SuiteCfg SuiteConfig `mapstructure:"-" yaml:"-"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig           { return c.LoggerCfg }
func (c *Config) Browser() BrowserConfig         { return c.BrowserCfg }
func (c *Config) Interaction() InteractionConfig { return c.InteractionCfg }
func (c *Config) Database() DatabaseConfig       { return c.DatabaseCfg }
func (c *Config) Crypto() CryptoConfig           { return c.CryptoCfg }
func (c *Config) Report() ReportConfig           { return c.ReportCfg }
func (c *Config) Suite() SuiteConfig             { return c.SuiteCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetBrowserHeadless(b bool) { c.BrowserCfg.Headless = b }
func (c *Config) SetInteractionImplicitWait(d time.Duration) {
	c.InteractionCfg.ImplicitWait = d
}
func (c *Config) SetInteractionRetryCount(n int) { c.InteractionCfg.RetryCount = n }
func (c *Config) SetSuiteConfig(sc SuiteConfig) { c.SuiteCfg = sc }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the Chrome instance driven by the suite.
type BrowserConfig struct {
	Headless        bool           `mapstructure:"headless" yaml:"headless"`
	IgnoreTLSErrors bool           `mapstructure:"ignore_tls_errors" yaml:"ignore_tls_errors"`
	ExecPath        string         `mapstructure:"exec_path" yaml:"exec_path"`
	Args            []string       `mapstructure:"args" yaml:"args"`
	Viewport        map[string]int `mapstructure:"viewport" yaml:"viewport"`
	// BaseURL is the root of the application under test.
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// InteractionConfig carries the two knobs every retrying interaction defaults from.
type InteractionConfig struct {
	// ImplicitWait is the total time budget of one interaction across all attempts.
	ImplicitWait time.Duration `mapstructure:"implicit_wait" yaml:"implicit_wait"`
	// RetryCount is the attempt budget of one interaction.
	RetryCount int `mapstructure:"retry_count" yaml:"retry_count"`
	// PollInterval paces condition polling for the page-level waits.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
}

// DatabaseConfig holds the database connection details. Password is stored encrypted.
type DatabaseConfig struct {
	Server   string `mapstructure:"server" yaml:"server"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"-"`
	Name     string `mapstructure:"name" yaml:"name"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
}

// CryptoConfig holds the AES key material used for stored passwords.
type CryptoConfig struct {
	Key string `mapstructure:"key" yaml:"-"`
	IV  string `mapstructure:"iv" yaml:"-"`
}

// ReportConfig controls where run artifacts and downloads are written.
type ReportConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// SuiteConfig holds settings populated from CLI flags for a specific run.
type SuiteConfig struct {
	Paths []string
	Tags  string
	// Format is the godog formatter printed to the terminal.
	Format string
	// ResultsFormat is the format of the results file in the report directory.
	ResultsFormat string
	Strict        bool
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "scalpel-e2e")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.ignore_tls_errors", false)
	v.SetDefault("browser.base_url", "http://localhost:8080")
	v.SetDefault("browser.navigation_timeout", "60s")
	v.SetDefault("browser.viewport", map[string]int{"width": 1366, "height": 768})

	// -- Interaction --
	v.SetDefault("interaction.implicit_wait", DefaultImplicitWait)
	v.SetDefault("interaction.retry_count", DefaultRetryCount)
	v.SetDefault("interaction.poll_interval", "100ms")

	// -- Database --
	v.SetDefault("database.sslmode", "disable")

	// -- Crypto --
	v.SetDefault("crypto.key", "7061737323313233")
	v.SetDefault("crypto.iv", "7061737323313233")

	// -- Report --
	v.SetDefault("report.directory", "reports")
}

// BindEnv maps the suite's conventional environment variable names onto config keys.
func BindEnv(v *viper.Viper) {
	_ = v.BindEnv("interaction.implicit_wait", "IMPLICIT_WAIT")
	_ = v.BindEnv("interaction.retry_count", "TEST_RETRY_COUNT")
	_ = v.BindEnv("browser.base_url", "BASE_URL")
	_ = v.BindEnv("report.directory", "TEST_REPORT_DIRECTORY")
	_ = v.BindEnv("database.server", "APP_DB_SERVER")
	_ = v.BindEnv("database.user", "APP_DB_USERNAME")
	_ = v.BindEnv("database.password", "APP_DB_PASSWORD")
	_ = v.BindEnv("database.name", "APP_DATABASE")
	_ = v.BindEnv("crypto.key", "APP_PASSWORD_KEY")
	_ = v.BindEnv("crypto.iv", "APP_PASSWORD_IV")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	BindEnv(v)

	// The interaction knobs arrive as raw strings from the environment and fall
	// back to their defaults instead of failing the decode.
	v.Set("interaction.implicit_wait", parseImplicitWait(v.GetString("interaction.implicit_wait")))
	v.Set("interaction.retry_count", parseRetryCount(v.GetString("interaction.retry_count")))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if dir, err := homedir.Expand(cfg.ReportCfg.Directory); err == nil {
		cfg.ReportCfg.Directory = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// parseImplicitWait accepts a millisecond count ("5000") or a Go duration ("5s").
func parseImplicitWait(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultImplicitWait
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		if ms <= 0 {
			return DefaultImplicitWait
		}
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return DefaultImplicitWait
}

func parseRetryCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultRetryCount
	}
	return n
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.InteractionCfg.ImplicitWait <= 0 {
		return fmt.Errorf("interaction.implicit_wait must be a positive duration")
	}
	if c.InteractionCfg.RetryCount <= 0 {
		return fmt.Errorf("interaction.retry_count must be a positive integer")
	}
	if err := c.CryptoCfg.Validate(); err != nil {
		return fmt.Errorf("crypto configuration invalid: %w", err)
	}
	return nil
}

// Validate checks that the key and IV are usable as AES-128 material.
func (c *CryptoConfig) Validate() error {
	if len(c.Key) != 16 {
		return fmt.Errorf("key must be 16 bytes, got %d", len(c.Key))
	}
	if len(c.IV) != 16 {
		return fmt.Errorf("iv must be 16 bytes, got %d", len(c.IV))
	}
	return nil
}

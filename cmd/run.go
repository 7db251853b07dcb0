// File: cmd/run.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/cucumber/godog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-e2e/internal/browser/session"
	"github.com/xkilldash9x/scalpel-e2e/internal/config"
	"github.com/xkilldash9x/scalpel-e2e/internal/interaction"
	"github.com/xkilldash9x/scalpel-e2e/internal/observability"
	"github.com/xkilldash9x/scalpel-e2e/internal/report"
	"github.com/xkilldash9x/scalpel-e2e/internal/steps"
)

const browserName = "chrome"

// Define function variables for dependency injection/mocking in tests.
var (
	appFs afero.Fs = afero.NewOsFs()
	// newDriver starts the browser the suite runs in. The returned func closes it.
	newDriver = func(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger, downloadDir string) (interaction.Driver, func() error, error) {
		s, err := session.New(ctx, cfg, logger, session.WithDownloadDir(downloadDir))
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
)

func newRunCmd() *cobra.Command {
	var (
		suite    config.SuiteConfig
		headless bool
	)
	runCmd := &cobra.Command{
		Use:   "run [features...]",
		Short: "Runs feature files against a browser",
		Long: `Runs the given feature files or directories (default ./features) against a
fresh Chrome session. Scenario results are written to the report directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			suite.Paths = args
			if len(suite.Paths) == 0 {
				suite.Paths = []string{"features"}
			}
			cfg.SetSuiteConfig(suite)
			if cmd.Flags().Changed("headless") {
				cfg.SetBrowserHeadless(headless)
			}
			return runSuite(cmd.Context(), cfg, cmd.OutOrStdout(), observability.GetLogger())
		},
	}

	runCmd.Flags().StringVarP(&suite.Tags, "tags", "t", "", "only run scenarios matching this tag expression")
	runCmd.Flags().StringVarP(&suite.Format, "format", "f", "pretty", "godog formatter for terminal output")
	runCmd.Flags().StringVar(&suite.ResultsFormat, "results-format", "json", "format of the results file (json, text)")
	runCmd.Flags().BoolVar(&suite.Strict, "strict", true, "fail on pending or undefined steps")
	runCmd.Flags().BoolVar(&headless, "headless", true, "run the browser without a window")
	return runCmd
}

// runSuite prepares the report directory, starts the browser and runs every
// scenario in one session. It fails if any scenario failed.
func runSuite(ctx context.Context, cfg config.Interface, out io.Writer, logger *zap.Logger) error {
	sc := cfg.Suite()
	layout := report.NewLayout(appFs, cfg.Report().Directory)
	if err := layout.Prepare(browserName); err != nil {
		return err
	}

	ext := map[string]string{"json": "jsonl", "text": "txt"}[sc.ResultsFormat]
	rep, err := report.New(appFs, sc.ResultsFormat, filepath.Join(layout.Root(), "results."+ext))
	if err != nil {
		return err
	}
	defer func() {
		if err := rep.Close(); err != nil {
			logger.Warn("Failed to close results file.", zap.Error(err))
		}
	}()

	driver, closeDriver, err := newDriver(ctx, cfg.Browser(), logger, layout.BrowserDownloadsDir(browserName))
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer func() {
		if err := closeDriver(); err != nil {
			logger.Warn("Failed to close browser.", zap.Error(err))
		}
	}()

	in := interaction.New(driver, cfg.Interaction(), logger, interaction.WithFs(appFs))
	suite := steps.NewSuite(in, cfg.Browser().BaseURL, logger, steps.WithReporter(rep))

	logger.Info("Running features.", zap.Strings("paths", sc.Paths), zap.String("tags", sc.Tags))
	status := godog.TestSuite{
		Name:                "scalpel-e2e",
		ScenarioInitializer: suite.InitializeScenario,
		Options: &godog.Options{
			Format:         sc.Format,
			Paths:          sc.Paths,
			Tags:           sc.Tags,
			Strict:         sc.Strict,
			Concurrency:    1,
			Output:         out,
			DefaultContext: ctx,
		},
	}.Run()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if status != 0 {
		return fmt.Errorf("feature run failed with status %d", status)
	}
	return nil
}

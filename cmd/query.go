// File: cmd/query.go
package cmd

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/scalpel-e2e/internal/config"
	"github.com/xkilldash9x/scalpel-e2e/internal/crypto"
	"github.com/xkilldash9x/scalpel-e2e/internal/observability"
	"github.com/xkilldash9x/scalpel-e2e/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// storeOptions are appended when the query command builds its store. Tests
// use it to swap in a mock pool.
var storeOptions []store.Option

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql> [args...]",
		Short: "Runs a verification query against the application database",
		Long: `Connects with the configured database credentials, runs the query and
prints each row as a JSON object on its own line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			return runQuery(cmd, cfg, args[0], args[1:], observability.GetLogger())
		},
	}
}

func runQuery(cmd *cobra.Command, cfg config.Interface, sql string, args []string, logger *zap.Logger) error {
	handler, err := crypto.NewPasswordHandler(cfg.Crypto())
	if err != nil {
		return fmt.Errorf("failed to initialize password handler: %w", err)
	}
	s := store.New(cfg.Database(), handler, logger, storeOptions...)

	params := make([]interface{}, len(args))
	for i, a := range args {
		params[i] = a
	}
	rows, err := s.Query(cmd.Context(), sql, params...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	logger.Info("Query finished.", zap.Int("rows", len(rows)))
	return nil
}

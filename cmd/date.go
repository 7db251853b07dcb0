// File: cmd/date.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/scalpel-e2e/internal/dates"
)

// today is the date helper used by the date command.
var today = dates.New()

func newDateCmd() *cobra.Command {
	var noLeadingZeros bool
	dateCmd := &cobra.Command{
		Use:   "date <expression>",
		Short: "Prints a date in the application's mm/dd/yyyy format",
		Long: `Resolves CURRENTDATE, CURRENTDATE+n or CURRENTDATE-n to a date in mm/dd/yyyy,
the same way feature files do. Literal dates are printed unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout := dates.LeadingZeros
			if noLeadingZeros {
				layout = dates.NoLeadingZeros
			}
			date, err := today.Resolve(args[0], layout)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), date)
			return nil
		},
	}
	dateCmd.Flags().BoolVar(&noLeadingZeros, "no-leading-zeros", false, "render 3/7/2024 instead of 03/07/2024")
	return dateCmd
}

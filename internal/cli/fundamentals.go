package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantfin/eodhistdata/internal/fundamental"
)

// newFundamentalsCmd creates the "fundamentals" command for equity
// fundamentals documents.
func newFundamentalsCmd(flags *rootFlags) *cobra.Command {
	var (
		exchange  string
		summary   bool
		statement string
		frequency string
		date      string
	)

	cmd := &cobra.Command{
		Use:   "fundamentals SYMBOL",
		Short: "Fundamentals document for a symbol",
		Long: "Fetch the fundamentals document for one symbol. By default the raw document is printed; " +
			"--summary prints the general info section without the bulky fields, and --statement extracts " +
			"one financial statement for one reporting period.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			helper, err := newHelper()
			if err != nil {
				return err
			}

			raw, err := helper.FundamentalEquity(cmd.Context(), args[0], exchange, callOptions(flags)...)
			if err != nil {
				return err
			}

			if !summary && statement == "" {
				return writeRaw(cmd.OutOrStdout(), raw)
			}

			doc, err := fundamental.Parse(raw)
			if err != nil {
				return err
			}

			if summary {
				return writeJSON(cmd.OutOrStdout(), doc.GeneralSummary())
			}

			st, err := statementType(statement)
			if err != nil {
				return err
			}
			stmt, err := doc.Statement(st, fundamental.Frequency(frequency), date)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), stmt)
		},
	}

	cmd.Flags().StringVar(&exchange, "exchange", "", `exchange of the ticker (default "US")`)
	cmd.Flags().BoolVar(&summary, "summary", false, "print only the general info section")
	cmd.Flags().StringVar(&statement, "statement", "", "extract one statement: balance, income or cashflow")
	cmd.Flags().StringVar(&frequency, "frequency", string(fundamental.Quarterly), "statement frequency: q or y")
	cmd.Flags().StringVar(&date, "date", "", "statement period end date, YYYY-MM-DD (default latest)")
	cmd.MarkFlagsMutuallyExclusive("summary", "statement")

	return cmd
}

func statementType(name string) (fundamental.StatementType, error) {
	switch name {
	case "balance":
		return fundamental.BalanceSheet, nil
	case "income":
		return fundamental.IncomeStatement, nil
	case "cashflow":
		return fundamental.CashFlow, nil
	default:
		return "", fmt.Errorf("unknown statement %q (want balance, income or cashflow)", name)
	}
}

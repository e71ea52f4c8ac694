package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quantfin/eodhistdata/internal/eodapi"
)

// newSymbolsCmd creates the "symbols" command listing the tickers of one
// exchange.
func newSymbolsCmd(flags *rootFlags) *cobra.Command {
	var (
		output      string
		nonExcluded bool
	)

	cmd := &cobra.Command{
		Use:   "symbols EXCHANGE",
		Short: "List the symbols of an exchange",
		Long: "List every ticker of an exchange, listed and delisted combined. " +
			"With --non-excluded only common stocks with plain tickers on non-excluded exchanges remain.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			helper, err := newHelper()
			if err != nil {
				return err
			}
			exchange := eodapi.NormalizeExchangeID(args[0])

			if nonExcluded {
				tickers, err := helper.NonExcludedExchangeSymbols(cmd.Context(), exchange, callOptions(flags)...)
				if err != nil {
					return err
				}
				if output == outputJSON {
					return writeJSON(cmd.OutOrStdout(), tickers)
				}
				for _, ticker := range tickers {
					fmt.Fprintln(cmd.OutOrStdout(), ticker)
				}
				printer := message.NewPrinter(language.English)
				printer.Fprintf(cmd.ErrOrStderr(), "%d symbols\n", len(tickers))
				return nil
			}

			symbols, err := helper.ExchangeSymbols(cmd.Context(), exchange, callOptions(flags)...)
			if err != nil {
				return err
			}

			switch output {
			case outputJSON:
				return writeJSON(cmd.OutOrStdout(), symbols)
			case outputCSV:
				data, err := eodapi.MarshalSymbolsCSV(symbols)
				if err != nil {
					return err
				}
				return writeRaw(cmd.OutOrStdout(), data)
			case outputTable:
				return renderSymbolsTable(cmd, symbols)
			default:
				return unknownOutputErr(output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, csv or json")
	cmd.Flags().BoolVar(&nonExcluded, "non-excluded", false,
		"only common stocks with plain tickers on non-excluded exchange segments")
	return cmd
}

func renderSymbolsTable(cmd *cobra.Command, symbols []eodapi.Symbol) error {
	const tabPadding = 2
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)

	fmt.Fprintln(w, "Code\tName\tExchange\tType\tCurrency\tDelisted")
	fmt.Fprintln(w, "----\t----\t--------\t----\t--------\t--------")
	for _, sym := range symbols {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
			sym.Code, sym.Name, sym.Exchange, sym.Type, sym.Currency, sym.Delisted)
	}
	return w.Flush()
}

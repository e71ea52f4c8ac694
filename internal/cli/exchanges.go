package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quantfin/eodhistdata/internal/eodapi"
)

// newExchangesCmd creates the "exchanges" command listing every exchange
// the API covers.
func newExchangesCmd(flags *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "exchanges",
		Short: "List available exchanges",
		Long:  "List the exchanges covered by the EOD API, served from the local cache when a fresh enough snapshot exists.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			helper, err := newHelper()
			if err != nil {
				return err
			}

			exchanges, err := helper.ExchangeList(cmd.Context(), callOptions(flags)...)
			if err != nil {
				return err
			}

			switch output {
			case outputJSON:
				return writeJSON(cmd.OutOrStdout(), exchanges)
			case outputCSV:
				data, err := eodapi.MarshalExchangesCSV(exchanges)
				if err != nil {
					return err
				}
				return writeRaw(cmd.OutOrStdout(), data)
			case outputTable:
				return renderExchangesTable(cmd, exchanges)
			default:
				return unknownOutputErr(output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, csv or json")
	return cmd
}

func renderExchangesTable(cmd *cobra.Command, exchanges []eodapi.Exchange) error {
	const tabPadding = 2
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)

	fmt.Fprintln(w, "Code\tName\tCountry\tCurrency\tOperatingMIC")
	fmt.Fprintln(w, "----\t----\t-------\t--------\t------------")
	for _, ex := range exchanges {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ex.Code, ex.Name, ex.Country, ex.Currency, ex.OperatingMIC)
	}
	return w.Flush()
}

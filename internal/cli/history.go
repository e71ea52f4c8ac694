package cli

import (
	"github.com/spf13/cobra"

	"github.com/quantfin/eodhistdata/internal/eodapi"
	"github.com/quantfin/eodhistdata/internal/eodhist"
)

// historyFlags are the query flags shared by the history and marketcap
// commands.
type historyFlags struct {
	exchange  string
	start     string
	end       string
	frequency string
	duration  int
	output    string
}

func (f *historyFlags) register(cmd *cobra.Command, withFrequency bool) {
	cmd.Flags().StringVar(&f.exchange, "exchange", "", `exchange of the ticker (default "US")`)
	cmd.Flags().StringVar(&f.start, "start", "", "first date of the series, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.end, "end", "", "last date of the series, YYYY-MM-DD (default yesterday)")
	cmd.Flags().IntVar(&f.duration, "duration", 0, "series length in days counted back from the end date")
	cmd.Flags().StringVarP(&f.output, "output", "o", outputCSV, "output format: csv or json")
	if withFrequency {
		cmd.Flags().StringVar(&f.frequency, "frequency", "", `bar frequency: 1d, 1m, 5m or 1h (default "1d")`)
	}
}

func (f *historyFlags) query(symbol string) (eodhist.HistoricalQuery, error) {
	start, err := parseDateFlag("start", f.start)
	if err != nil {
		return eodhist.HistoricalQuery{}, err
	}
	end, err := parseDateFlag("end", f.end)
	if err != nil {
		return eodhist.HistoricalQuery{}, err
	}
	return eodhist.HistoricalQuery{
		Symbol:    symbol,
		Exchange:  f.exchange,
		Start:     start,
		End:       end,
		Frequency: f.frequency,
		Duration:  f.duration,
	}, nil
}

// newHistoryCmd creates the "history" command for price series.
func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var hf historyFlags

	cmd := &cobra.Command{
		Use:   "history SYMBOL",
		Short: "Historical price series for a symbol",
		Long:  "Fetch the historical price series for one symbol, daily or intraday, served from the local cache when a fresh enough snapshot exists.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			helper, err := newHelper()
			if err != nil {
				return err
			}
			q, err := hf.query(args[0])
			if err != nil {
				return err
			}

			candles, err := helper.HistoricalData(cmd.Context(), q, callOptions(flags)...)
			if err != nil {
				return err
			}

			switch hf.output {
			case outputJSON:
				return writeJSON(cmd.OutOrStdout(), candles)
			case outputCSV, outputTable:
				data, err := eodapi.MarshalCandlesCSV(candles)
				if err != nil {
					return err
				}
				return writeRaw(cmd.OutOrStdout(), data)
			default:
				return unknownOutputErr(hf.output)
			}
		},
	}

	hf.register(cmd, true)
	return cmd
}

// newMarketCapCmd creates the "marketcap" command for market
// capitalization series.
func newMarketCapCmd(flags *rootFlags) *cobra.Command {
	var hf historyFlags

	cmd := &cobra.Command{
		Use:   "marketcap SYMBOL",
		Short: "Market capitalization series for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			helper, err := newHelper()
			if err != nil {
				return err
			}
			q, err := hf.query(args[0])
			if err != nil {
				return err
			}

			points, err := helper.MarketCap(cmd.Context(), q, callOptions(flags)...)
			if err != nil {
				return err
			}

			switch hf.output {
			case outputJSON:
				return writeJSON(cmd.OutOrStdout(), points)
			case outputCSV, outputTable:
				data, err := eodapi.MarshalMarketCapCSV(points)
				if err != nil {
					return err
				}
				return writeRaw(cmd.OutOrStdout(), data)
			default:
				return unknownOutputErr(hf.output)
			}
		},
	}

	hf.register(cmd, false)
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quantfin/eodhistdata/internal/eodhist"
)

// maxFailuresShown caps how many per-symbol failures the download summary
// prints before eliding the rest.
const maxFailuresShown = 20

type downloadFunc func(context.Context, eodhist.DownloadOptions) (*eodhist.DownloadReport, error)

// newDownloadCmd creates the "download" command group for bulk cache
// refreshes over a whole exchange universe.
func newDownloadCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Bulk-download datasets for an exchange universe",
	}
	cmd.AddCommand(
		newDownloadSubCmd(flags, "history", "Download historical prices for every symbol",
			func(h *eodhist.Helper) downloadFunc { return h.DownloadHistoricalAll }),
		newDownloadSubCmd(flags, "marketcap", "Download market capitalization for every symbol",
			func(h *eodhist.Helper) downloadFunc { return h.DownloadMarketCapAll }),
		newDownloadSubCmd(flags, "fundamentals", "Download fundamentals for every symbol",
			func(h *eodhist.Helper) downloadFunc { return h.DownloadFundamentalsAll }),
	)
	return cmd
}

func newDownloadSubCmd(flags *rootFlags, use, short string, pick func(*eodhist.Helper) downloadFunc) *cobra.Command {
	var (
		hf          historyFlags
		symbols     []string
		symbolsFile string
		workers     int
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			helper, err := newHelper()
			if err != nil {
				return err
			}
			if symbolsFile != "" {
				fromFile, err := readSymbolsFile(symbolsFile)
				if err != nil {
					return err
				}
				symbols = append(symbols, fromFile...)
			}
			start, err := parseDateFlag("start", hf.start)
			if err != nil {
				return err
			}
			end, err := parseDateFlag("end", hf.end)
			if err != nil {
				return err
			}

			report, err := pick(helper)(cmd.Context(), eodhist.DownloadOptions{
				Exchange:  hf.exchange,
				Symbols:   symbols,
				Workers:   workers,
				StaleDays: flags.staleDays,
				Start:     start,
				End:       end,
				Frequency: hf.frequency,
				Duration:  hf.duration,
			})
			if err != nil {
				return err
			}

			printDownloadReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&hf.exchange, "exchange", "US", "exchange universe to download")
	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "explicit tickers instead of the full universe")
	cmd.Flags().StringVar(&symbolsFile, "symbols-file", "", "file with one ticker per line instead of the full universe")
	cmd.Flags().IntVar(&workers, "workers", eodhist.DefaultDownloadWorkers, "concurrent downloads")
	cmd.Flags().StringVar(&hf.start, "start", "", "first date of each series, YYYY-MM-DD")
	cmd.Flags().StringVar(&hf.end, "end", "", "last date of each series, YYYY-MM-DD (default yesterday)")
	cmd.Flags().IntVar(&hf.duration, "duration", 0, "series length in days counted back from the end date")
	if use == "history" {
		cmd.Flags().StringVar(&hf.frequency, "frequency", "", `bar frequency: 1d, 1m, 5m or 1h (default "1d")`)
	}

	return cmd
}

// readSymbolsFile reads a ticker list, one per line. Blank lines and lines
// starting with # are skipped.
func readSymbolsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read symbols file: %w", err)
	}

	var symbols []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		symbols = append(symbols, line)
	}
	return symbols, nil
}

func printDownloadReport(cmd *cobra.Command, report *eodhist.DownloadReport) {
	printer := message.NewPrinter(language.English)
	printer.Fprintf(cmd.OutOrStdout(), "Downloaded %d symbols in %s, %d failed\n",
		report.Total-len(report.Failed), report.Elapsed.Round(timeRounding), len(report.Failed))

	for i, failure := range report.Failed {
		if i == maxFailuresShown {
			printer.Fprintf(cmd.OutOrStdout(), "  ... and %d more\n", len(report.Failed)-maxFailuresShown)
			break
		}
		printer.Fprintf(cmd.OutOrStdout(), "  %s: %v\n", failure.Symbol, failure.Err)
	}
}

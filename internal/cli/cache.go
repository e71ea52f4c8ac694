package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quantfin/eodhistdata/internal/meta"
)

// newCacheCmd creates the "cache" command group for inspecting and
// maintaining the local snapshot cache. These commands never touch the
// network, so no API token is required.
func newCacheCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the local snapshot cache",
	}
	cmd.AddCommand(newCacheStatsCmd(), newCachePruneCmd(), newCacheSummaryCmd(flags))
	return cmd
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache file count and total size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := newStore()
			if err != nil {
				return err
			}
			count, size, err := store.Stats()
			if err != nil {
				return err
			}

			printer := message.NewPrinter(language.English)
			printer.Fprintf(cmd.OutOrStdout(), "Base path: %s\n", store.Base())
			printer.Fprintf(cmd.OutOrStdout(), "Snapshots: %d\n", count)
			printer.Fprintf(cmd.OutOrStdout(), "Total size: %d bytes\n", size)
			return nil
		},
	}
}

func newCachePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove empty directories from the cache tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := newStore()
			if err != nil {
				return err
			}
			removed, err := store.RemoveEmptyDirs()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d empty directories\n", removed)
			return nil
		},
	}
}

// newCacheSummaryCmd creates the "cache summary" command reporting on what
// time series have been downloaded so far.
func newCacheSummaryCmd(_ *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize the cached historical series",
		Long:  "Walk the historical series cache and report, per symbol, the newest snapshot date, the series bounds and whether the series is still active.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := newStore()
			if err != nil {
				return err
			}
			entries, err := meta.HistoricalSummary(store)
			if err != nil {
				return err
			}

			switch output {
			case outputJSON:
				return writeJSON(cmd.OutOrStdout(), entries)
			case outputTable, outputCSV:
				return renderHistoricalSummary(cmd, entries)
			default:
				return unknownOutputErr(output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")
	return cmd
}

func renderHistoricalSummary(cmd *cobra.Command, entries []meta.HistoricalEntry) error {
	const tabPadding = 2
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)

	fmt.Fprintln(w, "Symbol\tExchange\tFreq\tAsOf\tFirst\tLast\tObs\tActive")
	fmt.Fprintln(w, "------\t--------\t----\t----\t-----\t----\t---\t------")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%t\n",
			e.Symbol, e.Exchange, e.Frequency, e.AsOf.Format(flagDateLayout),
			e.FirstDate, e.LastDate, e.Observations, e.Active)
	}
	return w.Flush()
}

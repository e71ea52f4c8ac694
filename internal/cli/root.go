// Package cli implements the eodhist command tree.
package cli

import (
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantfin/eodhistdata/internal/config"
)

// rootFlags holds the persistent flag values shared by every subcommand.
type rootFlags struct {
	configPath string
	basePath   string
	apiToken   string
	debug      bool
	staleDays  int
}

// logger is the package-level logger for CLI operations, tagged with the
// run id once the root command's setup has executed.
var logger zerolog.Logger //nolint:gochecknoglobals // Set once per invocation in PersistentPreRunE

// NewRootCmd creates the root Cobra command for the eodhist CLI.
func NewRootCmd(ver string) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:     "eodhist",
		Short:   "Cached access to EOD Historical Data",
		Long:    "eodhist downloads financial data from eodhistoricaldata.com and keeps dated snapshots in a local file cache so repeated requests never hit the API twice.",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			if err := config.InitLogger(cfg.Logging); err != nil {
				return err
			}
			if flags.debug {
				config.SetLogLevel("debug")
			}

			logger = config.GetLogger().With().
				Str("run_id", ulid.Make().String()).
				Logger()
			logger.Debug().Str("command", cmd.Name()).Msg("command started")

			setGlobalConfig(cfg)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			config.CloseLogFile()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file path (default ~/.eodhist/config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.basePath, "base-path", "", "cache base directory (default ~/.eodhist/data)")
	cmd.PersistentFlags().StringVar(&flags.apiToken, "api-token", "", "EOD API token (overrides config and environment)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().IntVar(&flags.staleDays, "stale-days", -1,
		"accept cached data up to this many days old (-1 = dataset default)")

	cmd.AddCommand(
		newExchangesCmd(flags),
		newSymbolsCmd(flags),
		newHistoryCmd(flags),
		newMarketCapCmd(flags),
		newFundamentalsCmd(flags),
		newDownloadCmd(flags),
		newCacheCmd(flags),
	)

	return cmd
}

// loadConfig builds the effective config for this invocation: file and
// environment first, then explicit CLI flags on top.
func loadConfig(_ *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.basePath != "" {
		cfg.BasePath = flags.basePath
	}
	if flags.apiToken != "" {
		cfg.APIToken = flags.apiToken
	}
	return cfg, nil
}

const rootCmdExample = `  # List all exchanges EOD covers
  eodhist exchanges

  # List the tradeable US common stocks
  eodhist symbols US --non-excluded

  # Daily history for MSFT, cached result accepted up to 5 days old
  eodhist history MSFT --stale-days 5

  # Market capitalization series
  eodhist marketcap AAPL

  # Fundamentals document, general section only
  eodhist fundamentals MSFT --summary

  # Refresh daily history for the whole US universe
  eodhist download history --exchange US

  # Cache usage
  eodhist cache stats`

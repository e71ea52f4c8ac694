package cli

import (
	"net/http"
	"sync"
	"time"

	"github.com/quantfin/eodhistdata/internal/cache"
	"github.com/quantfin/eodhistdata/internal/config"
	"github.com/quantfin/eodhistdata/internal/eodapi"
	"github.com/quantfin/eodhistdata/internal/eodhist"
)

// globalCfg holds the effective config for the current invocation, set by
// the root command's PersistentPreRunE.
var (
	globalCfg   *config.Config //nolint:gochecknoglobals // Set once at startup
	globalCfgMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalCfg
)

func setGlobalConfig(cfg *config.Config) {
	globalCfgMu.Lock()
	defer globalCfgMu.Unlock()
	globalCfg = cfg
}

func getGlobalConfig() *config.Config {
	globalCfgMu.RLock()
	defer globalCfgMu.RUnlock()
	if globalCfg == nil {
		return config.Default()
	}
	return globalCfg
}

// newStore opens the snapshot store below the configured base path.
func newStore() (*cache.Store, error) {
	cfg := getGlobalConfig()
	return cache.NewStore(cfg.BasePath, cache.WithLogger(config.ComponentLogger("cache")))
}

// newHelper assembles the API client, the snapshot store and the cache
// mediator from the effective config. Commands that reach the network all
// go through here; cache-only commands use newStore directly and skip the
// token check.
func newHelper() (*eodhist.Helper, error) {
	cfg := getGlobalConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clientOpts := []eodapi.ClientOption{
		eodapi.WithLogger(config.ComponentLogger("eodapi")),
		eodapi.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		}),
	}
	if cfg.HTTP.BaseURL != "" {
		clientOpts = append(clientOpts, eodapi.WithBaseURL(cfg.HTTP.BaseURL))
	}
	if cfg.HTTP.RateLimit > 0 {
		clientOpts = append(clientOpts, eodapi.WithRateLimit(cfg.HTTP.RateLimit))
	}
	client := eodapi.NewClient(cfg.APIToken, clientOpts...)

	store, err := newStore()
	if err != nil {
		return nil, err
	}

	helperOpts := []eodhist.Option{eodhist.WithLogger(config.ComponentLogger("eodhist"))}
	if cfg.StaleDays.Listing != nil {
		for _, kind := range []cache.Kind{
			cache.KindExchangeList,
			cache.KindExchangeSymbols,
			cache.KindHistoricalTimeSeries,
			cache.KindMarketCap,
		} {
			helperOpts = append(helperOpts, eodhist.WithDefaultStaleDays(kind, *cfg.StaleDays.Listing))
		}
	}
	if cfg.StaleDays.Fundamentals != nil {
		for _, kind := range []cache.Kind{
			cache.KindFundamentalEquity,
			cache.KindFundamentalEquityBulk,
		} {
			helperOpts = append(helperOpts, eodhist.WithDefaultStaleDays(kind, *cfg.StaleDays.Fundamentals))
		}
	}

	return eodhist.New(client, store, helperOpts...), nil
}

// callOptions translates the persistent --stale-days flag into per-call
// options. A negative value keeps the dataset default.
func callOptions(flags *rootFlags) []eodhist.CallOption {
	if flags.staleDays < 0 {
		return nil
	}
	return []eodhist.CallOption{eodhist.WithStaleDays(flags.staleDays)}
}

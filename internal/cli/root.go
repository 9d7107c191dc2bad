package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/countries/internal/cache"
	"github.com/rshade/countries/internal/config"
	"github.com/rshade/countries/internal/logging"
	"github.com/rshade/countries/internal/query"
	"github.com/rshade/countries/internal/restcountries"
	"github.com/rshade/countries/pkg/version"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// annotationLogToFile marks commands whose output owns the terminal, so log
// lines must go to a file instead of stderr.
const annotationLogToFile = "countries/log-to-file"

// annotationTolerateConfig marks commands that must still run when the
// config file is broken, falling back to defaults.
const annotationTolerateConfig = "countries/tolerate-config-errors"

// NewRootCmd creates the root Cobra command for the countries CLI.
// Running it without a subcommand opens the interactive browser.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithArgs(ver, os.LookupEnv)
}

// NewRootCmdWithArgs creates the root command with an explicit env lookup for testability.
func NewRootCmdWithArgs(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	var logResult *logging.LogPathResult

	browse := NewBrowseCmd()

	cmd := &cobra.Command{
		Use:   "countries",
		Short: "Browse the world's countries in your terminal",
		Long: `countries fetches the REST Countries dataset and shows it as a searchable,
sortable, paginated table. Search matches official names approximately, so
small typos still find the country.`,
		Version:      ver,
		Example:      rootCmdExample,
		SilenceUsage: true,
		Annotations:  browse.Annotations,
		Args:         cobra.NoArgs,
		RunE:         browse.RunE,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, lookupEnv)
			if err != nil {
				if cmd.Annotations[annotationTolerateConfig] != "true" {
					return err
				}
				cmd.PrintErrf("Warning: ignoring current configuration: %v\n", err)
				cfg = config.New()
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd, cfg.Logging)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	pf := cmd.PersistentFlags()
	pf.Bool("debug", false, "enable debug logging")
	pf.String("config", "", "config file (default ~/.countries/config.yaml)")
	pf.String("endpoint", "", "REST Countries URL to fetch")
	pf.Int("timeout", 0, "fetch timeout in seconds (0 disables the timeout)")
	pf.String("locale", "", "BCP 47 locale used to sort names (e.g. en, sv, de)")
	pf.String("search-mode", "", "search matcher: approximate or subsequence")
	pf.Float64("threshold", 0, "approximate match threshold between 0 (exact) and 1 (anything)")
	pf.Int("cache-ttl", 0, "reuse a fetched list from the on-disk cache for this many seconds (0 disables)")
	pf.Bool("no-cache", false, "always fetch from the endpoint and skip the on-disk cache")

	// The root command forwards to browse, so it needs browse's own flags too.
	cmd.Flags().AddFlagSet(browse.Flags())

	cmd.AddCommand(browse, NewListCmd(), newConfigCmd(lookupEnv), newCacheCmd())
	return cmd
}

const rootCmdExample = `  # Browse interactively
  countries

  # Start the browser with a search already applied
  countries browse --search "republic"

  # Print the second page of 10 rows sorted by alpha-3 code, descending
  countries list --page 2 --page-size 10 --sort cca3:desc

  # Export every match as JSON
  countries list --search land --page-size 100 --output json

  # Use Swedish collation rules
  countries list --locale sv

  # Write the default configuration file
  countries config init`

// loadConfig builds the effective config: defaults, file, env, then flags.
func loadConfig(cmd *cobra.Command, lookupEnv func(string) (string, bool)) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWithEnv(path, lookupEnv)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.API.Endpoint, _ = flags.GetString("endpoint")
	}
	if flags.Changed("timeout") {
		cfg.API.TimeoutSeconds, _ = flags.GetInt("timeout")
	}
	if flags.Changed("locale") {
		cfg.View.Locale, _ = flags.GetString("locale")
	}
	if flags.Changed("search-mode") {
		cfg.Search.Mode, _ = flags.GetString("search-mode")
	}
	if flags.Changed("threshold") {
		cfg.Search.Threshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("cache-ttl") {
		cfg.API.CacheTTLSeconds, _ = flags.GetInt("cache-ttl")
	}
	if noCache, _ := flags.GetBool("no-cache"); noCache {
		cfg.API.CacheTTLSeconds = 0
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newClient builds the REST Countries client from cfg. A cache directory that
// cannot be created only disables caching.
func newClient(ctx context.Context, cfg *config.Config) (*restcountries.Client, error) {
	opts := []restcountries.Option{
		restcountries.WithTimeout(time.Duration(cfg.API.TimeoutSeconds) * time.Second),
		restcountries.WithUserAgent(version.UserAgent()),
	}

	ttl := time.Duration(cfg.API.CacheTTLSeconds) * time.Second
	if dir := cfg.CacheDirectory(); dir != "" && ttl > 0 {
		store, err := cache.NewFileStore(dir, ttl)
		if err != nil {
			logger.Warn().Ctx(ctx).Err(err).Str("dir", dir).Msg("country cache disabled")
		} else {
			opts = append(opts, restcountries.WithCache(store))
		}
	}

	return restcountries.NewClient(cfg.API.Endpoint, opts...)
}

// newEngine builds the search and sort engine from cfg.
func newEngine(cfg *config.Config) (*query.Engine, error) {
	mode, err := query.ParseMode(cfg.Search.Mode)
	if err != nil {
		return nil, err
	}
	matcher, err := query.NewMatcher(mode, cfg.MatchOptions())
	if err != nil {
		return nil, err
	}
	return query.NewEngine(matcher, query.NewSorter(cfg.LocaleTag())), nil
}

// initialState is the empty view configured by cfg's view section.
func initialState(cfg *config.Config, sorter *query.Sorter) (query.State, error) {
	state, err := query.NewState().WithRowsPerPage(cfg.View.PageSize)
	if err != nil {
		return state, fmt.Errorf("view.page_size: %w", err)
	}
	column, order, err := query.ParseSort(cfg.View.Sort)
	if err != nil {
		return state, fmt.Errorf("view.sort: %w", err)
	}
	return state.WithSort(column, order, sorter)
}

// newCacheCmd creates the cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Manage the on-disk country cache"}
	cmd.AddCommand(NewCacheClearCmd())
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd(lookupEnv func(string) (string, bool)) *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(lookupEnv), NewConfigShowCmd())
	return cmd
}

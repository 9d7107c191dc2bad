package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/countries/internal/cache"
	"github.com/rshade/countries/internal/config"
)

// NewCacheClearCmd creates the cache clear command.
func NewCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached country list",
		Long: `Removes the cached responses from the cache directory (api.cache_dir,
default ~/.countries/cache). The next run fetches from the endpoint again.`,
		Example: `  countries cache clear`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := config.GetGlobalConfig().CacheDirectory()
			if dir == "" {
				return errors.New("no cache directory: set api.cache_dir or COUNTRIES_CACHE_DIR")
			}
			if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cache is empty (%s)\n", dir)
				return nil
			}

			// The TTL only enables the store; clearing ignores it.
			store, err := cache.NewFileStore(dir, cache.DefaultTTLSeconds*time.Second)
			if err != nil {
				return err
			}
			if err = store.Clear(); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			logger.Debug().Ctx(cmd.Context()).Str("dir", dir).Msg("cache cleared")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared (%s)\n", dir)
			return nil
		},
	}
}

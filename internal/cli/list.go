package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/countries/internal/cli/pagination"
	"github.com/rshade/countries/internal/config"
	"github.com/rshade/countries/internal/query"
	"github.com/rshade/countries/internal/tui"
)

// ErrUnsupportedOutput is returned for an --output value the list command cannot render.
var ErrUnsupportedOutput = errors.New("unsupported output format")

func outputFormats() []string {
	return []string{config.OutputTable, config.OutputJSON, config.OutputNDJSON, config.OutputYAML}
}

// NewListCmd creates the list command, which prints one page of the table.
func NewListCmd() *cobra.Command {
	params := pagination.NewPaginationParams()
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of countries",
		Long: `Fetches the country list once and prints the page selected by --page,
after applying --search and --sort exactly as the browser does. Pages are
numbered from 1. A failed fetch exits non-zero. Every run fetches unless the
on-disk cache is enabled with --cache-ttl or api.cache_ttl_seconds.`,
		Example: `  # First page, 25 rows, sorted by official name
  countries list

  # Third page of 10 rows sorted by calling code
  countries list --page 3 --page-size 10 --sort idd

  # Everything matching "island" as NDJSON
  countries list --search island --page-size 100 --output ndjson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			flags := cmd.Flags()
			if !flags.Changed("page-size") {
				params.PageSize = cfg.View.PageSize
			}
			if !flags.Changed("sort") {
				params.Sort = cfg.View.Sort
			}
			if !flags.Changed("output") {
				output = cfg.Output.DefaultFormat
			}
			return runList(cmd.Context(), cmd, cfg, *params, output)
		},
	}

	cmd.Flags().StringVar(&params.Search, "search", "", "filter official names (approximate match)")
	cmd.Flags().StringVar(&params.Sort, "sort", config.DefaultSort,
		"sort as column[:asc|desc]; columns: "+sortableColumnNames())
	cmd.Flags().IntVar(&params.Page, "page", pagination.DefaultPage, "page number, starting at 1")
	cmd.Flags().IntVar(&params.PageSize, "page-size", query.DefaultRowsPerPage, "rows per page: 10, 25 or 100")
	cmd.Flags().StringVarP(&output, "output", "o", config.DefaultOutputFormat,
		"output format: "+strings.Join(outputFormats(), ", "))

	return cmd
}

func sortableColumnNames() string {
	cols := query.SortableColumns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// runList fetches the countries and writes the selected page in the requested format.
func runList(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	params pagination.PaginationParams,
	output string,
) error {
	if !slices.Contains(outputFormats(), output) {
		return fmt.Errorf("%w %q (use %s)", ErrUnsupportedOutput, output, strings.Join(outputFormats(), ", "))
	}
	if err := params.Validate(); err != nil {
		return err
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	records, err := client.FetchCached(ctx)
	if err != nil {
		logger.Error().Ctx(ctx).Err(err).Str("endpoint", client.Endpoint()).Msg("loading countries failed")
		return err
	}

	state := query.NewState().WithCountries(records, engine.Sorter())
	if state, err = params.Apply(state, engine.Sorter()); err != nil {
		return err
	}
	result := engine.View(state)

	logger.Debug().Ctx(ctx).
		Int("total", result.Total).
		Int("filtered", result.Filtered).
		Int("page", result.Page).
		Msg("rendering list")

	return renderList(cmd.OutOrStdout(), output, listView{
		result: result,
		state:  state,
		locale: cfg.LocaleTag(),
		mode:   tui.DetectOutputMode(false, false, false),
		width:  tui.TerminalWidth(),
	})
}

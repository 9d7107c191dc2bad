package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/countries/internal/cli/pagination"
	"github.com/rshade/countries/internal/config"
	"github.com/rshade/countries/internal/tui"
)

// NewBrowseCmd creates the browse command, which opens the interactive table.
// Without a terminal it prints the first page instead.
func NewBrowseCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive country table",
		Long: `Opens a full-screen table of every country. Type / to search official
names, s and tab to sort, the arrow keys to page, and enter or a click to see a
country's details. Logs are written to ~/.countries/logs/countries.log while the
browser is open.`,
		Example: `  # Open the browser
  countries browse

  # Open it with a search already applied
  countries browse --search "united"`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationLogToFile: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if tui.DetectOutputMode(false, false, false) != tui.OutputModeInteractive {
				logger.Debug().Ctx(cmd.Context()).Msg("no interactive terminal, printing the first page")
				params := pagination.NewPaginationParams()
				params.PageSize = cfg.View.PageSize
				params.Sort = cfg.View.Sort
				params.Search = search
				return runList(cmd.Context(), cmd, cfg, *params, config.OutputTable)
			}
			return runBrowse(cmd.Context(), cmd, cfg, search)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "initial search text")
	return cmd
}

// runBrowse runs the Bubble Tea program until the user quits. Cancelling ctx
// stops the program and any in-flight load.
func runBrowse(ctx context.Context, cmd *cobra.Command, cfg *config.Config, search string) error {
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	state, err := initialState(cfg, engine.Sorter())
	if err != nil {
		return err
	}
	state = state.WithSearch(search)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.NewBrowserModel(ctx, engine, client.Fetcher(), state)
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	logger.Info().Ctx(ctx).Str("endpoint", client.Endpoint()).Msg("starting browser")
	if _, err = p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/countries/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// It writes the defaults to --config, or to ~/.countries/config.yaml.
func NewConfigInitCmd(lookupEnv func(string) (string, bool)) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values at the path given by
--config, COUNTRIES_CONFIG, or ~/.countries/config.yaml.`,
		Example: `  # Create the default configuration
  countries config init

  # Create configuration, overwriting existing
  countries config init --force`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationTolerateConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := resolveConfigPath(cmd, lookupEnv)
			if path == "" {
				return errors.New("cannot determine config path: set --config or COUNTRIES_CONFIG")
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			logger.Info().Ctx(cmd.Context()).Str("path", path).Msg("configuration initialized")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration after file, env and flag overrides.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Example: `  # Show what a run with these flags would use
  countries config show --locale sv --search-mode subsequence`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(config.GetGlobalConfig())
			if err != nil {
				return fmt.Errorf("marshalling config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// resolveConfigPath returns --config, COUNTRIES_CONFIG, or the default path.
func resolveConfigPath(cmd *cobra.Command, lookupEnv func(string) (string, bool)) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	if path, ok := lookupEnv(config.EnvConfig); ok && path != "" {
		return path
	}
	return config.DefaultConfigPath()
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/impactradar/internal/config"
	ilog "github.com/nao1215/impactradar/internal/log"
)

// NewRootCmd creates the root command for impactradar.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "impactradar",
		Short: "Score fintech companies on the IMPACT framework",
		Long: `impactradar scores a fintech company on six dimensions, from
Integration to Target, and exports the analysis as a report.

Analyses are kept in YAML files. Create one with 'impactradar init',
edit it interactively with 'impactradar edit' and export it with
'impactradar score'.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .impactradar in current or home directory)")

	cmd.AddCommand(NewScoreCmd())
	cmd.AddCommand(NewEditCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewDimensionsCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the config file path from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// setupLogger creates a structured logger that masks analysis content.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	return ilog.NewSecureLogger(w, verbose)
}

// applyConfigFile merges the configuration file into cfg. Flags the user set
// on the command line win over the file. A missing file is only an error
// when its path was given explicitly.
func applyConfigFile(cmd *cobra.Command, cfg *config.Config) error {
	cfg.ConfigFilePath = getConfigFlag(cmd)

	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	file.Apply(cfg, cmd.Flags().Changed)
	return nil
}

package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/impactradar/internal/config"
)

//go:embed templates/analysis.yaml templates/impactradar.yaml
var templates embed.FS

const (
	// analysisFileName is the default analysis file name.
	analysisFileName = "analysis.yaml"

	analysisTemplate = "templates/analysis.yaml"
	configTemplate   = "templates/impactradar.yaml"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an analysis or configuration file",
		Long: `Init writes a commented analysis template with every dimension set to 50.
With --settings it writes a .impactradar configuration file instead.

Examples:
  # Create analysis.yaml in the current directory
  impactradar init

  # Create an analysis file at a specific path
  impactradar init -o analyses/acme.yaml

  # Create .impactradar with the default export settings
  impactradar init --settings

  # Force overwrite existing file
  impactradar init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Output file path (default: analysis.yaml, or .impactradar with --settings)")
	cmd.Flags().Bool("settings", false,
		"Write a configuration file instead of an analysis file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	writeConfig, err := cmd.Flags().GetBool("settings")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	tmpl := analysisTemplate
	if writeConfig {
		tmpl = configTemplate
	}
	if outputPath == "" {
		outputPath = analysisFileName
		if writeConfig {
			outputPath = config.DefaultConfigFile
		}
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := templates.ReadFile(tmpl)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	out := cmd.OutOrStdout()
	if writeConfig {
		fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
		return nil
	}
	fmt.Fprintf(out, "Created analysis file: %s\n", outputPath)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintf(out, "  impactradar edit %s    score interactively\n", outputPath)
	fmt.Fprintf(out, "  impactradar score %s   export a report\n", outputPath)
	return nil
}

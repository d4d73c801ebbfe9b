package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/pders01/git-release/internal/config"
	"github.com/pders01/git-release/internal/store"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored release state",
	Long: `Print the release state written by the last successful run.

Examples:
  git-release show
  git-release show -o yaml`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	format := config.GetOutputFormat()
	if err := validateFormat(format); err != nil {
		return err
	}

	settings, err := config.Load()
	if err != nil {
		return err
	}

	path := settings.StateFile
	if !filepath.IsAbs(path) {
		root, err := filepath.Abs(reactorDir)
		if err != nil {
			return fmt.Errorf("failed to resolve reactor directory: %w", err)
		}
		path = filepath.Join(root, path)
	}

	exists, err := afero.Exists(appFs, path)
	if err != nil {
		return fmt.Errorf("failed to check release state: %w", err)
	}
	if !exists {
		fmt.Fprintf(stdout, "No release state at %s\n", path)
		return nil
	}

	state, err := store.Load(appFs, path)
	if err != nil {
		return err
	}

	if format != formatText {
		return printEncoded(state, format)
	}

	fmt.Fprintf(stdout, "Release state: %s\n", path)
	fmt.Fprintf(stdout, "  Policy:            %s\n", state.PolicyID())
	fmt.Fprintf(stdout, "  Branch creation:   %t\n", state.BranchCreation)
	fmt.Fprintf(stdout, "  Auto-version:      %t\n", state.AutoVersionSubmodules)
	if len(state.CheckModificationExcludes) > 0 {
		fmt.Fprintf(stdout, "  Excludes:          %v\n", state.CheckModificationExcludes)
	}

	printVersionMap("Release versions", state.ReleaseVersions)
	printVersionMap("Development versions", state.DevelopmentVersions)
	return nil
}

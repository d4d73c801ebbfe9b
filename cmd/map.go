package cmd

import (
	"context"

	"github.com/pders01/git-release/internal/phase"
	"github.com/spf13/cobra"
)

var mapBranchCreation bool

var mapCmd = &cobra.Command{
	Use:   "map <release|branch|development>",
	Short: "Run a single version mapping phase",
	Long: `Run one version mapping phase against the stored release state.

  release      record release versions (non-snapshots)
  branch       record branch versions (snapshots)
  development  record next development versions (snapshots)

Whether a branch is being created changes which versions are asked for;
it is taken from the release state unless --branch-creation is given.

Examples:
  git-release map release --batch
  git-release map development --branch-creation`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"release", "branch", "development"},
	RunE:      runMap,
}

func init() {
	rootCmd.AddCommand(mapCmd)

	mapCmd.Flags().BoolVar(&mapBranchCreation, "branch-creation", false, "map versions for a new branch")
}

func runMap(cmd *cobra.Command, args []string) error {
	kind, err := phase.ParseKind(args[0])
	if err != nil {
		return err
	}

	w, err := openWorkspace()
	if err != nil {
		return err
	}
	w.desc.BranchCreation = w.state.BranchCreation
	if mapBranchCreation || (cmd != nil && cmd.Flags().Changed("branch-creation")) {
		w.desc.BranchCreation = mapBranchCreation
	}

	p := phase.NewMapVersions(kind, w.options())
	results, err := phase.Run(context.Background(), []phase.Phase{p}, w.desc, w.reactor, dryRun)
	return w.finish(p.Name(), results, err)
}

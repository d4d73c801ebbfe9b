package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/pders01/git-release/internal/config"
	"github.com/pders01/git-release/internal/git"
	"github.com/pders01/git-release/internal/models"
	"github.com/pders01/git-release/internal/phase"
	"github.com/pders01/git-release/internal/policy"
	"github.com/pders01/git-release/internal/prompt"
	"github.com/pders01/git-release/internal/reactor"
	"github.com/pders01/git-release/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	batchMode           bool
	dryRun              bool
	releaseVersions     map[string]string
	developmentVersions map[string]string
)

// isTerminal reports whether prompts can use the full screen input
var isTerminal = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Decide release and next development versions",
	Long: `Decide the release version of every module and the development version
the working copy moves on to afterwards.

Runs the phases:
  - submodule-update (only with -DsubmoduleUpdate in the additional arguments)
  - map-release-versions
  - map-development-versions

Examples:
  git-release prepare
  git-release prepare --batch --release-version 2.0 --development-version 2.1-SNAPSHOT
  git-release prepare --auto-version-submodules --dry-run -o json`,
	Args: cobra.NoArgs,
	RunE: runPrepare,
}

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Decide branch and working copy versions",
	Long: `Decide the versions used on a new branch and in the working copy.

Branch versions are only changed with --update-branch-versions, working
copy versions only with --update-working-copy-versions (the default).

Examples:
  git-release branch --update-branch-versions
  git-release branch --batch --release-versions com.x:app=1.2-SNAPSHOT`,
	Args: cobra.NoArgs,
	RunE: runBranch,
}

var updateVersionsCmd = &cobra.Command{
	Use:   "update-versions",
	Short: "Decide the next development versions",
	Long: `Decide the next development version of every module without releasing.

Examples:
  git-release update-versions
  git-release update-versions --batch --development-version 3.0-SNAPSHOT`,
	Args: cobra.NoArgs,
	RunE: runUpdateVersions,
}

func init() {
	rootCmd.AddCommand(prepareCmd, branchCmd, updateVersionsCmd)

	for _, c := range []*cobra.Command{prepareCmd, branchCmd, updateVersionsCmd, mapCmd} {
		addRunFlags(c.Flags())
	}

	flags := rootCmd.PersistentFlags()
	flags.String("policy", "", "version policy id (see: git-release policies)")
	flags.StringSlice("exclude", nil, "glob of module manifests to leave alone, e.g. docs/**")
	flags.Bool("auto-version-submodules", false, "give every module the root module's version")
	flags.Bool("update-branch-versions", false, "change versions on the branch")
	flags.Bool("update-working-copy-versions", true, "change versions in the working copy")
	flags.Bool("update-versions-to-snapshot", false, "move released modules to snapshots on the branch")
	flags.String("release-version", "", "default release version for all modules")
	flags.String("development-version", "", "default development version for all modules")
	flags.String("additional-arguments", "", "additional arguments, -DsubmoduleUpdate updates submodules")

	bindFlag("release.policy", flags.Lookup("policy"))
	bindFlag("release.excludes", flags.Lookup("exclude"))
	bindFlag("release.auto_version_submodules", flags.Lookup("auto-version-submodules"))
	bindFlag("release.update_branch_versions", flags.Lookup("update-branch-versions"))
	bindFlag("release.update_working_copy_versions", flags.Lookup("update-working-copy-versions"))
	bindFlag("release.update_versions_to_snapshot", flags.Lookup("update-versions-to-snapshot"))
	bindFlag("release.default_release_version", flags.Lookup("release-version"))
	bindFlag("release.default_development_version", flags.Lookup("development-version"))
	bindFlag("release.additional_arguments", flags.Lookup("additional-arguments"))
}

func addRunFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&batchMode, "batch", false, "never prompt, accept defaults and policy suggestions")
	flags.BoolVar(&dryRun, "dry-run", false, "simulate and do not write the release state")
	flags.StringToStringVar(&releaseVersions, "release-versions", nil, "release version per module, e.g. com.x:app=1.0")
	flags.StringToStringVar(&developmentVersions, "development-versions", nil, "development version per module, e.g. com.x:app=1.1-SNAPSHOT")
}

func runPrepare(cmd *cobra.Command, args []string) error {
	return runGoal(phase.GoalPrepare)
}

func runBranch(cmd *cobra.Command, args []string) error {
	return runGoal(phase.GoalBranch)
}

func runUpdateVersions(cmd *cobra.Command, args []string) error {
	return runGoal(phase.GoalUpdateVersions)
}

func runGoal(goal phase.Goal) error {
	w, err := openWorkspace()
	if err != nil {
		return err
	}

	results, err := phase.RunGoal(context.Background(), goal, w.desc, w.reactor, w.options(), dryRun)
	return w.finish(string(goal), results, err)
}

// workspace is everything a run needs: the reactor, the descriptor merged
// from configuration, flags and stored state, and where to save it.
type workspace struct {
	root      string
	statePath string
	desc      *models.ReleaseDescriptor
	state     *models.ReleaseDescriptor
	reactor   *models.Reactor
	logger    *slog.Logger
}

func openWorkspace() (*workspace, error) {
	logger := newLogger()

	if err := validateFormat(config.GetOutputFormat()); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(reactorDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reactor directory: %w", err)
	}

	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	r, err := reactor.Load(appFs, root)
	if err != nil {
		return nil, fmt.Errorf("failed to load reactor: %w", err)
	}
	logger.Debug("loaded reactor", "root", r.Root().ID(), "modules", len(r.Modules))

	statePath := settings.StateFile
	if !filepath.IsAbs(statePath) {
		statePath = filepath.Join(root, statePath)
	}

	state, err := store.Load(appFs, statePath)
	if err != nil {
		return nil, err
	}

	desc := settings.Descriptor()
	if batchMode {
		desc.Interactive = false
	}
	for id, v := range releaseVersions {
		desc.AddReleaseVersion(id, v)
	}
	for id, v := range developmentVersions {
		desc.AddDevelopmentVersion(id, v)
	}
	store.Merge(desc, state)

	for _, id := range unknownModules(r, desc.ReleaseVersions, desc.DevelopmentVersions) {
		logger.Warn("version given for a module outside the reactor", "module", id)
	}

	if git.IsGitRepo(root) {
		if dirty, err := git.HasUncommittedChanges(root); err == nil && dirty {
			logger.Warn("working copy has uncommitted changes", "dir", root)
		}
	}

	return &workspace{
		root:      root,
		statePath: statePath,
		desc:      desc,
		state:     state,
		reactor:   r,
		logger:    logger,
	}, nil
}

// unknownModules returns the sorted ids of versions matching no reactor module
func unknownModules(r *models.Reactor, maps ...map[string]string) []string {
	seen := make(map[string]bool)
	var unknown []string
	for _, m := range maps {
		for id := range m {
			if _, ok := r.Find(id); ok || seen[id] {
				continue
			}
			seen[id] = true
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func (w *workspace) options() phase.Options {
	return phase.Options{
		Policies:    policy.DefaultRegistry,
		Prompter:    selectPrompter(w.desc),
		MaxAttempts: config.GetMaxAttempts(),
		Logger:      w.logger,
	}
}

// finish prints the outcome and saves the state of a successful real run
func (w *workspace) finish(name string, results []*phase.Result, runErr error) error {
	if err := printReport(newReport(name, w.desc, results, dryRun), config.GetOutputFormat()); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("%s failed: %w", name, runErr)
	}
	if dryRun {
		return nil
	}

	if err := store.Save(appFs, w.statePath, w.desc); err != nil {
		return err
	}
	w.logger.Info("saved release state", "path", w.statePath)
	return nil
}

func selectPrompter(desc *models.ReleaseDescriptor) prompt.Prompter {
	if !desc.Interactive {
		return nil
	}
	if config.GetTerminalPrompt() && isTerminal() {
		return prompt.TerminalPrompter{}
	}
	return prompt.NewLinePrompter(stdin, os.Stderr)
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/pders01/git-release/internal/config"
	"github.com/pders01/git-release/internal/exclude"
	"github.com/pders01/git-release/internal/git"
	"github.com/pders01/git-release/internal/versions"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show reactor modules and their recorded versions",
	Long: `Display the modules of the reactor including:
  - Current version and whether it is a snapshot
  - Whether the module is excluded from per-module mapping
  - Recorded release and development versions
  - Git branch and commit of the reactor root

Examples:
  git-release status
  git-release status -o json
  git-release status -o toon`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type moduleStatus struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Path        string `json:"path" yaml:"path"`
	Version     string `json:"version" yaml:"version"`
	Snapshot    bool   `json:"snapshot" yaml:"snapshot"`
	Excluded    bool   `json:"excluded" yaml:"excluded"`
	Release     string `json:"release,omitempty" yaml:"release,omitempty"`
	Development string `json:"development,omitempty" yaml:"development,omitempty"`
}

type reactorStatus struct {
	Root                  string         `json:"root" yaml:"root"`
	Branch                string         `json:"branch,omitempty" yaml:"branch,omitempty"`
	Commit                string         `json:"commit,omitempty" yaml:"commit,omitempty"`
	Policy                string         `json:"policy" yaml:"policy"`
	AutoVersionSubmodules bool           `json:"auto_version_submodules" yaml:"auto_version_submodules"`
	TotalModules          int            `json:"total_modules" yaml:"total_modules"`
	Snapshots             int            `json:"snapshots" yaml:"snapshots"`
	Excluded              int            `json:"excluded" yaml:"excluded"`
	Excludes              []string       `json:"excludes,omitempty" yaml:"excludes,omitempty"`
	Modules               []moduleStatus `json:"modules" yaml:"modules"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	w, err := openWorkspace()
	if err != nil {
		return err
	}

	status := &reactorStatus{
		Root:                  w.root,
		Policy:                w.desc.PolicyID(),
		AutoVersionSubmodules: w.desc.AutoVersionSubmodules,
		TotalModules:          len(w.reactor.Modules),
	}

	if git.IsGitRepo(w.root) {
		if branch, err := git.GetCurrentBranch(w.root); err == nil {
			status.Branch = branch
		}
		if commit, err := git.GetCurrentCommit(w.root); err == nil {
			status.Commit = commit
		}
	}

	excludes := exclude.Build(w.desc.CheckModificationExcludes)
	status.Excludes = excludes.Patterns()
	for _, m := range w.reactor.Modules {
		path, err := w.reactor.RelativePath(m)
		if err != nil {
			return err
		}

		s := moduleStatus{
			ID:          m.ID(),
			Name:        m.DisplayName(),
			Path:        path,
			Version:     m.Version,
			Snapshot:    versions.IsSnapshot(m.Version),
			Excluded:    excludes.Matches(path),
			Release:     w.desc.ProjectReleaseVersion(m.ID()),
			Development: w.desc.ProjectDevelopmentVersion(m.ID()),
		}
		if s.Snapshot {
			status.Snapshots++
		}
		if s.Excluded {
			status.Excluded++
		}
		status.Modules = append(status.Modules, s)
	}

	if format := config.GetOutputFormat(); format != formatText {
		return printEncoded(status, format)
	}

	fmt.Fprintln(stdout, "Reactor Status")
	fmt.Fprintln(stdout, "━━━━━━━━━━━━━━")
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "Root:     %s\n", status.Root)
	if status.Branch != "" {
		fmt.Fprintf(stdout, "Branch:   %s (%s)\n", status.Branch, shortCommit(status.Commit))
	}
	fmt.Fprintf(stdout, "Policy:   %s\n", status.Policy)
	if status.AutoVersionSubmodules {
		fmt.Fprintln(stdout, "Mode:     auto-version submodules")
	}
	fmt.Fprintf(stdout, "Modules:  %d (%d snapshots, %d excluded)\n", status.TotalModules, status.Snapshots, status.Excluded)
	if len(status.Excludes) > 0 {
		fmt.Fprintf(stdout, "Excludes: %s\n", strings.Join(status.Excludes, ", "))
	}
	fmt.Fprintln(stdout)

	for _, s := range status.Modules {
		flag := " "
		if s.Excluded {
			flag = "x"
		}
		fmt.Fprintf(stdout, "%s %-30s %-16s", flag, s.ID, s.Version)
		if s.Release != "" {
			fmt.Fprintf(stdout, " release=%s", s.Release)
		}
		if s.Development != "" {
			fmt.Fprintf(stdout, " development=%s", s.Development)
		}
		fmt.Fprintln(stdout)
	}

	return nil
}

func shortCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}

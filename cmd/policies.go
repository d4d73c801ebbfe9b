package cmd

import (
	"fmt"

	"github.com/pders01/git-release/internal/config"
	"github.com/pders01/git-release/internal/policy"
	"github.com/spf13/cobra"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List the available version policies",
	Long: `List the version policies that can be selected with --policy or the
release.policy setting.

  default  increments the last numeric component: 1.0 -> 1.1-SNAPSHOT
  semver   increments the minor version: 1.2.3 -> 1.3.0-SNAPSHOT`,
	Args: cobra.NoArgs,
	RunE: runPolicies,
}

func init() {
	rootCmd.AddCommand(policiesCmd)
}

type policyExample struct {
	ID          string `json:"id" yaml:"id"`
	Base        string `json:"base" yaml:"base"`
	Release     string `json:"release" yaml:"release"`
	Development string `json:"development" yaml:"development"`
}

// exampleBase is the version every policy is demonstrated with
const exampleBase = "1.2.3-SNAPSHOT"

func runPolicies(cmd *cobra.Command, args []string) error {
	var examples []policyExample
	for _, id := range policy.DefaultRegistry.IDs() {
		p, err := policy.DefaultRegistry.Get(id)
		if err != nil {
			return err
		}

		ex := policyExample{ID: id, Base: exampleBase}
		if ex.Release, err = p.ReleaseVersion(exampleBase); err != nil {
			return fmt.Errorf("policy %s: %w", id, err)
		}
		if ex.Development, err = p.DevelopmentVersion(ex.Release); err != nil {
			return fmt.Errorf("policy %s: %w", id, err)
		}
		examples = append(examples, ex)
	}

	if format := config.GetOutputFormat(); format != formatText {
		return printEncoded(examples, format)
	}

	for _, ex := range examples {
		active := " "
		if ex.ID == config.GetPolicy() {
			active = "*"
		}
		fmt.Fprintf(stdout, "%s %-10s %s -> %s -> %s\n", active, ex.ID, ex.Base, ex.Release, ex.Development)
	}
	return nil
}

package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/git-release/internal/models"
	"github.com/pders01/git-release/internal/phase"
	"go.yaml.in/yaml/v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatToon = "toon"
)

// report is what a goal or mapping run prints
type report struct {
	Command             string            `json:"command" yaml:"command"`
	RunID               string            `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	DryRun              bool              `json:"dry_run" yaml:"dry_run"`
	Phases              []*phase.Result   `json:"phases" yaml:"phases"`
	ReleaseVersions     map[string]string `json:"release_versions" yaml:"release_versions"`
	DevelopmentVersions map[string]string `json:"development_versions" yaml:"development_versions"`
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML, formatToon:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (must be: text, json, yaml, toon)", format)
	}
}

func newReport(command string, desc *models.ReleaseDescriptor, results []*phase.Result, dryRun bool) *report {
	r := &report{
		Command:             command,
		DryRun:              dryRun,
		Phases:              results,
		ReleaseVersions:     desc.ReleaseVersions,
		DevelopmentVersions: desc.DevelopmentVersions,
	}
	if len(results) > 0 {
		r.RunID = results[0].RunID
	}
	return r
}

func printReport(r *report, format string) error {
	if format != formatText {
		return printEncoded(r, format)
	}

	header := r.Command
	if r.DryRun {
		header += " (dry run)"
	}
	fmt.Fprintln(stdout, header)
	fmt.Fprintln(stdout, strings.Repeat("━", len([]rune(header))))

	for _, p := range r.Phases {
		fmt.Fprintf(stdout, "\n%s: %s\n", p.Phase, p.Code)
		for _, e := range p.Entries {
			marker := " "
			if e.Level == "warn" {
				marker = "!"
			}
			fmt.Fprintf(stdout, " %s %s\n", marker, e.Message)
		}
	}

	printVersionMap("Release versions", r.ReleaseVersions)
	printVersionMap("Development versions", r.DevelopmentVersions)
	return nil
}

func printVersionMap(title string, versions map[string]string) {
	if len(versions) == 0 {
		return
	}

	ids := sortedKeys(versions)
	width := 0
	for _, id := range ids {
		width = max(width, len(id))
	}

	fmt.Fprintf(stdout, "\n%s:\n", title)
	for _, id := range ids {
		fmt.Fprintf(stdout, "  %-*s  %s\n", width, id, versions[id])
	}
}

// printEncoded writes v in one of the machine readable formats
func printEncoded(v any, format string) error {
	switch format {
	case formatJSON:
		output, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(stdout, string(output))
	case formatYAML:
		output, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Fprint(stdout, string(output))
	case formatToon:
		output, err := gotoon.Encode(v)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Fprintln(stdout, output)
	default:
		return validateFormat(format)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

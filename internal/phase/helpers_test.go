package phase

import (
	"errors"
	"path/filepath"

	"github.com/pders01/git-release/internal/logging"
	"github.com/pders01/git-release/internal/models"
	"github.com/pders01/git-release/internal/policy"
)

const testRoot = "/work/reactor"

func newModule(dir, artifact, version string) *models.Module {
	path := filepath.Join(testRoot, dir)
	return &models.Module{
		GroupID:    "com.x",
		ArtifactID: artifact,
		Version:    version,
		Dir:        path,
		File:       filepath.Join(path, models.ManifestName),
	}
}

// newReactor builds app (root) with module-a and module-b below it
func newReactor(rootVersion, aVersion, bVersion string) *models.Reactor {
	return models.NewReactor(
		newModule("", "app", rootVersion),
		newModule("module-a", "module-a", aVersion),
		newModule("module-b", "module-b", bVersion),
	)
}

func batchDescriptor() *models.ReleaseDescriptor {
	d := models.NewReleaseDescriptor()
	d.UpdateWorkingCopyVersions = true
	return d
}

func testOptions(p *scriptedPrompter) Options {
	opts := Options{
		Policies: policy.NewRegistry(),
		Logger:   logging.Discard(),
	}
	if p != nil {
		opts.Prompter = p
	}
	return opts
}

// scriptedPrompter answers from a script; an empty answer selects the default
type scriptedPrompter struct {
	answers  []string
	err      error
	messages []string
	defaults []string
}

func (p *scriptedPrompter) Prompt(message, defaultValue string) (string, error) {
	p.messages = append(p.messages, message)
	p.defaults = append(p.defaults, defaultValue)
	if p.err != nil {
		return "", p.err
	}
	if len(p.answers) == 0 {
		return defaultValue, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

// fixedPolicy always suggests the same versions
type fixedPolicy struct {
	release     string
	development string
}

func (p fixedPolicy) ReleaseVersion(string) (string, error) {
	return p.release, nil
}

func (p fixedPolicy) DevelopmentVersion(string) (string, error) {
	return p.development, nil
}

// strictPolicy only understands numeric versions, recording what it was asked
type strictPolicy struct {
	bases *[]string
}

func (p strictPolicy) ReleaseVersion(base string) (string, error) {
	*p.bases = append(*p.bases, base)
	if base != "1.0" {
		return "", &policy.ParseError{Version: base, Err: errors.New("not numeric")}
	}
	return "1.0", nil
}

func (p strictPolicy) DevelopmentVersion(base string) (string, error) {
	*p.bases = append(*p.bases, base)
	if base != "1.0" {
		return "", &policy.ParseError{Version: base, Err: errors.New("not numeric")}
	}
	return "1.1-SNAPSHOT", nil
}

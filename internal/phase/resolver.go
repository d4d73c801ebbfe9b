package phase

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pders01/git-release/internal/models"
	"github.com/pders01/git-release/internal/policy"
	"github.com/pders01/git-release/internal/prompt"
	"github.com/pders01/git-release/internal/versions"
)

// fallbackBaseVersion is suggested from when the module's own version cannot be parsed
const fallbackBaseVersion = "1.0"

// DefaultMaxAttempts bounds how often the operator is asked for one module
const DefaultMaxAttempts = 10

// Resolver decides the next version of a single module.
type Resolver struct {
	Kind     Kind
	Policies *policy.Registry
	Prompter prompt.Prompter

	// MaxAttempts caps interactive prompts per module; zero means no limit.
	MaxAttempts int

	Logger *slog.Logger
}

// Resolve returns the next version of m. On success the result is a snapshot
// exactly when the phase converts to snapshots, unless the context keeps the
// module's current version untouched.
func (r *Resolver) Resolve(desc *models.ReleaseDescriptor, m *models.Module) (string, error) {
	c := ContextFor(r.Kind, desc.BranchCreation)
	rule := contextRules[c]
	logger := r.logger().With("module", m.ID(), "context", c.String())

	if rule.keepCurrent(desc, m.Version) {
		logger.Debug("keeping current version", "version", m.Version)
		return m.Version, nil
	}

	if desc.Interactive && r.Prompter == nil {
		return "", fmt.Errorf("interactive mode requires a prompter")
	}

	wantSnapshot := r.Kind.ConvertToSnapshot()
	defaultVersion := rule.defaults.lookup(desc, m.ID())
	next := defaultVersion
	suggested, haveSuggestion := "", false
	attempts := 0

	for next == "" || versions.IsSnapshot(next) != wantSnapshot {
		if !haveSuggestion {
			s, err := r.suggest(desc, m)
			if err != nil {
				return "", err
			}
			suggested, haveSuggestion = s, true
			logger.Debug("policy suggestion", "policy", desc.PolicyID(), "version", suggested)
		}

		switch {
		case desc.Interactive:
			if r.MaxAttempts > 0 && attempts >= r.MaxAttempts {
				return "", fmt.Errorf("%w: %d attempts, last answer %q", ErrTooManyAttempts, attempts, next)
			}
			attempts++

			answer, err := r.Prompter.Prompt(promptMessage(c, m), suggested)
			if err != nil {
				return "", fmt.Errorf("%w: %w", ErrPromptFailed, err)
			}
			next = answer

		case defaultVersion == "":
			// policies are trusted to return the right kind, but verify
			if suggested == "" || versions.IsSnapshot(suggested) != wantSnapshot {
				return "", &InvalidVersionError{Version: suggested, ExpectSnapshot: wantSnapshot}
			}
			next = suggested

		default:
			return "", &InvalidVersionError{Version: defaultVersion, ExpectSnapshot: wantSnapshot}
		}
	}

	logger.Debug("resolved version", "version", next)
	return next, nil
}

// suggest asks the configured policy for a proposal. A base version the
// policy cannot parse is replaced by fallbackBaseVersion when the operator
// can still correct the proposal.
func (r *Resolver) suggest(desc *models.ReleaseDescriptor, m *models.Module) (string, error) {
	base := ""
	if r.Kind.ConvertToSnapshot() {
		base = releaseMap.lookup(desc, m.ID())
	}
	if base == "" {
		base = m.Version
	}

	suggested, err := r.suggestFrom(desc, base)
	if err == nil {
		return suggested, nil
	}
	if !errors.Is(err, policy.ErrParse) {
		return "", err
	}
	if !desc.Interactive {
		return "", fmt.Errorf("error parsing version, cannot determine next version: %w", err)
	}

	r.logger().Warn("cannot parse version, suggesting from fallback",
		"module", m.ID(), "version", base, "fallback", fallbackBaseVersion)
	return r.suggestFrom(desc, fallbackBaseVersion)
}

func (r *Resolver) suggestFrom(desc *models.ReleaseDescriptor, base string) (string, error) {
	registry := r.Policies
	if registry == nil {
		registry = policy.DefaultRegistry
	}

	p, err := registry.Get(desc.PolicyID())
	if err != nil {
		return "", err
	}

	if r.Kind.ConvertToSnapshot() {
		return p.DevelopmentVersion(base)
	}
	return p.ReleaseVersion(base)
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func promptMessage(c Context, m *models.Module) string {
	return fmt.Sprintf("What is the %s version for %q? (%s)", c, m.DisplayName(), m.ArtifactID)
}

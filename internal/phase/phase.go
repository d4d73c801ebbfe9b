// Package phase implements the release phases that decide module versions.
//
// The central piece is MapVersions, which walks the reactor and records the
// version each module moves to in the release descriptor. Which version is
// asked for depends on the phase Kind and the descriptor's branch creation
// flag, together the resolution Context:
//
//	Kind            BranchCreation  Context           records into
//	MapRelease      any             release           release map
//	MapBranch       true            branch            release map
//	MapBranch       false           branch            development map
//	MapDevelopment  true            new working copy  development map
//	MapDevelopment  false           new development   development map
//
// Phases run one module at a time. A failing module aborts the phase, and the
// descriptor keeps whatever was recorded before the failure.
package phase

import (
	"context"
	"log/slog"

	"github.com/pders01/git-release/internal/models"
	"github.com/pders01/git-release/internal/policy"
	"github.com/pders01/git-release/internal/prompt"
)

// Phase is one step of a release goal
type Phase interface {
	Name() string
	Execute(ctx context.Context, desc *models.ReleaseDescriptor, reactor *models.Reactor) (*Result, error)
	Simulate(ctx context.Context, desc *models.ReleaseDescriptor, reactor *models.Reactor) (*Result, error)
}

// Options carries the collaborators shared by the phases of a goal
type Options struct {
	Policies    *policy.Registry
	Prompter    prompt.Prompter
	MaxAttempts int
	Logger      *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

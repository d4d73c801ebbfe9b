package phase

import (
	"context"

	"github.com/google/uuid"
	"github.com/pders01/git-release/internal/models"
)

// Goal is a named sequence of phases
type Goal string

const (
	GoalPrepare        Goal = "prepare"
	GoalBranch         Goal = "branch"
	GoalUpdateVersions Goal = "update-versions"
)

// BranchCreation reports whether the goal creates a branch
func (g Goal) BranchCreation() bool {
	return g == GoalBranch
}

// Phases returns the phases of the goal in execution order
func (g Goal) Phases(opts Options) []Phase {
	switch g {
	case GoalBranch:
		return []Phase{
			NewSubmoduleUpdate(opts),
			NewMapVersions(MapBranch, opts),
			NewMapVersions(MapDevelopment, opts),
		}
	case GoalUpdateVersions:
		return []Phase{
			NewMapVersions(MapDevelopment, opts),
		}
	default:
		return []Phase{
			NewSubmoduleUpdate(opts),
			NewMapVersions(MapRelease, opts),
			NewMapVersions(MapDevelopment, opts),
		}
	}
}

// RunGoal runs the goal's phases in order and stops at the first failure.
// The results of all phases run so far are returned, including the failing one.
func RunGoal(ctx context.Context, g Goal, desc *models.ReleaseDescriptor, reactor *models.Reactor, opts Options, dryRun bool) ([]*Result, error) {
	desc.BranchCreation = g.BranchCreation()
	return Run(ctx, g.Phases(opts), desc, reactor, dryRun)
}

// Run runs phases in order under one run id
func Run(ctx context.Context, phases []Phase, desc *models.ReleaseDescriptor, reactor *models.Reactor, dryRun bool) ([]*Result, error) {
	ctx = WithRunID(ctx, uuid.NewString())

	var results []*Result
	for _, p := range phases {
		var (
			result *Result
			err    error
		)
		if dryRun {
			result, err = p.Simulate(ctx, desc, reactor)
		} else {
			result, err = p.Execute(ctx, desc, reactor)
		}
		if result != nil {
			results = append(results, result)
		}
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

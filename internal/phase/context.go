package phase

import (
	"fmt"

	"github.com/pders01/git-release/internal/models"
	"github.com/pders01/git-release/internal/versions"
)

// Kind selects which version-mapping phase runs
type Kind int

const (
	// MapRelease maps modules to their release versions
	MapRelease Kind = iota
	// MapBranch maps modules to the versions used on a new branch
	MapBranch
	// MapDevelopment maps modules to their next development versions
	MapDevelopment
)

// ParseKind converts a command line name into a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "release":
		return MapRelease, nil
	case "branch":
		return MapBranch, nil
	case "development", "dev":
		return MapDevelopment, nil
	default:
		return 0, fmt.Errorf("invalid mapping: %s (must be: release, branch, development)", s)
	}
}

// PhaseName returns the name used in results and logs
func (k Kind) PhaseName() string {
	switch k {
	case MapRelease:
		return "map-release-versions"
	case MapBranch:
		return "map-branch-versions"
	default:
		return "map-development-versions"
	}
}

// ConvertToSnapshot reports whether resolved versions must be snapshots
func (k Kind) ConvertToSnapshot() bool {
	return k != MapRelease
}

// ConvertToBranch reports whether the phase maps branch versions
func (k Kind) ConvertToBranch() bool {
	return k == MapBranch
}

// Context is the resolution context of one phase invocation. It decides which
// overrides are consulted, when the current version is kept, and how the
// operator is asked.
type Context int

const (
	ContextRelease Context = iota
	ContextBranch
	ContextNewWorkingCopy
	ContextNewDevelopment
)

// ContextFor derives the context from the phase kind and the descriptor's
// branch creation flag.
func ContextFor(k Kind, branchCreation bool) Context {
	switch {
	case k.ConvertToBranch():
		return ContextBranch
	case !k.ConvertToSnapshot():
		return ContextRelease
	case branchCreation:
		return ContextNewWorkingCopy
	default:
		return ContextNewDevelopment
	}
}

func (c Context) String() string {
	return contextRules[c].label
}

// versionMap addresses one of the two version maps of a descriptor
type versionMap int

const (
	releaseMap versionMap = iota
	developmentMap
)

// override returns the module's entry in the map, or "" if none
func (v versionMap) override(d *models.ReleaseDescriptor, id string) string {
	if v == releaseMap {
		return d.ProjectReleaseVersion(id)
	}
	return d.ProjectDevelopmentVersion(id)
}

// lookup returns the module's entry, falling back to the descriptor default
func (v versionMap) lookup(d *models.ReleaseDescriptor, id string) string {
	if version := v.override(d, id); version != "" {
		return version
	}
	if v == releaseMap {
		return d.DefaultReleaseVersion
	}
	return d.DefaultDevelopmentVersion
}

func (v versionMap) add(d *models.ReleaseDescriptor, id, version string) {
	if v == releaseMap {
		d.AddReleaseVersion(id, version)
		return
	}
	d.AddDevelopmentVersion(id, version)
}

func (v versionMap) String() string {
	if v == releaseMap {
		return "release"
	}
	return "development"
}

// recordTarget returns the map a phase writes its results into
func recordTarget(k Kind, branchCreation bool) versionMap {
	if !k.ConvertToSnapshot() || (branchCreation && k.ConvertToBranch()) {
		return releaseMap
	}
	return developmentMap
}

type contextRule struct {
	label       string
	defaults    versionMap
	keepCurrent func(d *models.ReleaseDescriptor, current string) bool
}

var contextRules = map[Context]contextRule{
	ContextBranch: {
		label:    "branch",
		defaults: releaseMap,
		keepCurrent: func(d *models.ReleaseDescriptor, current string) bool {
			return !(d.UpdateBranchVersions && (versions.IsSnapshot(current) || d.UpdateVersionsToSnapshot))
		},
	},
	ContextRelease: {
		label:       "release",
		defaults:    releaseMap,
		keepCurrent: func(*models.ReleaseDescriptor, string) bool { return false },
	},
	ContextNewWorkingCopy: {
		label:    "new working copy",
		defaults: developmentMap,
		keepCurrent: func(d *models.ReleaseDescriptor, current string) bool {
			return !(versions.IsSnapshot(current) && d.UpdateWorkingCopyVersions)
		},
	},
	ContextNewDevelopment: {
		label:    "new development",
		defaults: developmentMap,
		keepCurrent: func(d *models.ReleaseDescriptor, _ string) bool {
			return !d.UpdateWorkingCopyVersions
		},
	},
}

package policy

import (
	"fmt"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"github.com/pders01/git-release/internal/versions"
)

// Built-in policy ids
const (
	DefaultID = "default"
	SemVerID  = "semver"
)

// DefaultPolicy releases the snapshot as-is and moves development on by
// incrementing the last number of the version:
//
//	1.0-SNAPSHOT  -> release 1.0, development 1.1-SNAPSHOT
//	1.0-beta-1    -> release 1.0-beta-1, development 1.0-beta-2-SNAPSHOT
type DefaultPolicy struct{}

func (DefaultPolicy) ReleaseVersion(base string) (string, error) {
	if _, err := parse(base); err != nil {
		return "", err
	}
	return versions.ReleaseString(base), nil
}

func (DefaultPolicy) DevelopmentVersion(base string) (string, error) {
	release := versions.ReleaseString(base)
	v, err := parse(release)
	if err != nil {
		return "", err
	}

	next, err := incrementLast(release, v)
	if err != nil {
		return "", &ParseError{Version: base, Err: err}
	}
	return versions.SnapshotString(next), nil
}

// SemVerPolicy normalizes releases to MAJOR.MINOR.PATCH and starts the next
// minor version for development.
type SemVerPolicy struct{}

func (SemVerPolicy) ReleaseVersion(base string) (string, error) {
	segs, err := semverSegments(base)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d.%d.%d", segs[0], segs[1], segs[2]), nil
}

func (SemVerPolicy) DevelopmentVersion(base string) (string, error) {
	segs, err := semverSegments(base)
	if err != nil {
		return "", err
	}
	return versions.SnapshotString(fmt.Sprintf("%d.%d.0", segs[0], segs[1]+1)), nil
}

func parse(raw string) (*goversion.Version, error) {
	if raw == "" {
		return nil, &ParseError{Version: raw}
	}
	v, err := goversion.NewVersion(raw)
	if err != nil {
		return nil, &ParseError{Version: raw, Err: err}
	}
	return v, nil
}

func semverSegments(raw string) ([]int, error) {
	v, err := goversion.NewSemver(versions.ReleaseString(raw))
	if err != nil {
		return nil, &ParseError{Version: raw, Err: err}
	}
	// go-version pads segments to at least three
	return v.Segments(), nil
}

// incrementLast bumps the trailing number of the qualifier when it has one
// (beta-1 -> beta-2), otherwise the last numeric segment of the core version.
func incrementLast(release string, v *goversion.Version) (string, error) {
	core, qualifier, hasQualifier := strings.Cut(release, "-")

	if hasQualifier {
		i := len(qualifier)
		for i > 0 && qualifier[i-1] >= '0' && qualifier[i-1] <= '9' {
			i--
		}
		if i < len(qualifier) {
			n, err := strconv.Atoi(qualifier[i:])
			if err != nil {
				return "", err
			}
			return core + "-" + qualifier[:i] + strconv.Itoa(n+1), nil
		}
	}

	segs := v.Segments()
	count := strings.Count(core, ".") + 1
	if count > len(segs) {
		return "", fmt.Errorf("unexpected segment count in %q", core)
	}

	prefix := ""
	if idx := strings.LastIndex(core, "."); idx >= 0 {
		prefix = core[:idx+1]
	} else if strings.HasPrefix(core, "v") {
		prefix = "v"
	}

	next := prefix + strconv.Itoa(segs[count-1]+1)
	if hasQualifier {
		next += "-" + qualifier
	}
	return next, nil
}

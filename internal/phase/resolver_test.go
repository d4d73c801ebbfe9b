package phase

import (
	"errors"
	"testing"
	"time"

	"github.com/pders01/git-release/internal/logging"
	"github.com/pders01/git-release/internal/models"
	"github.com/pders01/git-release/internal/policy"
	"github.com/pders01/git-release/internal/versions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(kind Kind, p *scriptedPrompter) *Resolver {
	r := &Resolver{
		Kind:        kind,
		Policies:    policy.NewRegistry(),
		MaxAttempts: DefaultMaxAttempts,
		Logger:      logging.Discard(),
	}
	if p != nil {
		r.Prompter = p
	}
	return r
}

func TestContextFor(t *testing.T) {
	tests := []struct {
		kind           Kind
		branchCreation bool
		want           Context
		label          string
	}{
		{MapRelease, false, ContextRelease, "release"},
		{MapRelease, true, ContextRelease, "release"},
		{MapBranch, true, ContextBranch, "branch"},
		{MapBranch, false, ContextBranch, "branch"},
		{MapDevelopment, true, ContextNewWorkingCopy, "new working copy"},
		{MapDevelopment, false, ContextNewDevelopment, "new development"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			c := ContextFor(tt.kind, tt.branchCreation)
			assert.Equal(t, tt.want, c)
			assert.Equal(t, tt.label, c.String())
		})
	}
}

func TestRecordTarget(t *testing.T) {
	assert.Equal(t, releaseMap, recordTarget(MapRelease, false))
	assert.Equal(t, releaseMap, recordTarget(MapRelease, true))
	assert.Equal(t, releaseMap, recordTarget(MapBranch, true))
	assert.Equal(t, developmentMap, recordTarget(MapBranch, false))
	assert.Equal(t, developmentMap, recordTarget(MapDevelopment, true))
	assert.Equal(t, developmentMap, recordTarget(MapDevelopment, false))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("branch")
	require.NoError(t, err)
	assert.Equal(t, MapBranch, k)
	assert.Equal(t, "map-branch-versions", k.PhaseName())

	_, err = ParseKind("hotfix")
	assert.Error(t, err)
}

// Every context, when it resolves, yields the snapshot-ness its kind asks for.
func TestResolve_PolarityPerContext(t *testing.T) {
	tests := []struct {
		name           string
		kind           Kind
		branchCreation bool
		current        string
		want           string
	}{
		{"release", MapRelease, false, "1.0-SNAPSHOT", "1.0"},
		{"branch", MapBranch, true, "1.0-SNAPSHOT", "1.1-SNAPSHOT"},
		{"new working copy", MapDevelopment, true, "1.0-SNAPSHOT", "1.1-SNAPSHOT"},
		{"new development", MapDevelopment, false, "1.0-SNAPSHOT", "1.1-SNAPSHOT"},
		{"new development from release", MapDevelopment, false, "2.3", "2.4-SNAPSHOT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := batchDescriptor()
			d.BranchCreation = tt.branchCreation
			d.UpdateBranchVersions = true

			got, err := newResolver(tt.kind, nil).Resolve(d, newModule("", "app", tt.current))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.kind.ConvertToSnapshot(), versions.IsSnapshot(got))
		})
	}
}

func TestResolve_KeepsCurrentVersion(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		setup   func(d *models.ReleaseDescriptor)
		current string
	}{
		{
			name:    "branch without branch updates",
			kind:    MapBranch,
			setup:   func(d *models.ReleaseDescriptor) { d.BranchCreation = true },
			current: "1.0-SNAPSHOT",
		},
		{
			name: "branch of a release without update to snapshot",
			kind: MapBranch,
			setup: func(d *models.ReleaseDescriptor) {
				d.BranchCreation = true
				d.UpdateBranchVersions = true
			},
			current: "1.0",
		},
		{
			name:    "new working copy of a released module",
			kind:    MapDevelopment,
			setup:   func(d *models.ReleaseDescriptor) { d.BranchCreation = true },
			current: "1.0",
		},
		{
			name: "new working copy without working copy updates",
			kind: MapDevelopment,
			setup: func(d *models.ReleaseDescriptor) {
				d.BranchCreation = true
				d.UpdateWorkingCopyVersions = false
			},
			current: "1.0-SNAPSHOT",
		},
		{
			name:    "new development without working copy updates",
			kind:    MapDevelopment,
			setup:   func(d *models.ReleaseDescriptor) { d.UpdateWorkingCopyVersions = false },
			current: "1.0-SNAPSHOT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := batchDescriptor()
			// an unknown policy proves no suggestion was requested
			d.VersionPolicyID = "unregistered"
			tt.setup(d)

			got, err := newResolver(tt.kind, nil).Resolve(d, newModule("", "app", tt.current))
			require.NoError(t, err)
			assert.Equal(t, tt.current, got)
		})
	}
}

func TestResolve_BranchUpdateToSnapshot(t *testing.T) {
	d := batchDescriptor()
	d.BranchCreation = true
	d.UpdateBranchVersions = true
	d.UpdateVersionsToSnapshot = true

	got, err := newResolver(MapBranch, nil).Resolve(d, newModule("", "app", "1.0"))
	require.NoError(t, err)
	assert.Equal(t, "1.1-SNAPSHOT", got)
}

func TestResolve_UsesValidDefaultWithoutPolicy(t *testing.T) {
	d := batchDescriptor()
	d.VersionPolicyID = "unregistered"
	d.DefaultReleaseVersion = "3.0"
	d.AddReleaseVersion("com.x:override", "4.0")

	r := newResolver(MapRelease, nil)

	got, err := r.Resolve(d, newModule("", "app", "1.0-SNAPSHOT"))
	require.NoError(t, err)
	assert.Equal(t, "3.0", got)

	got, err = r.Resolve(d, newModule("o", "override", "1.0-SNAPSHOT"))
	require.NoError(t, err)
	assert.Equal(t, "4.0", got, "module override wins over the default")
}

func TestResolve_InvalidDefault(t *testing.T) {
	t.Run("release expects a non-snapshot", func(t *testing.T) {
		d := batchDescriptor()
		d.DefaultReleaseVersion = "2.0-SNAPSHOT"

		_, err := newResolver(MapRelease, nil).Resolve(d, newModule("", "app", "1.0-SNAPSHOT"))
		require.Error(t, err)

		var invalid *InvalidVersionError
		require.True(t, errors.As(err, &invalid))
		assert.False(t, invalid.ExpectSnapshot)
		assert.Equal(t, "2.0-SNAPSHOT is invalid, expected a non-snapshot", err.Error())
	})

	t.Run("development expects a snapshot", func(t *testing.T) {
		d := batchDescriptor()
		d.AddDevelopmentVersion("com.x:app", "1.1")

		_, err := newResolver(MapDevelopment, nil).Resolve(d, newModule("", "app", "1.0-SNAPSHOT"))
		require.Error(t, err)
		assert.Equal(t, "1.1 is invalid, expected a snapshot", err.Error())
	})
}

func TestResolve_DevelopmentBaseIsReleaseVersion(t *testing.T) {
	var bases []string
	reg := policy.NewRegistry()
	reg.Register("strict", strictPolicy{bases: &bases})

	d := batchDescriptor()
	d.VersionPolicyID = "strict"
	d.AddReleaseVersion("com.x:app", "1.0")

	r := newResolver(MapDevelopment, nil)
	r.Policies = reg

	got, err := r.Resolve(d, newModule("", "app", "1.0-SNAPSHOT"))
	require.NoError(t, err)
	assert.Equal(t, "1.1-SNAPSHOT", got)
	assert.Equal(t, []string{"1.0"}, bases)
}

func TestResolve_ParseFailure(t *testing.T) {
	t.Run("batch mode fails", func(t *testing.T) {
		d := batchDescriptor()

		_, err := newResolver(MapRelease, nil).Resolve(d, newModule("", "app", "trunk"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, policy.ErrParse))
		assert.Contains(t, err.Error(), "error parsing version, cannot determine next version")
		assert.Contains(t, err.Error(), "trunk")
	})

	t.Run("interactive mode suggests from the fallback version", func(t *testing.T) {
		var bases []string
		reg := policy.NewRegistry()
		reg.Register("strict", strictPolicy{bases: &bases})

		d := batchDescriptor()
		d.Interactive = true
		d.VersionPolicyID = "strict"

		p := &scriptedPrompter{}
		r := newResolver(MapRelease, p)
		r.Policies = reg

		got, err := r.Resolve(d, newModule("", "app", "trunk"))
		require.NoError(t, err)
		assert.Equal(t, "1.0", got)
		assert.Equal(t, []string{"trunk", "1.0"}, bases)
		assert.Equal(t, []string{"1.0"}, p.defaults)
	})
}

func TestResolve_UnknownPolicy(t *testing.T) {
	d := batchDescriptor()
	d.VersionPolicyID = "custom-policy"

	_, err := newResolver(MapRelease, nil).Resolve(d, newModule("", "app", "1.0-SNAPSHOT"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, policy.ErrNotFound))
	assert.Contains(t, err.Error(), "custom-policy")
	assert.Contains(t, err.Error(), "default, semver")
}

func TestResolve_WrongPolaritySuggestion(t *testing.T) {
	reg := policy.NewRegistry()
	reg.Register("broken", fixedPolicy{release: "1.0-SNAPSHOT", development: "1.1"})

	d := batchDescriptor()
	d.VersionPolicyID = "broken"

	r := newResolver(MapRelease, nil)
	r.Policies = reg

	_, err := r.Resolve(d, newModule("", "app", "1.0-SNAPSHOT"))
	var invalid *InvalidVersionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "1.0-SNAPSHOT", invalid.Version)
}

func TestResolve_EmptySuggestion(t *testing.T) {
	reg := policy.NewRegistry()
	reg.Register("empty", fixedPolicy{})

	for _, kind := range []Kind{MapRelease, MapDevelopment} {
		t.Run(kind.PhaseName(), func(t *testing.T) {
			d := batchDescriptor()
			d.VersionPolicyID = "empty"

			r := newResolver(kind, nil)
			r.Policies = reg

			done := make(chan error, 1)
			go func() {
				_, err := r.Resolve(d, newModule("", "app", "1.0-SNAPSHOT"))
				done <- err
			}()

			select {
			case err := <-done:
				var invalid *InvalidVersionError
				require.True(t, errors.As(err, &invalid))
				assert.Empty(t, invalid.Version)
				assert.Contains(t, err.Error(), "empty version")
			case <-time.After(2 * time.Second):
				t.Fatal("Resolve did not return for an empty policy suggestion")
			}
		})
	}
}

func TestResolve_InteractiveEmptySuggestion(t *testing.T) {
	reg := policy.NewRegistry()
	reg.Register("empty", fixedPolicy{})

	d := batchDescriptor()
	d.Interactive = true
	d.VersionPolicyID = "empty"

	p := &scriptedPrompter{answers: []string{"", "2.0"}}
	r := newResolver(MapRelease, p)
	r.Policies = reg

	got, err := r.Resolve(d, newModule("", "app", "1.0-SNAPSHOT"))
	require.NoError(t, err)
	assert.Equal(t, "2.0", got)
	assert.Equal(t, []string{"", ""}, p.defaults, "the policy is asked once")
}

func TestResolve_Interactive(t *testing.T) {
	t.Run("prompts until the answer has the right kind", func(t *testing.T) {
		d := batchDescriptor()
		d.Interactive = true

		p := &scriptedPrompter{answers: []string{"2.0-SNAPSHOT", "2.0"}}
		m := newModule("", "app", "1.0-SNAPSHOT")
		m.Name = "The App"

		got, err := newResolver(MapRelease, p).Resolve(d, m)
		require.NoError(t, err)
		assert.Equal(t, "2.0", got)
		require.Len(t, p.messages, 2)
		assert.Equal(t, `What is the release version for "The App"? (app)`, p.messages[0], "messages carry no styling")
		assert.Equal(t, []string{"1.0", "1.0"}, p.defaults)
	})

	t.Run("invalid default is corrected by the operator", func(t *testing.T) {
		d := batchDescriptor()
		d.Interactive = true
		d.DefaultReleaseVersion = "2.0-SNAPSHOT"

		p := &scriptedPrompter{}
		got, err := newResolver(MapRelease, p).Resolve(d, newModule("", "app", "1.0-SNAPSHOT"))
		require.NoError(t, err)
		assert.Equal(t, "1.0", got)
	})

	t.Run("valid default is not prompted", func(t *testing.T) {
		d := batchDescriptor()
		d.Interactive = true
		d.DefaultReleaseVersion = "2.0"

		p := &scriptedPrompter{}
		got, err := newResolver(MapRelease, p).Resolve(d, newModule("", "app", "1.0-SNAPSHOT"))
		require.NoError(t, err)
		assert.Equal(t, "2.0", got)
		assert.Empty(t, p.messages)
	})

	t.Run("prompt failure is fatal", func(t *testing.T) {
		d := batchDescriptor()
		d.Interactive = true

		p := &scriptedPrompter{err: errors.New("stdin closed")}
		_, err := newResolver(MapRelease, p).Resolve(d, newModule("", "app", "1.0-SNAPSHOT"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrPromptFailed))
		assert.Contains(t, err.Error(), "stdin closed")
	})

	t.Run("attempts are capped", func(t *testing.T) {
		d := batchDescriptor()
		d.Interactive = true

		p := &scriptedPrompter{answers: []string{"x-SNAPSHOT", "y-SNAPSHOT", "z-SNAPSHOT"}}
		r := newResolver(MapRelease, p)
		r.MaxAttempts = 2

		_, err := r.Resolve(d, newModule("", "app", "1.0-SNAPSHOT"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTooManyAttempts))
		assert.Len(t, p.messages, 2)
	})

	t.Run("missing prompter", func(t *testing.T) {
		d := batchDescriptor()
		d.Interactive = true

		_, err := newResolver(MapRelease, nil).Resolve(d, newModule("", "app", "1.0-SNAPSHOT"))
		assert.Error(t, err)
	})
}

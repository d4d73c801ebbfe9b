package models

// DefaultPolicyID is the version policy used when none is configured
const DefaultPolicyID = "default"

// ReleaseDescriptor holds the configuration of a release together with the
// versions decided for each module, keyed by module id.
type ReleaseDescriptor struct {
	AutoVersionSubmodules     bool     `toml:"auto_version_submodules" json:"auto_version_submodules" yaml:"auto_version_submodules"`
	BranchCreation            bool     `toml:"branch_creation" json:"branch_creation" yaml:"branch_creation"`
	Interactive               bool     `toml:"interactive" json:"interactive" yaml:"interactive"`
	UpdateBranchVersions      bool     `toml:"update_branch_versions" json:"update_branch_versions" yaml:"update_branch_versions"`
	UpdateWorkingCopyVersions bool     `toml:"update_working_copy_versions" json:"update_working_copy_versions" yaml:"update_working_copy_versions"`
	UpdateVersionsToSnapshot  bool     `toml:"update_versions_to_snapshot" json:"update_versions_to_snapshot" yaml:"update_versions_to_snapshot"`
	DefaultReleaseVersion     string   `toml:"default_release_version,omitempty" json:"default_release_version,omitempty" yaml:"default_release_version,omitempty"`
	DefaultDevelopmentVersion string   `toml:"default_development_version,omitempty" json:"default_development_version,omitempty" yaml:"default_development_version,omitempty"`
	VersionPolicyID           string   `toml:"policy,omitempty" json:"policy,omitempty" yaml:"policy,omitempty"`
	CheckModificationExcludes []string `toml:"excludes,omitempty" json:"excludes,omitempty" yaml:"excludes,omitempty"`
	AdditionalArguments       string   `toml:"additional_arguments,omitempty" json:"additional_arguments,omitempty" yaml:"additional_arguments,omitempty"`
	CheckoutDirectory         string   `toml:"checkout_directory,omitempty" json:"checkout_directory,omitempty" yaml:"checkout_directory,omitempty"`

	ReleaseVersions     map[string]string `toml:"-" json:"release_versions" yaml:"release_versions"`
	DevelopmentVersions map[string]string `toml:"-" json:"development_versions" yaml:"development_versions"`
}

// NewReleaseDescriptor returns a descriptor with empty version maps and the
// default policy selected.
func NewReleaseDescriptor() *ReleaseDescriptor {
	return &ReleaseDescriptor{
		VersionPolicyID:     DefaultPolicyID,
		ReleaseVersions:     make(map[string]string),
		DevelopmentVersions: make(map[string]string),
	}
}

// AddReleaseVersion records the release version of a module
func (d *ReleaseDescriptor) AddReleaseVersion(id, version string) {
	if d.ReleaseVersions == nil {
		d.ReleaseVersions = make(map[string]string)
	}
	d.ReleaseVersions[id] = version
}

// AddDevelopmentVersion records the next development version of a module
func (d *ReleaseDescriptor) AddDevelopmentVersion(id, version string) {
	if d.DevelopmentVersions == nil {
		d.DevelopmentVersions = make(map[string]string)
	}
	d.DevelopmentVersions[id] = version
}

// ProjectReleaseVersion returns the recorded release version, or "" if none
func (d *ReleaseDescriptor) ProjectReleaseVersion(id string) string {
	return d.ReleaseVersions[id]
}

// ProjectDevelopmentVersion returns the recorded development version, or "" if none
func (d *ReleaseDescriptor) ProjectDevelopmentVersion(id string) string {
	return d.DevelopmentVersions[id]
}

// PolicyID returns the configured version policy, defaulting to DefaultPolicyID
func (d *ReleaseDescriptor) PolicyID() string {
	if d.VersionPolicyID == "" {
		return DefaultPolicyID
	}
	return d.VersionPolicyID
}

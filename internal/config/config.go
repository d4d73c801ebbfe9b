package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pders01/git-release/internal/models"
	"github.com/pders01/git-release/internal/store"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. GIT_RELEASE_RELEASE_POLICY
const EnvPrefix = "GIT_RELEASE"

// Settings is the [release] table of the configuration
type Settings struct {
	Policy                    string   `mapstructure:"policy"`
	Interactive               bool     `mapstructure:"interactive"`
	AutoVersionSubmodules     bool     `mapstructure:"auto_version_submodules"`
	UpdateBranchVersions      bool     `mapstructure:"update_branch_versions"`
	UpdateWorkingCopyVersions bool     `mapstructure:"update_working_copy_versions"`
	UpdateVersionsToSnapshot  bool     `mapstructure:"update_versions_to_snapshot"`
	DefaultReleaseVersion     string   `mapstructure:"default_release_version"`
	DefaultDevelopmentVersion string   `mapstructure:"default_development_version"`
	Excludes                  []string `mapstructure:"excludes"`
	AdditionalArguments       string   `mapstructure:"additional_arguments"`
	CheckoutDirectory         string   `mapstructure:"checkout_directory"`
	StateFile                 string   `mapstructure:"state_file"`
}

// SetDefaults registers the default value of every known key
func SetDefaults() {
	viper.SetDefault("release.policy", models.DefaultPolicyID)
	viper.SetDefault("release.interactive", true)
	viper.SetDefault("release.auto_version_submodules", false)
	viper.SetDefault("release.update_branch_versions", false)
	viper.SetDefault("release.update_working_copy_versions", true)
	viper.SetDefault("release.update_versions_to_snapshot", false)
	viper.SetDefault("release.default_release_version", "")
	viper.SetDefault("release.default_development_version", "")
	viper.SetDefault("release.excludes", []string{})
	viper.SetDefault("release.additional_arguments", "")
	viper.SetDefault("release.checkout_directory", "")
	viper.SetDefault("release.state_file", store.DefaultFile)
	viper.SetDefault("prompt.max_attempts", 10)
	viper.SetDefault("prompt.terminal", true)
	viper.SetDefault("log.level", "warn")
	viper.SetDefault("log.json", false)
	viper.SetDefault("output.format", "text")
}

// BindEnv makes every key overridable from GIT_RELEASE_* variables
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load decodes the [release] table. Excludes may be given as a list or
// as one comma separated string, as environment variables are.
func Load() (*Settings, error) {
	var cfg struct {
		Release Settings `mapstructure:"release"`
	}

	hook := viper.DecodeHook(mapstructure.StringToSliceHookFunc(","))
	if err := viper.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to decode release settings: %w", err)
	}
	return &cfg.Release, nil
}

// Descriptor builds a release descriptor from the settings
func (s *Settings) Descriptor() *models.ReleaseDescriptor {
	d := models.NewReleaseDescriptor()
	d.VersionPolicyID = s.Policy
	d.Interactive = s.Interactive
	d.AutoVersionSubmodules = s.AutoVersionSubmodules
	d.UpdateBranchVersions = s.UpdateBranchVersions
	d.UpdateWorkingCopyVersions = s.UpdateWorkingCopyVersions
	d.UpdateVersionsToSnapshot = s.UpdateVersionsToSnapshot
	d.DefaultReleaseVersion = s.DefaultReleaseVersion
	d.DefaultDevelopmentVersion = s.DefaultDevelopmentVersion
	d.CheckModificationExcludes = s.Excludes
	d.AdditionalArguments = s.AdditionalArguments
	d.CheckoutDirectory = s.CheckoutDirectory
	return d
}

// GetPolicy returns the selected version policy id
func GetPolicy() string {
	return viper.GetString("release.policy")
}

// GetStateFile returns the release state file, relative to the reactor root
func GetStateFile() string {
	return viper.GetString("release.state_file")
}

// GetMaxAttempts returns how often a prompt is repeated before giving up
func GetMaxAttempts() int {
	return viper.GetInt("prompt.max_attempts")
}

// GetTerminalPrompt reports whether prompts may take over the terminal
func GetTerminalPrompt() bool {
	return viper.GetBool("prompt.terminal")
}

// GetLogLevel returns the configured log level name
func GetLogLevel() string {
	return viper.GetString("log.level")
}

// GetLogJSON reports whether logs are written as JSON
func GetLogJSON() bool {
	return viper.GetBool("log.json")
}

// GetOutputFormat returns the format used to print results
func GetOutputFormat() string {
	return viper.GetString("output.format")
}

// Default is the configuration written by `git-release init`
const Default = `[release]
policy = "default"
interactive = true
auto_version_submodules = false
update_branch_versions = false
update_working_copy_versions = true
update_versions_to_snapshot = false
excludes = []
state_file = "release.toml"

[prompt]
max_attempts = 10
terminal = true

[log]
level = "warn"
json = false

[output]
format = "text"
`

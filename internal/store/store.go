package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pders01/git-release/internal/models"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

// DefaultFile is the state file name inside the reactor root
const DefaultFile = "release.toml"

type versionTables struct {
	Release     map[string]any `toml:"release"`
	Development map[string]any `toml:"development"`
}

type stateFile struct {
	Release  *models.ReleaseDescriptor `toml:"release"`
	Versions versionTables             `toml:"versions"`
}

// Load reads the release state at path. A missing file yields an empty
// descriptor.
func Load(fs afero.Fs, path string) (*models.ReleaseDescriptor, error) {
	desc := models.NewReleaseDescriptor()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return desc, nil
		}
		return nil, fmt.Errorf("failed to read release state: %w", err)
	}

	state := stateFile{Release: desc}
	if _, err := toml.Decode(string(data), &state); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if desc.ReleaseVersions, err = stringMap(state.Versions.Release); err != nil {
		return nil, fmt.Errorf("%s: versions.release: %w", path, err)
	}
	if desc.DevelopmentVersions, err = stringMap(state.Versions.Development); err != nil {
		return nil, fmt.Errorf("%s: versions.development: %w", path, err)
	}
	return desc, nil
}

// Save writes desc to path, creating parent directories as needed
func Save(fs afero.Fs, path string, desc *models.ReleaseDescriptor) error {
	state := stateFile{
		Release: desc,
		Versions: versionTables{
			Release:     anyMap(desc.ReleaseVersions),
			Development: anyMap(desc.DevelopmentVersions),
		},
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(state); err != nil {
		return fmt.Errorf("failed to encode release state: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write release state: %w", err)
	}
	return nil
}

// Merge copies the versions recorded in state into base. Entries already
// present in base are kept, so explicit overrides win over stored ones.
func Merge(base, state *models.ReleaseDescriptor) {
	if state == nil {
		return
	}
	for id, v := range state.ReleaseVersions {
		if base.ProjectReleaseVersion(id) == "" {
			base.AddReleaseVersion(id, v)
		}
	}
	for id, v := range state.DevelopmentVersions {
		if base.ProjectDevelopmentVersion(id) == "" {
			base.AddDevelopmentVersion(id, v)
		}
	}
}

// stringMap coerces hand edited values such as `"g:a" = 2` to strings
func stringMap(in map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(in))
	for id, v := range in {
		if _, ok := v.(float64); ok {
			return nil, fmt.Errorf("%s: %v must be quoted", id, v)
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		out[id] = s
	}
	return out, nil
}

func anyMap(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for id, v := range in {
		out[id] = v
	}
	return out
}

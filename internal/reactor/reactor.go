package reactor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pders01/git-release/internal/models"
	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

// ErrDuplicateModule is returned when two manifests declare the same id
var ErrDuplicateModule = errors.New("duplicate module")

// manifest mirrors module.toml
type manifest struct {
	Group    string   `toml:"group"`
	Artifact string   `toml:"artifact"`
	Version  any      `toml:"version"`
	Name     string   `toml:"name"`
	Modules  []string `toml:"modules"`
}

// Load reads the reactor rooted at rootDir. Modules are returned depth
// first, root first, children in declaration order. A child without a
// group or version inherits them from its parent.
func Load(fs afero.Fs, rootDir string) (*models.Reactor, error) {
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", rootDir, err)
	}

	root, err := readModule(fs, rootDir, nil)
	if err != nil {
		return nil, err
	}

	r := models.NewReactor(root)
	seen := map[string]string{root.ID(): root.File}
	if err := loadChildren(fs, r, root, seen); err != nil {
		return nil, err
	}
	return r, nil
}

func loadChildren(fs afero.Fs, r *models.Reactor, parent *models.Module, seen map[string]string) error {
	if len(parent.Modules) == 0 {
		return nil
	}

	// Siblings are independent, parse them in parallel
	children, err := iter.MapErr(parent.Modules, func(name *string) (*models.Module, error) {
		return readModule(fs, filepath.Join(parent.Dir, filepath.FromSlash(*name)), parent)
	})
	if err != nil {
		return err
	}

	for _, child := range children {
		if other, ok := seen[child.ID()]; ok {
			return fmt.Errorf("%w: %s declared by %s and %s", ErrDuplicateModule, child.ID(), other, child.File)
		}
		seen[child.ID()] = child.File
		r.Modules = append(r.Modules, child)

		if err := loadChildren(fs, r, child, seen); err != nil {
			return err
		}
	}
	return nil
}

func readModule(fs afero.Fs, dir string, parent *models.Module) (*models.Module, error) {
	file := filepath.Join(dir, models.ManifestName)

	data, err := afero.ReadFile(fs, file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no %s in %s", models.ManifestName, dir)
		}
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	var mf manifest
	if err := toml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}

	version, err := manifestVersion(mf.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid version in %s: %w", file, err)
	}

	m := &models.Module{
		GroupID:    mf.Group,
		ArtifactID: mf.Artifact,
		Name:       mf.Name,
		Version:    version,
		Dir:        dir,
		File:       file,
		Modules:    mf.Modules,
	}
	if parent != nil {
		if m.GroupID == "" {
			m.GroupID = parent.GroupID
		}
		if m.Version == "" {
			m.Version = parent.Version
		}
	}

	if m.GroupID == "" || m.ArtifactID == "" {
		return nil, fmt.Errorf("%s: group and artifact are required", file)
	}
	if m.Version == "" {
		return nil, fmt.Errorf("%s: version is required", file)
	}
	return m, nil
}

// manifestVersion accepts bare integers (version = 2) but not floats,
// which would lose trailing zeros.
func manifestVersion(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case float64:
		return "", fmt.Errorf("%v must be quoted", v)
	default:
		return cast.ToStringE(v)
	}
}

package models

import (
	"fmt"
	"path/filepath"
)

// ManifestName is the file describing a module inside its directory
const ManifestName = "module.toml"

// Module represents one project of the reactor
type Module struct {
	GroupID    string
	ArtifactID string
	Name       string
	Version    string
	Dir        string
	File       string
	Modules    []string
}

// ID returns the version-less key of the module: group:artifact
func (m *Module) ID() string {
	return m.GroupID + ":" + m.ArtifactID
}

// DisplayName returns the human readable name, falling back to the artifact id
func (m *Module) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ArtifactID
}

func (m *Module) String() string {
	return fmt.Sprintf("%s:%s", m.ID(), m.Version)
}

// Reactor is the ordered set of modules taking part in one release.
// The root module is always first.
type Reactor struct {
	Modules []*Module
}

// NewReactor creates a reactor with root as its first module
func NewReactor(root *Module, modules ...*Module) *Reactor {
	return &Reactor{Modules: append([]*Module{root}, modules...)}
}

// Root returns the root module, or nil for an empty reactor
func (r *Reactor) Root() *Module {
	if len(r.Modules) == 0 {
		return nil
	}
	return r.Modules[0]
}

// Find returns the module with the given id
func (r *Reactor) Find(id string) (*Module, bool) {
	for _, m := range r.Modules {
		if m.ID() == id {
			return m, true
		}
	}
	return nil, false
}

// RelativePath returns the path of a module's manifest relative to the root
// module's directory, using forward slashes.
func (r *Reactor) RelativePath(m *Module) (string, error) {
	root := r.Root()
	if root == nil {
		return "", fmt.Errorf("empty reactor")
	}
	rel, err := filepath.Rel(root.Dir, m.File)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s: %w", m.File, err)
	}
	return filepath.ToSlash(rel), nil
}

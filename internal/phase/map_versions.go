package phase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pders01/git-release/internal/exclude"
	"github.com/pders01/git-release/internal/models"
	"github.com/pders01/git-release/internal/versions"
)

// MapVersions records the next version of every reactor module.
//
// With auto-versioned submodules and a snapshot root, the root's next version
// is resolved once and shared by all modules (synchronized mode). Otherwise
// each module not excluded by the descriptor's patterns is resolved on its own.
type MapVersions struct {
	kind     Kind
	resolver *Resolver
	logger   *slog.Logger
}

// NewMapVersions creates the mapping phase of the given kind
func NewMapVersions(kind Kind, opts Options) *MapVersions {
	return &MapVersions{
		kind: kind,
		resolver: &Resolver{
			Kind:        kind,
			Policies:    opts.Policies,
			Prompter:    opts.Prompter,
			MaxAttempts: opts.MaxAttempts,
			Logger:      opts.logger(),
		},
		logger: opts.logger(),
	}
}

func (p *MapVersions) Name() string {
	return p.kind.PhaseName()
}

func (p *MapVersions) Execute(ctx context.Context, desc *models.ReleaseDescriptor, reactor *models.Reactor) (*Result, error) {
	result := newResult(ctx, p.Name(), p.logger)

	root := reactor.Root()
	if root == nil {
		return result, &ExecutionError{Phase: p.Name(), Err: fmt.Errorf("reactor has no modules")}
	}

	var err error
	if desc.AutoVersionSubmodules && versions.IsSnapshot(root.Version) {
		err = p.mapSynchronized(desc, reactor, result)
	} else {
		err = p.mapEach(desc, reactor, result)
	}
	if err != nil {
		return result, err
	}

	result.Code = CodeSuccess
	return result, nil
}

// Simulate is Execute: the phase only changes the descriptor.
func (p *MapVersions) Simulate(ctx context.Context, desc *models.ReleaseDescriptor, reactor *models.Reactor) (*Result, error) {
	return p.Execute(ctx, desc, reactor)
}

func (p *MapVersions) mapSynchronized(desc *models.ReleaseDescriptor, reactor *models.Reactor, result *Result) error {
	root := reactor.Root()
	target := recordTarget(p.kind, desc.BranchCreation)

	next, err := p.resolver.Resolve(desc, root)
	if err != nil {
		return &ExecutionError{Phase: p.Name(), ModuleID: root.ID(), Err: err}
	}
	p.record(desc, result, target, root.ID(), next)

	for _, m := range reactor.Modules[1:] {
		id := m.ID()

		var v string
		if p.kind.ConvertToSnapshot() {
			v = desc.ProjectDevelopmentVersion(id)
			if v == "" {
				if versions.IsSnapshot(m.Version) {
					v = next
				} else {
					v = m.Version
				}
			}
		} else {
			v = desc.ProjectReleaseVersion(id)
			if v == "" {
				v = next
			}
		}

		p.record(desc, result, target, id, v)
	}

	return nil
}

func (p *MapVersions) mapEach(desc *models.ReleaseDescriptor, reactor *models.Reactor, result *Result) error {
	target := recordTarget(p.kind, desc.BranchCreation)
	matcher := exclude.Build(desc.CheckModificationExcludes)

	for _, m := range reactor.Modules {
		path, err := reactor.RelativePath(m)
		if err != nil {
			return &ExecutionError{Phase: p.Name(), ModuleID: m.ID(), Err: err}
		}
		if matcher.Matches(path) {
			p.logger.Debug("module excluded", "module", m.ID(), "path", path)
			continue
		}

		next, err := p.resolver.Resolve(desc, m)
		if err != nil {
			return &ExecutionError{Phase: p.Name(), ModuleID: m.ID(), Err: err}
		}
		p.record(desc, result, target, m.ID(), next)
	}

	return nil
}

func (p *MapVersions) record(desc *models.ReleaseDescriptor, result *Result, target versionMap, id, version string) {
	target.add(desc, id, version)
	result.Info("Add Version %s for module %s", version, id)
}

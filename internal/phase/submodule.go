package phase

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pders01/git-release/internal/git"
	"github.com/pders01/git-release/internal/models"
)

// SubmoduleUpdateFlag in the additional arguments requests a submodule update
const SubmoduleUpdateFlag = "-DsubmoduleUpdate"

// SubmoduleUpdate refreshes git submodules before versions are mapped.
// It is best effort: failures are reported as warnings and never fail the goal.
type SubmoduleUpdate struct {
	update func(ctx context.Context, dir string) (string, error)
	logger *slog.Logger
}

// NewSubmoduleUpdate creates the phase running git in the execution root
func NewSubmoduleUpdate(opts Options) *SubmoduleUpdate {
	return &SubmoduleUpdate{
		update: git.SubmoduleUpdate,
		logger: opts.logger(),
	}
}

func (p *SubmoduleUpdate) Name() string {
	return "submodule-update"
}

func (p *SubmoduleUpdate) Execute(ctx context.Context, desc *models.ReleaseDescriptor, reactor *models.Reactor) (*Result, error) {
	result := newResult(ctx, p.Name(), p.logger)
	result.Info("custom exec %s", desc.AdditionalArguments)

	if strings.Contains(desc.AdditionalArguments, SubmoduleUpdateFlag) {
		dir := executionRoot(desc, reactor)
		result.Info("custom exec git submodule update in %s", dir)

		output, err := p.update(ctx, dir)
		if err != nil {
			result.Warn("%v", err)
		} else {
			result.Info("custom exec git submodule update result: %s", summarize(output))
		}
	}

	result.Code = CodeSuccess
	return result, nil
}

func (p *SubmoduleUpdate) Simulate(ctx context.Context, desc *models.ReleaseDescriptor, reactor *models.Reactor) (*Result, error) {
	result := newResult(ctx, p.Name(), p.logger)

	if strings.Contains(desc.AdditionalArguments, SubmoduleUpdateFlag) {
		result.Info("The project would update its submodules in %s", executionRoot(desc, reactor))
	} else {
		result.Info("No submodule update requested")
	}

	result.Code = CodeSuccess
	return result, nil
}

// executionRoot is the checkout directory, resolved against the root
// module's directory, or the root module's directory itself.
func executionRoot(desc *models.ReleaseDescriptor, reactor *models.Reactor) string {
	base := "."
	if root := reactor.Root(); root != nil && root.Dir != "" {
		base = root.Dir
	}

	dir := desc.CheckoutDirectory
	if dir == "" {
		return base
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

func summarize(output string) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return "ok"
	}
	return output
}

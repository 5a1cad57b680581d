package build

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ofensivaria/ofbuild/internal/recipe"
	"github.com/ofensivaria/ofbuild/internal/runtime"
)

// Executes a list of plan steps in order against the build container.
func (p *pipeline) executeSteps(ctx context.Context, ctr *runtime.Container, steps []recipe.Step, state *stepState) error {
	for i, step := range steps {
		if err := p.executeStep(ctx, ctr, step, state); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// Executes a single step, dispatching to run, copy, or state mutation
// depending on the step's fields.
func (p *pipeline) executeStep(ctx context.Context, ctr *runtime.Container, step recipe.Step, state *stepState) error {
	// Standalone workdir step: persist in state for subsequent steps.
	if step.Run == "" && step.Copy == "" {
		state.apply(step)
		return nil
	}

	workdir := state.resolve(step)
	if workdir != "" {
		if err := ctr.MkdirAll(ctx, workdir); err != nil {
			return err
		}
	}

	switch {
	case step.Run != "":
		slog.Debug("run", "command", step.Run, "workdir", workdir)
		result, err := ctr.Exec(ctx, defaultShell, step.Run, nil, workdir)
		if err != nil {
			return err
		}
		if result.ExitCode != 0 {
			return fmt.Errorf("%w: exit code %d: %s", ErrCommandFailed, result.ExitCode, result.Stderr)
		}

	case step.Copy != "":
		if err := p.executeCopy(ctx, ctr, step.Copy, workdir); err != nil {
			return err
		}
	}

	return nil
}

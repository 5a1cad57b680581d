package build

import "github.com/ofensivaria/ofbuild/internal/recipe"

// Shell used for run steps.
const defaultShell = "/bin/sh"

// Tracks the working directory accumulated during step execution.
//
// State flows linearly through the step list. A standalone workdir step
// updates the state permanently via apply. Operations read the effective
// workdir for a single step via resolve without modifying the persistent
// state.
type stepState struct {
	workdir string
}

// Creates a new [stepState] with no working directory selected.
func newStepState() *stepState {
	return &stepState{}
}

// Persists the step's workdir into the state.
//
// Called for standalone workdir steps. The state is mutated permanently,
// affecting all subsequent steps.
func (s *stepState) apply(step recipe.Step) {
	if step.Workdir != "" {
		s.workdir = step.Workdir
	}
}

// Returns the effective workdir for one operation.
//
// A step-level workdir overrides the persistent state for this operation
// only; the receiver is not modified.
func (s *stepState) resolve(step recipe.Step) string {
	if step.Workdir != "" {
		return step.Workdir
	}
	return s.workdir
}

package build

import (
	"testing"

	"github.com/ofensivaria/ofbuild/internal/recipe"
)

func TestStepStateApply(t *testing.T) {
	state := newStepState()

	if state.workdir != "" {
		t.Fatalf("fresh state has workdir %q", state.workdir)
	}

	state.apply(recipe.Step{Workdir: "/code"})
	if state.workdir != "/code" {
		t.Fatalf("workdir = %q, want /code", state.workdir)
	}

	// Steps without a workdir leave the state untouched.
	state.apply(recipe.Step{Run: "pip install --no-cache-dir ."})
	if state.workdir != "/code" {
		t.Fatalf("workdir = %q after run step, want /code", state.workdir)
	}

	state.apply(recipe.Step{Workdir: "/srv"})
	if state.workdir != "/srv" {
		t.Fatalf("workdir = %q, want /srv", state.workdir)
	}
}

func TestStepStateResolve(t *testing.T) {
	tests := []struct {
		name    string
		persist string
		step    recipe.Step
		want    string
	}{
		{
			name: "no workdir anywhere",
			step: recipe.Step{Run: "true"},
			want: "",
		},
		{
			name:    "persistent workdir",
			persist: "/code",
			step:    recipe.Step{Run: "true"},
			want:    "/code",
		},
		{
			name:    "step workdir overrides persistent",
			persist: "/code",
			step:    recipe.Step{Run: "true", Workdir: "/tmp"},
			want:    "/tmp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &stepState{workdir: tt.persist}

			if got := state.resolve(tt.step); got != tt.want {
				t.Fatalf("resolve = %q, want %q", got, tt.want)
			}

			// resolve never mutates the persistent state.
			if state.workdir != tt.persist {
				t.Fatalf("persistent workdir changed to %q", state.workdir)
			}
		})
	}
}

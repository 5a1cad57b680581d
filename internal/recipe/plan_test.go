package recipe

import "testing"

func TestPlanDepsStage(t *testing.T) {
	plan := Default().Plan()

	if len(plan.Deps) != 2 {
		t.Fatalf("deps stage has %d steps, want 2", len(plan.Deps))
	}

	if got, want := plan.Deps[0].Copy, "requirements.txt /code/requirements.txt"; got != want {
		t.Fatalf("deps[0].Copy = %q, want %q", got, want)
	}
	if got, want := plan.Deps[1].Run, "pip install --no-cache-dir -r /code/requirements.txt"; got != want {
		t.Fatalf("deps[1].Run = %q, want %q", got, want)
	}
}

func TestPlanSourceStage(t *testing.T) {
	tests := []struct {
		name string
		mode LaunchMode
		want []Step
	}{
		{
			name: "module mode",
			mode: LaunchModule,
			want: []Step{
				{Copy: ". /code"},
				{Workdir: "/code"},
			},
		},
		{
			name: "script mode",
			mode: LaunchScript,
			want: []Step{
				{Copy: ". /code"},
				{Workdir: "/code"},
			},
		},
		{
			name: "installed-module appends a package install",
			mode: LaunchInstalledModule,
			want: []Step{
				{Copy: ". /code"},
				{Workdir: "/code"},
				{Run: "pip install --no-cache-dir ."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Default()
			rec.LaunchMode = tt.mode

			got := rec.Plan().Source
			if len(got) != len(tt.want) {
				t.Fatalf("source stage has %d steps, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("source[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// The manifest must be installed before any application code enters the
// image, so that source changes never invalidate the dependency stage.
func TestPlanManifestPrecedesSource(t *testing.T) {
	plan := Default().Plan()

	for i, step := range plan.Deps {
		if step.Workdir != "" {
			t.Fatalf("deps[%d] sets a workdir; deps must not depend on source layout", i)
		}
		if step.Copy == ". /code" {
			t.Fatalf("deps[%d] copies the application tree", i)
		}
	}
}

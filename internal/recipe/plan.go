package recipe

// A single build instruction executed inside the build container.
//
// Exactly one of Run or Copy is set. Workdir, when set, applies to this
// step and persists for subsequent steps in the same stage.
type Step struct {
	Run     string // Shell command to execute.
	Copy    string // Copy operation, "src dest". Sources resolve against the build context.
	Workdir string // Working directory inside the container.
}

// The ordered build pipeline expanded from a recipe.
//
// Deps is the dependency stage: it depends only on the base image and the
// manifest contents, so its result may be committed to the layer cache and
// reused when neither changed. Source is everything after it: copying the
// application tree and, for the installed-module launch mode, installing
// the application package. Source changes never invalidate the Deps stage.
type Plan struct {
	Deps   []Step
	Source []Step
}

// Expands the recipe into the strict build step order.
//
// The order is fixed because later steps depend on earlier ones: the
// installer reads the manifest copied in the step before it, and a package
// install resolves imports against already-installed dependencies.
func (r *Recipe) Plan() *Plan {
	p := &Plan{
		Deps: []Step{
			{Copy: r.ManifestFile + " " + r.manifestDest()},
			{Run: "pip install --no-cache-dir -r " + r.manifestDest()},
		},
		Source: []Step{
			{Copy: ". " + r.CodePath},
			{Workdir: r.CodePath},
		},
	}

	if r.LaunchMode == LaunchInstalledModule {
		p.Source = append(p.Source, Step{Run: "pip install --no-cache-dir ."})
	}

	return p
}

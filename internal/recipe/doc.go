// Package recipe defines the parameterized build template for packaging
// the ofensivaria service as an OCI image.
//
// A single [Recipe] replaces the historical set of near-duplicate container
// build definitions. The parts that used to differ between definitions are
// explicit fields: the launch mode (module execution, direct script
// execution, or local package installation followed by module execution)
// and whether the dependency layer is cached across rebuilds.
//
// A recipe expands into an ordered [Plan] of container steps. The order is
// fixed: the dependency manifest is always installed before the application
// source is copied, and the local package install (when the launch mode
// requires one) always runs after both, because it resolves imports against
// the already-installed dependencies.
//
// Recipes are loaded from a config file via viper, with OFBUILD_* environment
// variables layered on top:
//
//	rec, err := recipe.Load("ofbuild.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := rec.Validate(); err != nil {
//	    return err
//	}
//	plan := rec.Plan()
package recipe

package recipe

import (
	"fmt"
	"path"
	"strings"

	"github.com/spf13/viper"
)

// Selects how the packaged application is started.
type LaunchMode string

const (

	// Runs the application as a module: python -m <package>.app
	LaunchModule LaunchMode = "module"

	// Runs the application script directly: python <code-path>/<script>
	LaunchScript LaunchMode = "script"

	// Installs the application as a package first, then runs it as a
	// module. The install step resolves imports against the dependencies
	// installed from the manifest, so it must run after them.
	LaunchInstalledModule LaunchMode = "installed-module"
)

// Environment variable prefix for recipe overrides (e.g. OFBUILD_BASE_IMAGE).
const envPrefix = "OFBUILD"

// Describes one image build: where it starts from, where the application
// lives inside the image, and how the container launches it.
//
// The zero value is not usable; start from [Default] or [Load].
type Recipe struct {

	// Base runtime image. Either a containerd image reference already
	// present in the namespace, or a path to an OCI archive on disk.
	// The default is a pinned tag; a floating tag like ":latest" must be
	// written explicitly and makes rebuilds non-reproducible over time.
	BaseImage string `mapstructure:"base_image"`

	// Absolute in-image path holding the manifest and application files.
	// Also declared as the image's volume and working directory.
	CodePath string `mapstructure:"code_path"`

	// Dependency manifest filename, relative to the build context root.
	ManifestFile string `mapstructure:"manifest_file"`

	// TCP port the application listens on, declared as image metadata.
	Port int `mapstructure:"port"`

	// Python package name, used for module launch modes.
	PackageName string `mapstructure:"package_name"`

	// Script filename relative to CodePath, used for script launch mode.
	ScriptFile string `mapstructure:"script_file"`

	// How the container starts the application.
	LaunchMode LaunchMode `mapstructure:"launch_mode"`

	// Whether the dependency-install stage may be reused from the layer
	// cache when the base image and manifest contents are unchanged.
	CacheDeps bool `mapstructure:"cache_deps"`
}

// Returns the recipe matching the ofensivaria repository layout.
func Default() *Recipe {
	return &Recipe{
		BaseImage:    "docker.io/library/python:3.12-slim",
		CodePath:     "/code",
		ManifestFile: "requirements.txt",
		Port:         8000,
		PackageName:  "ofensivaria",
		ScriptFile:   "app.py",
		LaunchMode:   LaunchModule,
		CacheDeps:    true,
	}
}

// Loads a recipe from the given config file.
//
// Values not present in the file fall back to [Default]. OFBUILD_* environment
// variables override both (e.g. OFBUILD_LAUNCH_MODE=script). An empty path
// skips the file and applies only defaults and environment overrides.
func Load(path string) (*Recipe, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("base_image", def.BaseImage)
	v.SetDefault("code_path", def.CodePath)
	v.SetDefault("manifest_file", def.ManifestFile)
	v.SetDefault("port", def.Port)
	v.SetDefault("package_name", def.PackageName)
	v.SetDefault("script_file", def.ScriptFile)
	v.SetDefault("launch_mode", string(def.LaunchMode))
	v.SetDefault("cache_deps", def.CacheDeps)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRecipeFile, err)
		}
	}

	var rec Recipe
	if err := v.Unmarshal(&rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecipeFile, err)
	}

	return &rec, nil
}

// Checks the recipe for values the builder cannot work with.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.BaseImage) == "" {
		return fmt.Errorf("%w: base image is required", ErrInvalidRecipe)
	}
	if !path.IsAbs(r.CodePath) {
		return fmt.Errorf("%w: code path %q must be absolute", ErrInvalidRecipe, r.CodePath)
	}
	if strings.TrimSpace(r.ManifestFile) == "" {
		return fmt.Errorf("%w: manifest file is required", ErrInvalidRecipe)
	}
	if r.Port < 1 || r.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidRecipe, r.Port)
	}

	switch r.LaunchMode {
	case LaunchModule, LaunchInstalledModule:
		if strings.TrimSpace(r.PackageName) == "" {
			return fmt.Errorf("%w: launch mode %q requires a package name", ErrInvalidRecipe, r.LaunchMode)
		}
	case LaunchScript:
		if strings.TrimSpace(r.ScriptFile) == "" {
			return fmt.Errorf("%w: launch mode %q requires a script file", ErrInvalidRecipe, r.LaunchMode)
		}
	default:
		return fmt.Errorf("%w: unknown launch mode %q", ErrInvalidRecipe, r.LaunchMode)
	}

	return nil
}

// Returns the module invoked by the module launch modes (e.g. "ofensivaria.app").
func (r *Recipe) AppModule() string {
	return r.PackageName + ".app"
}

// Returns the fixed image entrypoint: the language interpreter.
func (r *Recipe) Entrypoint() []string {
	return []string{"python"}
}

// Returns the default arguments passed to the interpreter, per launch mode.
//
// Callers may override these at run time through the container runtime's
// standard argument-override mechanism.
func (r *Recipe) Command() []string {
	switch r.LaunchMode {
	case LaunchScript:
		return []string{path.Join(r.CodePath, r.ScriptFile)}
	default:
		return []string{"-m", r.AppModule()}
	}
}

// Returns the exposed port in OCI image config notation (e.g. "8000/tcp").
func (r *Recipe) ExposedPort() string {
	return fmt.Sprintf("%d/tcp", r.Port)
}

// Returns the manifest path inside the image.
func (r *Recipe) manifestDest() string {
	return path.Join(r.CodePath, path.Base(r.ManifestFile))
}

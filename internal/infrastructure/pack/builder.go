// Package pack builds distributable project archives by driving the external
// packaging toolchain as a subprocess.
package pack

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/nickalie/crawlship/internal/core/deploy"
	"github.com/nickalie/crawlship/internal/util"
)

// Written into the project root when it carries no build script of its own.
const setupScriptTemplate = `# Automatically created by: crawlship

from setuptools import setup, find_packages

setup(
    name         = 'project',
    version      = '1.0',
    packages     = find_packages(),
    entry_points = {'crawler': ['settings = %s']},
)
`

const defaultSettings = "default"

// CommandRunner executes a build command in dir. When verbose is set the
// command's output streams through to the user; otherwise it is discarded.
type CommandRunner func(dir string, verbose bool, args ...string) error

// Builder implements deploy.Packager using the setuptools toolchain.
type Builder struct {
	python string
	runner CommandRunner
}

// BuilderOption defines functional options for Builder
type BuilderOption func(*Builder)

// WithPython sets the Python interpreter used to drive the build.
func WithPython(python string) BuilderOption {
	return func(b *Builder) {
		b.python = python
	}
}

// WithCommandRunner sets the subprocess runner used for builds.
func WithCommandRunner(runner CommandRunner) BuilderOption {
	return func(b *Builder) {
		b.runner = runner
	}
}

// NewBuilder creates a new archive builder with default implementations.
func NewBuilder(opts ...BuilderOption) *Builder {
	builder := &Builder{
		python: "python3",
		runner: runCommand,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder
}

// Build produces a single egg archive for the project rooted at projectRoot
// inside a fresh temporary directory. The caller owns the directory.
func (b *Builder) Build(projectRoot string, opts *deploy.BuildOptions) (string, string, error) {
	if err := b.ensureSetupScript(projectRoot, opts.Settings); err != nil {
		return "", "", err
	}

	command := "bdist_egg"
	if opts.IncludeDeps {
		fmt.Fprintln(os.Stderr, "Including dependencies from requirements.txt")
		if !util.Exists(filepath.Join(projectRoot, "requirements.txt")) {
			return "", "", fmt.Errorf("missing requirements.txt in %s", projectRoot)
		}
		command = "bdist_uberegg"
	}

	tmpDir, err := os.MkdirTemp("", "crawlship-")
	if err != nil {
		return "", "", fmt.Errorf("failed to create build dir: %w", err)
	}

	args := []string{b.python, "setup.py", "clean", "-a", command, "-d", tmpDir}
	if err := b.runner(projectRoot, opts.Debug, args...); err != nil {
		os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("build command failed: %w", err)
	}

	eggPath, err := findEgg(tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		return "", "", err
	}

	return eggPath, tmpDir, nil
}

// ensureSetupScript writes a minimal build script when the project has none.
func (b *Builder) ensureSetupScript(projectRoot, settings string) error {
	path := filepath.Join(projectRoot, "setup.py")
	if util.Exists(path) {
		return nil
	}

	if settings == "" {
		settings = defaultSettings
	}

	script := fmt.Sprintf(setupScriptTemplate, settings)
	if err := os.WriteFile(path, []byte(script), 0644); err != nil {
		return fmt.Errorf("failed to write setup.py: %w", err)
	}
	return nil
}

// findEgg returns the first egg archive in dir.
func findEgg(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.egg"))
	if err != nil {
		return "", fmt.Errorf("failed to scan build dir: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no egg produced in %s", dir)
	}
	return matches[0], nil
}

// runCommand executes a command, streaming output only in verbose mode.
func runCommand(dir string, verbose bool, args ...string) error {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = dir
	if verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

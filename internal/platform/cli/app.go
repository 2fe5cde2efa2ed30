// Package cli provides the command-line interface functionality for the
// crawlship application. It handles the integration between user input,
// configuration loading, and deploy orchestration, and serves as the main
// entry point for the application's functionality when used as a CLI tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nickalie/crawlship/internal/config"
	"github.com/nickalie/crawlship/internal/core/deploy"
	"github.com/nickalie/crawlship/internal/core/target"
	"github.com/nickalie/crawlship/internal/core/version"
	"github.com/nickalie/crawlship/internal/infrastructure/env"
	"github.com/nickalie/crawlship/internal/infrastructure/jobserver"
	"github.com/nickalie/crawlship/internal/infrastructure/pack"
)

// Version is the crawlship release version, also sent as part of the
// User-Agent on job-server requests.
const Version = "1.2.0"

// EnvLoader defines the interface for loading environment variables
type EnvLoader interface {
	Load(path, vaultPassword string) error
}

// ConfigLoader defines the interface for loading configuration
type ConfigLoader interface {
	Load(configPath string) (*config.Config, error)
}

// DeployService defines the interface for archive builds and uploads
type DeployService interface {
	DeployTarget(ctx context.Context, projectRoot string, tgt *target.Target, opts *deploy.Options) error
	DeployAll(ctx context.Context, projectRoot string, targets []*target.Target, opts *deploy.Options) error
	BuildArchive(projectRoot, dest string, opts *deploy.Options) error
}

// ProjectLister defines the interface for listing remote projects
type ProjectLister interface {
	ListProjects(ctx context.Context, tgt *target.Target) ([]string, error)
}

// Options carries the parsed command-line flags for one invocation.
type Options struct {
	Target        string
	Project       string
	Version       string
	ListTargets   bool
	ListProjects  string
	DeployAll     bool
	Debug         bool
	EggPath       string
	BuildEgg      string
	IncludeDeps   bool
	ConfigPath    string
	EnvPaths      []string
	VaultPassword string
	// WorkDir is the directory the project configuration is discovered
	// from; empty means the current working directory.
	WorkDir string
}

// App represents the main application structure that handles configuration
// loading and deploy execution.
type App struct {
	envLoader     EnvLoader
	configLoader  ConfigLoader
	deployService DeployService
	projects      ProjectLister
	out           io.Writer
}

// NewApp creates and returns a new App instance with default implementations
// for all dependencies.
func NewApp() *App {
	client := jobserver.NewClient(jobserver.WithUserAgent("crawlship/" + Version))
	service := deploy.NewService(
		pack.NewBuilder(),
		client,
		deploy.WithVersionResolver(version.NewResolver()),
	)

	return &App{
		envLoader:     env.NewLoader(),
		configLoader:  config.NewLoader(),
		deployService: service,
		projects:      client,
		out:           os.Stdout,
	}
}

// NewAppWithDeps creates and returns a new App instance with custom dependencies
func NewAppWithDeps(envLoader EnvLoader, configLoader ConfigLoader, deployService DeployService, projects ProjectLister, out io.Writer) *App {
	return &App{
		envLoader:     envLoader,
		configLoader:  configLoader,
		deployService: deployService,
		projects:      projects,
		out:           out,
	}
}

// Run executes the application in the mode selected by opts.
func (a *App) Run(ctx context.Context, opts *Options) error {
	if err := a.loadEnvironments(opts.EnvPaths, opts.VaultPassword); err != nil {
		return fmt.Errorf("environment loading failed: %w", err)
	}

	configPath, projectRoot, err := a.locateConfig(opts)
	if err != nil {
		return err
	}

	cfg, err := a.configLoader.Load(configPath)
	if err != nil {
		return fmt.Errorf("config loading failed: %w", err)
	}

	switch {
	case opts.ListTargets:
		return a.listTargets(cfg)
	case opts.ListProjects != "":
		return a.listProjects(ctx, cfg, opts.ListProjects)
	case opts.BuildEgg != "":
		return a.deployService.BuildArchive(projectRoot, opts.BuildEgg, a.deployOptions(cfg, opts))
	case opts.DeployAll:
		return a.deployService.DeployAll(ctx, projectRoot, cfg.SortedTargets(), a.deployOptions(cfg, opts))
	default:
		name := opts.Target
		if name == "" {
			name = config.DefaultTargetName
		}
		tgt, err := cfg.Target(name)
		if err != nil {
			return err
		}
		return a.deployService.DeployTarget(ctx, projectRoot, tgt, a.deployOptions(cfg, opts))
	}
}

// locateConfig finds the project configuration, either explicitly given or
// discovered by walking up from the working directory.
func (a *App) locateConfig(opts *Options) (configPath, projectRoot string, err error) {
	if opts.ConfigPath != "" {
		return opts.ConfigPath, config.ProjectRoot(opts.ConfigPath), nil
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("failed to determine working directory: %w", err)
		}
	}

	configPath, ok := config.Closest(workDir)
	if !ok {
		return "", "", &deploy.NotInProjectError{}
	}
	return configPath, config.ProjectRoot(configPath), nil
}

func (a *App) listTargets(cfg *config.Config) error {
	for _, name := range cfg.TargetNames() {
		fmt.Fprintf(a.out, "%-20s %s\n", name, cfg.Targets[name].URL)
	}
	return nil
}

func (a *App) listProjects(ctx context.Context, cfg *config.Config, targetName string) error {
	tgt, err := cfg.Target(targetName)
	if err != nil {
		return err
	}

	projects, err := a.projects.ListProjects(ctx, tgt)
	if err != nil {
		return err
	}

	for _, project := range projects {
		fmt.Fprintln(a.out, project)
	}
	return nil
}

func (a *App) deployOptions(cfg *config.Config, opts *Options) *deploy.Options {
	return &deploy.Options{
		Project:     opts.Project,
		Version:     opts.Version,
		EggPath:     opts.EggPath,
		Settings:    cfg.Settings,
		IncludeDeps: opts.IncludeDeps,
		Debug:       opts.Debug,
	}
}

// loadEnvironments loads all environment files
func (a *App) loadEnvironments(envPaths []string, vaultPassword string) error {
	for _, path := range envPaths {
		if err := a.envLoader.Load(path, vaultPassword); err != nil {
			return fmt.Errorf("failed to load environment file %s: %w", path, err)
		}
	}
	return nil
}

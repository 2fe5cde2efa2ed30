// Package crawlship provides a public API for deploying crawler projects to
// remote job servers. It exposes simplified entry points for configuration
// loading and deployment while hiding implementation details, so users can
// integrate crawlship's deployment capabilities into their own tooling.
package crawlship

import (
	"context"

	"github.com/nickalie/crawlship/internal/config"
	"github.com/nickalie/crawlship/internal/core/deploy"
	"github.com/nickalie/crawlship/internal/core/target"
	"github.com/nickalie/crawlship/internal/core/version"
	"github.com/nickalie/crawlship/internal/infrastructure/jobserver"
	"github.com/nickalie/crawlship/internal/infrastructure/pack"
	"github.com/nickalie/crawlship/internal/platform/cli"
)

// Target represents a deployment target
type Target = target.Target

// Config represents a resolved deployment configuration
type Config = config.Config

// Options carries the per-invocation deployment knobs
type Options = deploy.Options

// LoadConfig loads a configuration file
func LoadConfig(configPath string) (*Config, error) {
	loader := config.NewLoader()
	return loader.Load(configPath)
}

// Deploy builds the project rooted at projectRoot and uploads it to the
// named target from the given configuration.
func Deploy(ctx context.Context, cfg *Config, targetName, projectRoot string, opts *Options) error {
	tgt, err := cfg.Target(targetName)
	if err != nil {
		return err
	}
	if opts == nil {
		opts = &Options{}
	}
	if opts.Settings == "" {
		opts.Settings = cfg.Settings
	}
	return newService().DeployTarget(ctx, projectRoot, tgt, opts)
}

// DeployAll builds the project once per target and uploads it to every
// configured target, sharing one resolved version.
func DeployAll(ctx context.Context, cfg *Config, projectRoot string, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Settings == "" {
		opts.Settings = cfg.Settings
	}
	return newService().DeployAll(ctx, projectRoot, cfg.SortedTargets(), opts)
}

// ListProjects returns the project names known to the named target's job server.
func ListProjects(ctx context.Context, cfg *Config, targetName string) ([]string, error) {
	tgt, err := cfg.Target(targetName)
	if err != nil {
		return nil, err
	}
	client := jobserver.NewClient(jobserver.WithUserAgent("crawlship/" + cli.Version))
	return client.ListProjects(ctx, tgt)
}

func newService() *deploy.Service {
	client := jobserver.NewClient(jobserver.WithUserAgent("crawlship/" + cli.Version))
	return deploy.NewService(
		pack.NewBuilder(),
		client,
		deploy.WithVersionResolver(version.NewResolver()),
	)
}

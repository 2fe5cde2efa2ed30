package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nickalie/crawlship/internal/core/target"
	"github.com/nickalie/crawlship/internal/util"
)

// Options carries the per-invocation knobs shared by all deploy modes.
type Options struct {
	// Project overrides the target's configured project name.
	Project string
	// Version overrides the target's version policy.
	Version string
	// EggPath skips the build and uploads a pre-built archive.
	EggPath     string
	Settings    string
	IncludeDeps bool
	Debug       bool
}

// Service manages archive builds and uploads across targets.
type Service struct {
	packager Packager
	uploader Uploader
	versions VersionResolver
	log      io.Writer
}

// ServiceOption defines functional options for Service
type ServiceOption func(*Service)

// WithVersionResolver sets the version resolver for the service.
func WithVersionResolver(resolver VersionResolver) ServiceOption {
	return func(s *Service) {
		s.versions = resolver
	}
}

// WithLogOutput sets the writer used for progress diagnostics.
func WithLogOutput(w io.Writer) ServiceOption {
	return func(s *Service) {
		s.log = w
	}
}

// NewService creates a new deploy service with the provided packager and uploader.
func NewService(packager Packager, uploader Uploader, opts ...ServiceOption) *Service {
	service := &Service{
		packager: packager,
		uploader: uploader,
		log:      os.Stderr,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// ResolveVersion resolves the version to deploy for a target, preferring an
// explicit override from opts over the target's own policy.
func (s *Service) ResolveVersion(tgt *target.Target, opts *Options) (string, error) {
	policy := opts.Version
	if policy == "" {
		policy = tgt.Version
	}
	return s.versions.Resolve(policy)
}

// DeployTarget builds the project archive and uploads it to a single target.
func (s *Service) DeployTarget(ctx context.Context, projectRoot string, tgt *target.Target, opts *Options) error {
	version, err := s.ResolveVersion(tgt, opts)
	if err != nil {
		return err
	}
	return s.deployVersion(ctx, projectRoot, tgt, version, opts)
}

// DeployAll builds and uploads to every target in turn, sharing one version
// string resolved from the first target. A failing target does not stop the
// remaining ones; all failures are reported together.
func (s *Service) DeployAll(ctx context.Context, projectRoot string, targets []*target.Target, opts *Options) error {
	var errs []error
	version := ""

	for _, tgt := range targets {
		if version == "" {
			v, err := s.ResolveVersion(tgt, opts)
			if err != nil {
				return err
			}
			version = v
		}
		if err := s.deployVersion(ctx, projectRoot, tgt, version, opts); err != nil {
			fmt.Fprintf(s.log, "Deploy to target '%s' failed: %v\n", tgt.GetName(), err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// BuildArchive builds the project archive and writes it to dest without
// touching the network.
func (s *Service) BuildArchive(projectRoot, dest string, opts *Options) error {
	eggPath, tmpDir, err := s.packager.Build(projectRoot, s.buildOptions(opts))
	if err != nil {
		return &BuildError{Cause: err}
	}
	defer s.removeTmpDir(tmpDir, opts.Debug)

	fmt.Fprintf(s.log, "Writing egg to %s\n", dest)
	if err := util.CopyFile(eggPath, dest); err != nil {
		return fmt.Errorf("failed to write egg to %s: %w", dest, err)
	}
	return nil
}

func (s *Service) deployVersion(ctx context.Context, projectRoot string, tgt *target.Target, version string, opts *Options) error {
	project := opts.Project
	if project == "" {
		project = tgt.Project
	}
	if project == "" {
		return &MissingProjectError{Target: tgt.GetName()}
	}

	eggPath := opts.EggPath
	if eggPath == "" {
		fmt.Fprintf(s.log, "Packing version %s\n", version)
		buildOpts := s.buildOptions(opts)
		if tgt.Settings != "" {
			buildOpts.Settings = tgt.Settings
		}
		built, tmpDir, err := s.packager.Build(projectRoot, buildOpts)
		if err != nil {
			return &BuildError{Cause: err}
		}
		defer s.removeTmpDir(tmpDir, opts.Debug)
		eggPath = built
	} else {
		fmt.Fprintf(s.log, "Using egg: %s\n", eggPath)
	}

	if err := s.uploader.Deploy(ctx, tgt, project, version, eggPath); err != nil {
		return &UploadError{Target: tgt.GetName(), Cause: err}
	}
	return nil
}

func (s *Service) buildOptions(opts *Options) *BuildOptions {
	return &BuildOptions{
		Settings:    opts.Settings,
		IncludeDeps: opts.IncludeDeps,
		Debug:       opts.Debug,
	}
}

// removeTmpDir deletes a build directory unless debug mode retains it.
func (s *Service) removeTmpDir(tmpDir string, debug bool) {
	if tmpDir == "" {
		return
	}
	if debug {
		fmt.Fprintf(s.log, "Output dir not removed: %s\n", tmpDir)
		return
	}
	os.RemoveAll(tmpDir)
}

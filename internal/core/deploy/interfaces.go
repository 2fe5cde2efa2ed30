package deploy

import (
	"context"

	"github.com/nickalie/crawlship/internal/core/target"
)

// BuildOptions configures a single archive build.
type BuildOptions struct {
	// Settings is the crawler settings module baked into a generated build
	// script when the project has none.
	Settings    string
	IncludeDeps bool
	Debug       bool
}

// Packager builds a distributable archive for the project rooted at
// projectRoot. It returns the archive path and the temporary build
// directory that holds it; the caller owns the directory's removal.
type Packager interface {
	Build(projectRoot string, opts *BuildOptions) (eggPath string, tmpDir string, err error)
}

// Uploader ships a built archive to a target's job server.
type Uploader interface {
	Deploy(ctx context.Context, tgt *target.Target, project, version, eggPath string) error
}

// VersionResolver turns a version policy into a concrete version string.
type VersionResolver interface {
	Resolve(policy string) (string, error)
}

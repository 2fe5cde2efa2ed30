// Package version derives deploy version strings from a target's version policy.
package version

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Policies resolved by shelling out to version-control tooling.
const (
	PolicyGit = "GIT"
	PolicyHg  = "HG"
)

// CommandRunner is an interface for executing commands
type CommandRunner func(dir string, args ...string) ([]byte, error)

// Resolver turns a version policy into a concrete version string.
type Resolver struct {
	runner CommandRunner
	now    func() time.Time
}

// ResolverOption defines functional options for Resolver
type ResolverOption func(*Resolver)

// WithCommandRunner sets the subprocess runner used for version-control queries.
func WithCommandRunner(runner CommandRunner) ResolverOption {
	return func(r *Resolver) {
		r.runner = runner
	}
}

// WithClock sets the time source used for timestamp versions.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.now = now
	}
}

// NewResolver creates a new version resolver with default implementations.
func NewResolver(opts ...ResolverOption) *Resolver {
	resolver := &Resolver{
		runner: execCommand,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(resolver)
	}

	return resolver
}

// Resolve maps a version policy to a version string. "GIT" and "HG" derive
// one from the working copy; any other non-empty policy is used verbatim;
// an empty policy falls back to the current Unix timestamp.
func (r *Resolver) Resolve(policy string) (string, error) {
	switch policy {
	case PolicyGit:
		return r.gitVersion()
	case PolicyHg:
		return r.hgVersion()
	case "":
		return strconv.FormatInt(r.now().Unix(), 10), nil
	default:
		return policy, nil
	}
}

// gitVersion builds "<describe>-<branch>", falling back to a revision count
// when the repository has no tags for git describe to work with.
func (r *Resolver) gitVersion() (string, error) {
	descriptor, err := r.output("git", "describe")
	if err != nil {
		count, countErr := r.output("git", "rev-list", "--count", "HEAD")
		if countErr != nil {
			return "", fmt.Errorf("git version lookup failed: %w", countErr)
		}
		descriptor = "r" + count
	}

	branch, err := r.output("git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git branch lookup failed: %w", err)
	}

	return fmt.Sprintf("%s-%s", descriptor, branch), nil
}

func (r *Resolver) hgVersion() (string, error) {
	rev, err := r.output("hg", "tip", "--template", "{rev}")
	if err != nil {
		return "", fmt.Errorf("hg revision lookup failed: %w", err)
	}

	branch, err := r.output("hg", "branch")
	if err != nil {
		return "", fmt.Errorf("hg branch lookup failed: %w", err)
	}

	return fmt.Sprintf("r%s-%s", rev, branch), nil
}

func (r *Resolver) output(args ...string) (string, error) {
	out, err := r.runner("", args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// execCommand executes a command and returns its captured stdout.
func execCommand(dir string, args ...string) ([]byte, error) {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = dir
	return cmd.Output()
}

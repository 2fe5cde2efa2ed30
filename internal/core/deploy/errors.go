// Package deploy provides core functionality for packaging and shipping
// project archives to deployment targets.
package deploy

import "fmt"

// UnknownTargetError represents a request for a target name that is not
// present in the configuration.
type UnknownTargetError struct {
	Name string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target: %s", e.Name)
}

// MissingProjectError represents a deploy attempt with no project name
// available from either the CLI or the target configuration.
type MissingProjectError struct {
	Target string
}

func (e *MissingProjectError) Error() string {
	return fmt.Sprintf("missing project for target '%s'", e.Target)
}

// NotInProjectError represents an invocation outside a recognized project
// directory.
type NotInProjectError struct{}

func (e *NotInProjectError) Error() string {
	return "no crawler project found in this location"
}

// BuildError represents a failure to build the project archive.
type BuildError struct {
	Cause error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("archive build failed: %v", e.Cause)
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}

// UploadError represents a failed upload to a target.
type UploadError struct {
	Target string
	Cause  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload to target '%s' failed: %v", e.Target, e.Cause)
}

func (e *UploadError) Unwrap() error {
	return e.Cause
}

// Package target defines data structures and methods for deployment targets.
package target

import (
	"fmt"
	"net/url"
)

// Target defines a remote job-server destination with connection details.
// Fields left empty on a named target inherit from the default target when
// the configuration is resolved.
type Target struct {
	Name     string `yaml:"name,omitempty" json:"name,omitempty" toml:"name,omitempty" validate:"omitempty"`
	URL      string `yaml:"url,omitempty" json:"url,omitempty" toml:"url,omitempty" validate:"omitempty,url"`
	Project  string `yaml:"project,omitempty" json:"project,omitempty" toml:"project,omitempty" validate:"omitempty"`
	Username string `yaml:"username,omitempty" json:"username,omitempty" toml:"username,omitempty" validate:"omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty" toml:"password,omitempty" validate:"omitempty"`
	// Version is the version policy: "GIT", "HG", a literal version string,
	// or empty to fall back to a timestamp.
	Version  string `yaml:"version,omitempty" json:"version,omitempty" toml:"version,omitempty" validate:"omitempty"`
	Settings string `yaml:"settings,omitempty" json:"settings,omitempty" toml:"settings,omitempty" validate:"omitempty"`
}

// GetName returns the target name, defaulting to "default" if not specified.
func (t *Target) GetName() string {
	if t.Name == "" {
		return "default"
	}
	return t.Name
}

// Endpoint resolves an API action name against the target URL.
func (t *Target) Endpoint(action string) (string, error) {
	if t.URL == "" {
		return "", fmt.Errorf("missing url for target '%s'", t.GetName())
	}
	base, err := url.Parse(t.URL)
	if err != nil {
		return "", fmt.Errorf("invalid url for target '%s': %w", t.GetName(), err)
	}
	ref, err := url.Parse(action)
	if err != nil {
		return "", fmt.Errorf("invalid action '%s': %w", action, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Hostname returns the host portion of the target URL without the port.
// Used for .netrc credential lookups.
func (t *Target) Hostname() string {
	u, err := url.Parse(t.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

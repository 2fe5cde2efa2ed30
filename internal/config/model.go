// Package config provides functionality for loading and resolving deployment
// target configurations.
package config

import (
	"sort"

	"github.com/nickalie/crawlship/internal/core/deploy"
	"github.com/nickalie/crawlship/internal/core/target"
)

// DefaultTargetName is the name under which the base [deploy] section is
// registered when it is addressable on its own.
const DefaultTargetName = "default"

// Config is the resolved deployment configuration: the crawler settings
// module plus the named targets with defaults already layered in.
type Config struct {
	Settings string
	Targets  map[string]*target.Target
}

// Target returns the named target.
func (c *Config) Target(name string) (*target.Target, error) {
	tgt, ok := c.Targets[name]
	if !ok {
		return nil, &deploy.UnknownTargetError{Name: name}
	}
	return tgt, nil
}

// TargetNames returns all target names, the default target first and the
// rest sorted alphabetically.
func (c *Config) TargetNames() []string {
	names := make([]string, 0, len(c.Targets))
	for name := range c.Targets {
		if name != DefaultTargetName {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	if _, ok := c.Targets[DefaultTargetName]; ok {
		names = append([]string{DefaultTargetName}, names...)
	}
	return names
}

// SortedTargets returns all targets in TargetNames order.
func (c *Config) SortedTargets() []*target.Target {
	names := c.TargetNames()
	targets := make([]*target.Target, 0, len(names))
	for _, name := range names {
		targets = append(targets, c.Targets[name])
	}
	return targets
}

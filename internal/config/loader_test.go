package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickalie/crawlship/internal/core/deploy"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadINIConfig(t *testing.T) {
	path := writeConfig(t, "crawlship.cfg", `
[settings]
default = crawler.settings

[deploy]
url = http://localhost:6800
project = crawler
version = GIT

[deploy:staging]
url = http://staging.example.com:6800
username = stage
password = stagepass

[deploy:prod]
url = http://prod.example.com:6800
version = 1.0
`)

	loader := NewLoader(WithGlobalConfigs())
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "crawler.settings", cfg.Settings)
	require.Len(t, cfg.Targets, 3)

	// The base section is addressable as "default".
	def, err := cfg.Target("default")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:6800", def.URL)
	assert.Equal(t, "crawler", def.Project)
	assert.Equal(t, "GIT", def.Version)

	// Named targets inherit unset keys and override set ones.
	staging, err := cfg.Target("staging")
	require.NoError(t, err)
	assert.Equal(t, "http://staging.example.com:6800", staging.URL)
	assert.Equal(t, "crawler", staging.Project, "project inherited from [deploy]")
	assert.Equal(t, "GIT", staging.Version, "version inherited from [deploy]")
	assert.Equal(t, "stage", staging.Username)

	prod, err := cfg.Target("prod")
	require.NoError(t, err)
	assert.Equal(t, "1.0", prod.Version, "version overridden by [deploy:prod]")
}

func TestLoadINIConfigWithoutBaseURL(t *testing.T) {
	path := writeConfig(t, "crawlship.cfg", `
[deploy]
project = crawler

[deploy:prod]
url = http://prod.example.com:6800
`)

	loader := NewLoader(WithGlobalConfigs())
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	// [deploy] without a url is not addressable on its own.
	_, err = cfg.Target("default")
	var unknownErr *deploy.UnknownTargetError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "default", unknownErr.Name)

	prod, err := cfg.Target("prod")
	require.NoError(t, err)
	assert.Equal(t, "crawler", prod.Project)
}

func TestLoadINIConfigEnvExpansion(t *testing.T) {
	t.Setenv("CRAWLSHIP_TEST_PASSWORD", "hunter2")

	path := writeConfig(t, "crawlship.cfg", `
[deploy]
url = http://localhost:6800
password = ${CRAWLSHIP_TEST_PASSWORD}
`)

	loader := NewLoader(WithGlobalConfigs())
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	def, err := cfg.Target("default")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", def.Password)
}

func TestLoadINIGlobalConfigMerge(t *testing.T) {
	global := writeConfig(t, "global.cfg", `
[deploy]
url = http://global.example.com:6800
username = globaluser
`)
	project := writeConfig(t, "crawlship.cfg", `
[deploy]
url = http://project.example.com:6800
`)

	loader := NewLoader(WithGlobalConfigs(global))
	cfg, err := loader.Load(project)
	require.NoError(t, err)

	def, err := cfg.Target("default")
	require.NoError(t, err)
	assert.Equal(t, "http://project.example.com:6800", def.URL, "project config wins")
	assert.Equal(t, "globaluser", def.Username, "keys absent from the project config fall through")
}

func TestLoadYAMLConfig(t *testing.T) {
	t.Setenv("CRAWLSHIP_TEST_TOKEN", "tok")

	path := writeConfig(t, "crawlship.yaml", `
settings: crawler.settings
targets:
  default:
    url: http://localhost:6800
    project: crawler
  staging:
    url: http://staging.example.com:6800
    password: ${CRAWLSHIP_TEST_TOKEN}
`)

	loader := NewLoader(WithGlobalConfigs())
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "crawler.settings", cfg.Settings)

	staging, err := cfg.Target("staging")
	require.NoError(t, err)
	assert.Equal(t, "crawler", staging.Project, "project inherited from the default entry")
	assert.Equal(t, "tok", staging.Password)
}

func TestLoadTOMLConfig(t *testing.T) {
	path := writeConfig(t, "crawlship.toml", `
settings = "crawler.settings"

[targets.default]
url = "http://localhost:6800"
project = "crawler"

[targets.prod]
url = "http://prod.example.com:6800"
`)

	loader := NewLoader(WithGlobalConfigs())
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	prod, err := cfg.Target("prod")
	require.NoError(t, err)
	assert.Equal(t, "crawler", prod.Project)
}

func TestLoadJSONConfig(t *testing.T) {
	path := writeConfig(t, "crawlship.json", `{
  "settings": "crawler.settings",
  "targets": {
    "default": {"url": "http://localhost:6800", "project": "crawler"}
  }
}`)

	loader := NewLoader(WithGlobalConfigs())
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	def, err := cfg.Target("default")
	require.NoError(t, err)
	assert.Equal(t, "crawler", def.Project)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "crawlship.xml", "<config/>")

	loader := NewLoader(WithGlobalConfigs())
	_, err := loader.Load(path)
	assert.ErrorContains(t, err, "unsupported config file extension")
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(WithGlobalConfigs())
	_, err := loader.Load(filepath.Join(t.TempDir(), "crawlship.cfg"))
	assert.Error(t, err)
}

func TestLoadInvalidTargetURL(t *testing.T) {
	path := writeConfig(t, "crawlship.cfg", `
[deploy]
url = not a url
`)

	loader := NewLoader(WithGlobalConfigs())
	_, err := loader.Load(path)
	assert.ErrorContains(t, err, "validation failed")
}

func TestTargetNamesOrder(t *testing.T) {
	path := writeConfig(t, "crawlship.cfg", `
[deploy]
url = http://localhost:6800

[deploy:zeta]
url = http://zeta.example.com:6800

[deploy:alpha]
url = http://alpha.example.com:6800
`)

	loader := NewLoader(WithGlobalConfigs())
	cfg, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"default", "alpha", "zeta"}, cfg.TargetNames())

	targets := cfg.SortedTargets()
	require.Len(t, targets, 3)
	assert.Equal(t, "default", targets[0].GetName())
}

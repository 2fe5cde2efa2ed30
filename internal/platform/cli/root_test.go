package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	require.NoError(t, cmd.ParseFlags([]string{
		"-p", "crawler",
		"-v", "1.0",
		"-a",
		"-d",
		"--egg", "prebuilt.egg",
		"--include-dependencies",
		"--env", "a.env",
		"--env", "b.env",
	}))

	flags := cmd.Flags()

	project, err := flags.GetString("project")
	require.NoError(t, err)
	assert.Equal(t, "crawler", project)

	version, err := flags.GetString("version")
	require.NoError(t, err)
	assert.Equal(t, "1.0", version)

	all, err := flags.GetBool("deploy-all-targets")
	require.NoError(t, err)
	assert.True(t, all)

	debug, err := flags.GetBool("debug")
	require.NoError(t, err)
	assert.True(t, debug)

	egg, err := flags.GetString("egg")
	require.NoError(t, err)
	assert.Equal(t, "prebuilt.egg", egg)

	deps, err := flags.GetBool("include-dependencies")
	require.NoError(t, err)
	assert.True(t, deps)

	envs, err := flags.GetStringArray("env")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.env", "b.env"}, envs)
}

func TestRootCommandAcceptsOneTarget(t *testing.T) {
	cmd := NewRootCommand()

	assert.NoError(t, cmd.Args(cmd, []string{"staging"}))
	assert.Error(t, cmd.Args(cmd, []string{"staging", "extra"}))
}

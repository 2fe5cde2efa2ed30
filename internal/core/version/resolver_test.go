package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner maps a joined command line to canned output.
func fakeRunner(outputs map[string]string, failures map[string]error) CommandRunner {
	return func(_ string, args ...string) ([]byte, error) {
		key := strings.Join(args, " ")
		if err, ok := failures[key]; ok {
			return nil, err
		}
		out, ok := outputs[key]
		if !ok {
			return nil, fmt.Errorf("unexpected command: %s", key)
		}
		return []byte(out), nil
	}
}

func TestResolveVerbatim(t *testing.T) {
	resolver := NewResolver(WithCommandRunner(fakeRunner(nil, nil)))

	got, err := resolver.Resolve("1.0")
	require.NoError(t, err)
	assert.Equal(t, "1.0", got)
}

func TestResolveTimestamp(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	resolver := NewResolver(
		WithCommandRunner(fakeRunner(nil, nil)),
		WithClock(func() time.Time { return fixed }),
	)

	got, err := resolver.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "1700000000", got)

	// Timestamp versions must always be numeric.
	_, err = strconv.ParseInt(got, 10, 64)
	assert.NoError(t, err)
}

func TestResolveGit(t *testing.T) {
	tests := []struct {
		name     string
		outputs  map[string]string
		failures map[string]error
		expected string
		wantErr  bool
	}{
		{
			name: "describe succeeds",
			outputs: map[string]string{
				"git describe":                    "v1.2.3-4-gabcdef\n",
				"git rev-parse --abbrev-ref HEAD": "main\n",
			},
			expected: "v1.2.3-4-gabcdef-main",
		},
		{
			name: "describe fails, rev count fallback",
			outputs: map[string]string{
				"git rev-list --count HEAD":       "42\n",
				"git rev-parse --abbrev-ref HEAD": "develop\n",
			},
			failures: map[string]error{
				"git describe": errors.New("fatal: no names found"),
			},
			expected: "r42-develop",
		},
		{
			name: "both describe and rev count fail",
			failures: map[string]error{
				"git describe":              errors.New("not a repository"),
				"git rev-list --count HEAD": errors.New("not a repository"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewResolver(WithCommandRunner(fakeRunner(tt.outputs, tt.failures)))
			got, err := resolver.Resolve(PolicyGit)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveHg(t *testing.T) {
	outputs := map[string]string{
		"hg tip --template {rev}": "128",
		"hg branch":               "default\n",
	}
	resolver := NewResolver(WithCommandRunner(fakeRunner(outputs, nil)))

	got, err := resolver.Resolve(PolicyHg)
	require.NoError(t, err)
	assert.Equal(t, "r128-default", got)
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-wayfinder/pkg/agent"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for key, names := range envAliases {
		for _, n := range names {
			t.Setenv(n, "")
			os.Unsetenv(n)
		}
		n := EnvPrefix + "_" + strings.ToUpper(key)
		t.Setenv(n, "")
		os.Unsetenv(n)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, agent.DefaultConfig(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "wayfinder.yaml")
	yaml := `port: 9090
max_steps: 6
travel_mode: driving
camera_interval: 500ms
openai_api_key: from-file
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("GOOGLE_MAPS_API_KEY", "maps")
	t.Setenv("WAYFINDER_INTERVAL", "30s")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 6, cfg.MaxSteps)
	require.Equal(t, "driving", cfg.TravelMode)
	require.Equal(t, 500*time.Millisecond, cfg.CameraInterval)
	require.Equal(t, "from-env", cfg.OpenAIAPIKey)
	require.Equal(t, "maps", cfg.GoogleMapsAPIKey)
	require.Equal(t, 30*time.Second, cfg.Interval)
	require.Equal(t, agent.DefaultQuery, cfg.DefaultQuery)
}

func TestLoadPrefixedOverridesConventional(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "plain")
	t.Setenv("WAYFINDER_OPENAI_API_KEY", "prefixed")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "prefixed", cfg.OpenAIAPIKey)
}

func TestLoadBadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

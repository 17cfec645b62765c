package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/forcegraph/physics"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forcegraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, physics.DefaultConfig(), cfg.Physics)
	assert.Equal(t, "set", cfg.Graph.Backend)
	assert.Equal(t, int64(10), cfg.Placement.Seed)
	assert.Equal(t, 20, cfg.Topology.Nodes)
	assert.Equal(t, 5, cfg.Topology.PerGroup)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10000, cfg.Server.MaxSteps)
	assert.Equal(t, []string{"defaults"}, cfg.LoadedFrom)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
physics:
  attraction: 1.5
  steps: 40
graph:
  backend: matrix
  capacity: 32
server:
  read_timeout: 5s
render:
  color_scheme: surreal
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.Physics.Attraction)
	assert.Equal(t, 10.0, cfg.Physics.IdealDistance, "unset keys keep defaults")
	assert.Equal(t, 40, cfg.Physics.Steps)
	assert.Equal(t, "matrix", cfg.Graph.Backend)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "surreal", cfg.Render.ColorScheme)
	assert.Equal(t, []string{"defaults", path}, cfg.LoadedFrom)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "physics:\n  steps: 40\n")
	t.Setenv("FORCEGRAPH_STEPS", "7")
	t.Setenv("FORCEGRAPH_BACKEND", "MATRIX")
	t.Setenv("FORCEGRAPH_PORT", "9191")
	t.Setenv("FORCEGRAPH_SEED", "99")
	t.Setenv("FORCEGRAPH_PLACEMENT", "noise")
	t.Setenv("FORCEGRAPH_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Physics.Steps)
	assert.Equal(t, "matrix", cfg.Graph.Backend)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, int64(99), cfg.Placement.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "environment", cfg.LoadedFrom[len(cfg.LoadedFrom)-1])

	p, err := cfg.Placer()
	require.NoError(t, err)
	assert.IsType(t, physics.NoisePlacer{}, p)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(writeConfig(t, "physics:\n  gravity: 3\n"))
		assert.Error(t, err)
	})

	t.Run("bad env integer", func(t *testing.T) {
		t.Setenv("FORCEGRAPH_STEPS", "many")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("bad backend", func(t *testing.T) {
		t.Setenv("FORCEGRAPH_BACKEND", "tree")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Backend")
	})

	t.Run("bad physics", func(t *testing.T) {
		_, err := Load(writeConfig(t, "physics:\n  ideal_distance: 0\n"))
		assert.ErrorIs(t, err, physics.ErrInvalidConfig)
	})
}

func TestValidateMaxSteps(t *testing.T) {
	cfg := Default()
	cfg.Server.MaxSteps = 0
	assert.Error(t, cfg.Validate())

	_, err := Load(writeConfig(t, "server:\n  max_steps: 500\n"))
	assert.NoError(t, err)
}

func TestValidateCapacity(t *testing.T) {
	cfg := Default()
	cfg.Graph.Backend = "matrix"
	cfg.Graph.Capacity = 5
	assert.Error(t, cfg.Validate())

	cfg.Graph.Capacity = 0
	assert.NoError(t, cfg.Validate())

	cfg.Topology.PerGroup = 0
	assert.Error(t, cfg.Validate())
}

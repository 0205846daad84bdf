package fixedwing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(ConfigEnv, "")
	conf, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSolverConfig(), conf.Solver)
	assert.Equal(t, ExportConfig{OutputDir: ".", AsCSV: true}, conf.Export)
	assert.Equal(t, LogConfig{MaxSizeMB: 10, MaxBackups: 3}, conf.Log)
	assert.Equal(t, TracingConfig{ServiceName: "fixedwing"}, conf.Tracing)
	assert.Equal(t, 512, conf.AtmosphereCache)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	toml := `
[solver]
tolerance = 1e-10
control_points = 8
concurrent_jacobian = true

[export]
filename = "cherokee"
json = true
csv = false

[log]
file = "fixedwing.log"

[tracing]
enabled = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conf.toml"), []byte(toml), 0o644))
	t.Setenv(ConfigEnv, dir)
	for _, arg := range []string{dir, ""} {
		conf, err := LoadConfig(arg)
		require.NoError(t, err)
		assert.Equal(t, 1e-10, conf.Solver.Tolerance)
		assert.Equal(t, 8, conf.Solver.ControlPoints)
		assert.True(t, conf.Solver.ConcurrentJacobian)
		assert.Equal(t, DefaultSolverConfig().MaxIterations, conf.Solver.MaxIterations)
		assert.Equal(t, ExportConfig{Filename: "cherokee", OutputDir: ".", AsJSON: true}, conf.Export)
		assert.Equal(t, "fixedwing.log", conf.Log.File)
		assert.True(t, conf.Tracing.Enabled)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err, "a directory without conf.toml should be rejected")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conf.toml"), []byte("[solver]\ncontrol_points = 1\n"), 0o644))
	_, err = LoadConfig(dir)
	assert.True(t, errors.Is(err, ErrConfiguration), "got %v", err)
}

package fixedwing

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// ConfigEnv names the environment variable holding the directory of conf.toml.
const ConfigEnv = "FIXEDWING_CONFIG"

// Config is the content of conf.toml. Every key is optional.
type Config struct {
	Solver  SolverConfig
	Export  ExportConfig
	Log     LogConfig
	Tracing TracingConfig
	// AtmosphereCache is the number of altitudes memoized by the atmosphere, 0 disables it.
	AtmosphereCache int
}

// LogConfig selects the log destination. An empty File logs to stdout.
type LogConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// TracingConfig enables the stdout span exporter.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
}

func setDefaults(v *viper.Viper) {
	d := DefaultSolverConfig()
	v.SetDefault("solver.tolerance", d.Tolerance)
	v.SetDefault("solver.max_iterations", d.MaxIterations)
	v.SetDefault("solver.control_points", d.ControlPoints)
	v.SetDefault("solver.jacobian_step", d.JacobianStep)
	v.SetDefault("solver.concurrent_jacobian", d.ConcurrentJacobian)
	v.SetDefault("solver.max_backtracks", d.MaxBacktracks)
	v.SetDefault("export.output_path", ".")
	v.SetDefault("export.csv", true)
	v.SetDefault("export.json", false)
	v.SetDefault("export.archive", false)
	v.SetDefault("export.timestamp", false)
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "fixedwing")
	v.SetDefault("atmosphere.cache", 512)
}

// LoadConfig reads conf.toml from dir, or from the directory named by FIXEDWING_CONFIG when dir
// is empty. Defaults are returned when neither is set; a set directory without conf.toml is an error.
func LoadConfig(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	if dir == "" {
		dir = os.Getenv(ConfigEnv)
	}
	if dir != "" {
		v.SetConfigName("conf")
		v.SetConfigType("toml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%s/conf.toml: %w", dir, err)
		}
	}
	conf := Config{
		Solver: SolverConfig{
			Tolerance:          v.GetFloat64("solver.tolerance"),
			MaxIterations:      v.GetInt("solver.max_iterations"),
			ControlPoints:      v.GetInt("solver.control_points"),
			JacobianStep:       v.GetFloat64("solver.jacobian_step"),
			ConcurrentJacobian: v.GetBool("solver.concurrent_jacobian"),
			MaxBacktracks:      v.GetInt("solver.max_backtracks"),
		},
		Export: ExportConfig{
			Filename:  v.GetString("export.filename"),
			OutputDir: v.GetString("export.output_path"),
			AsCSV:     v.GetBool("export.csv"),
			AsJSON:    v.GetBool("export.json"),
			Archive:   v.GetBool("export.archive"),
			Timestamp: v.GetBool("export.timestamp"),
		},
		Log: LogConfig{
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
		},
		Tracing: TracingConfig{
			Enabled:     v.GetBool("tracing.enabled"),
			ServiceName: v.GetString("tracing.service_name"),
		},
		AtmosphereCache: v.GetInt("atmosphere.cache"),
	}
	if err := conf.Solver.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

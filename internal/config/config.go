package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the rosterd server configuration. Precedence, lowest to
// highest: defaults, YAML config file, environment, command-line flags.
type Config struct {
	Addr      string `env:"ROSTERD_ADDR" yaml:"addr"`
	LogLevel  string `env:"ROSTERD_LOG_LEVEL" yaml:"log_level"`
	LogFormat string `env:"ROSTERD_LOG_FORMAT" yaml:"log_format"`
	DBPath    string `env:"ROSTERD_DB" yaml:"db_path"`

	Solver SolverConfig `envPrefix:"ROSTERD_SOLVER_" yaml:"solver"`
}

// SolverConfig bounds the local-search engine.
type SolverConfig struct {
	// Parallel is the number of jobs solving at once; submissions beyond it
	// queue as SOLVING_SCHEDULED.
	Parallel int `env:"PARALLEL" yaml:"parallel"`
	// StepLimit caps total local-search steps per job (0 means unlimited).
	StepLimit int `env:"STEP_LIMIT" yaml:"step_limit"`
	// UnimprovedStepLimit terminates a job after this many steps without a
	// new best solution.
	UnimprovedStepLimit int `env:"UNIMPROVED_STEP_LIMIT" yaml:"unimproved_step_limit"`
	// TimeLimitSeconds caps wall-clock time per job (0 means unlimited).
	TimeLimitSeconds int `env:"TIME_LIMIT_SECONDS" yaml:"time_limit_seconds"`
	// MoveSample is how many random moves each step evaluates.
	MoveSample int `env:"MOVE_SAMPLE" yaml:"move_sample"`
	// TabuSize is the entity tabu tenure for TABU_SEARCH.
	TabuSize int `env:"TABU_SIZE" yaml:"tabu_size"`
	// LateAcceptanceSize is the history length for LATE_ACCEPTANCE.
	LateAcceptanceSize int `env:"LATE_ACCEPTANCE_SIZE" yaml:"late_acceptance_size"`
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "text",
		DBPath:    "", // resolved to ~/.rosterd/rosterd.db by the server binary
		Solver: SolverConfig{
			Parallel:            2,
			StepLimit:           0,
			UnimprovedStepLimit: 200,
			TimeLimitSeconds:    30,
			MoveSample:          32,
			TabuSize:            7,
			LateAcceptanceSize:  64,
		},
	}
}

// Load builds the configuration: defaults, then the optional YAML file at
// path (empty path skips it), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

// Package config loads and validates system configurations: the named
// presets the workbench ships with, and user-provided YAML files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/forklab/gofork/internal/project"
	"github.com/forklab/gofork/pkg/eqscan"
)

// fileConfig is the YAML shape of a system configuration file.
type fileConfig struct {
	Name        string    `yaml:"name"`
	Equations   []string  `yaml:"equations"`
	ParamNames  []string  `yaml:"param_names"`
	ParamValues []float64 `yaml:"param_values"`
	VarNames    []string  `yaml:"var_names"`
	Solver      string    `yaml:"solver"`
	Kind        string    `yaml:"system_kind"`
}

// Load reads a system configuration from a YAML file. Missing solver
// and kind fields default to rk4/flow.
func Load(path string) (project.SystemConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return project.SystemConfig{}, err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return project.SystemConfig{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg := project.SystemConfig{
		Name:        fc.Name,
		Equations:   fc.Equations,
		ParamNames:  fc.ParamNames,
		ParamValues: fc.ParamValues,
		VarNames:    fc.VarNames,
		Solver:      fc.Solver,
		Kind:        fc.Kind,
	}
	if cfg.Solver == "" {
		cfg.Solver = "rk4"
	}
	if cfg.Kind == "" {
		cfg.Kind = "flow"
	}
	if err := Validate(cfg); err != nil {
		return project.SystemConfig{}, err
	}
	return cfg, nil
}

// Validate checks the structural consistency of a configuration:
// one equation per variable, parameter names matched with values,
// known solver and kind tags.
func Validate(cfg project.SystemConfig) error {
	if len(cfg.VarNames) == 0 {
		return fmt.Errorf("config %q declares no variables", cfg.Name)
	}
	if len(cfg.Equations) != len(cfg.VarNames) {
		return fmt.Errorf("config %q has %d equations for %d variables",
			cfg.Name, len(cfg.Equations), len(cfg.VarNames))
	}
	if len(cfg.ParamNames) != len(cfg.ParamValues) {
		return fmt.Errorf("config %q has %d parameter names for %d values",
			cfg.Name, len(cfg.ParamNames), len(cfg.ParamValues))
	}
	switch cfg.Solver {
	case "rk4", "tsit5", "discrete":
	default:
		return fmt.Errorf("config %q has unknown solver %q", cfg.Name, cfg.Solver)
	}
	switch cfg.Kind {
	case "flow", "map":
	default:
		return fmt.Errorf("config %q has unknown system kind %q", cfg.Name, cfg.Kind)
	}

	return nil
}

// UnusedNames returns declared variable and parameter names that no
// equation references. Not an error (constant right-hand sides are
// legal), but worth surfacing in tooling.
func UnusedNames(cfg project.SystemConfig) []string {
	names := append(append([]string(nil), cfg.VarNames...), cfg.ParamNames...)
	return eqscan.New(names).Unused(cfg.Equations)
}

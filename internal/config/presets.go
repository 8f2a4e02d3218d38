package config

import "github.com/forklab/gofork/internal/project"

// Presets are the example systems the workbench ships with.
var Presets = map[string]project.SystemConfig{
	"lorenz": {
		Name:        "Lorenz",
		Equations:   []string{"sigma*(y - x)", "x*(rho - z) - y", "x*y - beta*z"},
		ParamNames:  []string{"sigma", "rho", "beta"},
		ParamValues: []float64{10, 28, 8.0 / 3.0},
		VarNames:    []string{"x", "y", "z"},
		Solver:      "rk4",
		Kind:        "flow",
	},
	"vanderpol": {
		Name:        "Van der Pol",
		Equations:   []string{"y", "mu*(1 - x^2)*y - x"},
		ParamNames:  []string{"mu"},
		ParamValues: []float64{1},
		VarNames:    []string{"x", "y"},
		Solver:      "tsit5",
		Kind:        "flow",
	},
	"duffing": {
		Name:        "Duffing",
		Equations:   []string{"y", "-delta*y - alpha*x - beta*x^3"},
		ParamNames:  []string{"alpha", "beta", "delta"},
		ParamValues: []float64{-1, 1, 0.3},
		VarNames:    []string{"x", "y"},
		Solver:      "rk4",
		Kind:        "flow",
	},
	"saddle_node": {
		Name:        "Saddle-node",
		Equations:   []string{"mu - x^2"},
		ParamNames:  []string{"mu"},
		ParamValues: []float64{1},
		VarNames:    []string{"x"},
		Solver:      "rk4",
		Kind:        "flow",
	},
	"logistic": {
		Name:        "Logistic map",
		Equations:   []string{"r*x*(1 - x)"},
		ParamNames:  []string{"r"},
		ParamValues: []float64{3.2},
		VarNames:    []string{"x"},
		Solver:      "discrete",
		Kind:        "map",
	},
	"henon": {
		Name:        "Henon map",
		Equations:   []string{"1 - a*x^2 + y", "b*x"},
		ParamNames:  []string{"a", "b"},
		ParamValues: []float64{1.4, 0.3},
		VarNames:    []string{"x", "y"},
		Solver:      "discrete",
		Kind:        "map",
	},
}

// Preset returns a defensive copy of the named preset.
func Preset(name string) (project.SystemConfig, bool) {
	cfg, ok := Presets[name]
	if !ok {
		return project.SystemConfig{}, false
	}
	out := cfg
	out.Equations = append([]string(nil), cfg.Equations...)
	out.ParamNames = append([]string(nil), cfg.ParamNames...)
	out.ParamValues = append([]float64(nil), cfg.ParamValues...)
	out.VarNames = append([]string(nil), cfg.VarNames...)
	return out, true
}

package project

import "fmt"

// stubIdentity is the deterministic Identity used throughout the tests:
// sequential ids and a strictly increasing fake clock.
type stubIdentity struct {
	ids   int
	ticks int
}

func (s *stubIdentity) NewID(prefix string) string {
	s.ids++
	return fmt.Sprintf("%s-%03d", prefix, s.ids)
}

func (s *stubIdentity) Now() string {
	s.ticks++
	return fmt.Sprintf("ts-%04d", s.ticks)
}

func newTestEditor() *Editor {
	return NewEditor(&stubIdentity{}, nil)
}

// orbit returns a small orbit payload for tests.
func orbit(name string) *AnalysisObject {
	return &AnalysisObject{
		Type:   TypeOrbit,
		Name:   name,
		Points: [][]float64{{0, 0}, {0.1, 0.2}},
		Times:  []float64{0, 0.01},
	}
}

// cycle returns a small limit-cycle payload for tests.
func cycle(name string) *AnalysisObject {
	return &AnalysisObject{
		Type:   TypeLimitCycle,
		Name:   name,
		Points: [][]float64{{1, 0}, {0, 1}, {-1, 0}},
		Period: 6.28,
	}
}

// branch returns a small continuation branch for tests.
func branch(name string) *Branch {
	return &Branch{
		Name:       name,
		ParamName:  "mu",
		BranchType: "equilibrium",
		Points: []BranchPoint{
			{State: []float64{0, 0}, ParamValue: 0.1, Stability: "none"},
			{State: []float64{0.2, 0}, ParamValue: 0.2, Stability: "fold"},
		},
		Settings: ContinuationSettings{StepSize: 0.01, MaxSteps: 100},
	}
}

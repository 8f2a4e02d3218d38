// Package eqscan scans equation text for identifier occurrences. It is
// a thin Aho-Corasick wrapper: given the declared variable and
// parameter names of a system, it reports which of them each equation
// actually references. The config layer uses it to flag declared but
// unused names, and rename tooling uses it to find every affected
// equation in one pass.
package eqscan

import (
	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Match is one identifier occurrence in an equation string.
type Match struct {
	Name  string // the matched identifier
	Start int    // byte offset start
	End   int    // byte offset end
}

// Scanner matches a fixed set of identifiers in O(n) per equation.
type Scanner struct {
	ac    ahocorasick.AhoCorasick
	names []string
}

// New builds a scanner for the given identifier names. Matching is
// case-sensitive (x and X are different variables) and whole-word, so
// the parameter "a" is not found inside "alpha".
func New(names []string) *Scanner {
	patterns := append([]string(nil), names...)
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: false,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	return &Scanner{
		ac:    builder.Build(patterns),
		names: patterns,
	}
}

// Scan returns every identifier occurrence in the equation.
func (s *Scanner) Scan(equation string) []Match {
	found := s.ac.FindAll(equation)
	out := make([]Match, 0, len(found))
	for _, m := range found {
		out = append(out, Match{
			Name:  s.names[m.Pattern()],
			Start: m.Start(),
			End:   m.End(),
		})
	}
	return out
}

// Used reports which of the scanner's identifiers appear in at least
// one of the equations.
func (s *Scanner) Used(equations []string) map[string]bool {
	used := make(map[string]bool, len(s.names))
	for _, eq := range equations {
		for _, m := range s.Scan(eq) {
			used[m.Name] = true
		}
	}
	return used
}

// Unused returns the scanner's identifiers that no equation
// references, in declaration order.
func (s *Scanner) Unused(equations []string) []string {
	used := s.Used(equations)
	var out []string
	for _, name := range s.names {
		if !used[name] {
			out = append(out, name)
		}
	}
	return out
}

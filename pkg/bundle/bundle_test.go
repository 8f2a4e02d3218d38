package bundle

import (
	"fmt"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forklab/gofork/internal/project"
)

type seqIdentity struct {
	ids int
}

func (s *seqIdentity) NewID(prefix string) string {
	s.ids++
	return fmt.Sprintf("%s-%03d", prefix, s.ids)
}

func (s *seqIdentity) Now() string { return "2026-01-01T00:00:00Z" }

func TestExportImportRoundTrip(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)

	editor := project.NewEditor(&seqIdentity{}, nil)
	sys := editor.NewSystem("Round Trip")
	sys, _ = editor.AddObject(sys, &project.AnalysisObject{
		Type: project.TypeOrbit, Name: "orbit", Points: [][]float64{{0, 1}},
	})
	sys = editor.Normalize(sys)

	require.NoError(t, Export(fs, "project.json", sys))

	got, err := Import(fs, "project.json", editor)
	require.NoError(t, err)
	assert.Equal(t, sys, got)
}

func TestImportHealsLegacyBundle(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)

	// A pre-scenes document with a legacy diagram shape.
	legacy := []byte(`{
		"id": "sys-legacy",
		"name": "Old",
		"config": {"name": "Old", "equations": ["mu - x^2"], "paramNames": ["mu"],
			"paramValues": [1], "varNames": ["x"], "solver": "rk4", "systemKind": "flow"},
		"branches": {"b1": {"name": "branch", "paramName": "mu"}},
		"bifurcationDiagrams": [{"id": "d1", "name": "diagram", "branchId": "b1", "xParam": "mu"}]
	}`)
	require.NoError(t, hackpadfs.WriteFullFile(fs, "legacy.json", legacy, 0o644))

	got, err := Import(fs, "legacy.json", project.NewEditor(&seqIdentity{}, nil))
	require.NoError(t, err)

	require.NotEmpty(t, got.Scenes)
	d := got.DiagramByID("d1")
	require.NotNil(t, d)
	assert.Equal(t, []string{"b1"}, d.SelectedBranchIDs)
	require.NotNil(t, d.XAxis)
	assert.Equal(t, "mu", d.XAxis.Name)
	assert.Empty(t, d.LegacyBranchID)
}

func TestImportMissingFile(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)

	_, err = Import(fs, "nope.json", nil)
	assert.Error(t, err)
}

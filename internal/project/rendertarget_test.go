package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTargetRoundTrip(t *testing.T) {
	e := newTestEditor()
	s := e.NewSystem("Demo")
	s, lcID := e.AddObject(s, cycle("lc"))
	s, brID := e.AddBranch(s, branch("br"), lcID)

	target := RenderTarget{Type: RenderFromBranch, BranchID: brID, PointIndex: 1}
	out := e.UpdateLimitCycleRenderTarget(s, lcID, &target)

	got, ok := out.UI.LimitCycleRenderTargets[lcID]
	require.True(t, ok)
	assert.Equal(t, target, got)

	cleared := e.UpdateLimitCycleRenderTarget(out, lcID, nil)
	assert.NotContains(t, cleared.UI.LimitCycleRenderTargets, lcID)

	// Clearing again changes nothing.
	assert.Same(t, cleared, e.UpdateLimitCycleRenderTarget(cleared, lcID, nil))
}

func TestRenderTargetRefusesInvalidInput(t *testing.T) {
	e := newTestEditor()
	s := e.NewSystem("Demo")
	s, lcID := e.AddObject(s, cycle("lc"))
	s, orbID := e.AddObject(s, orbit("orb"))
	s, brID := e.AddBranch(s, branch("br"), lcID)

	// Only limit-cycle objects carry render targets.
	assert.Same(t, s, e.UpdateLimitCycleRenderTarget(s, orbID, &RenderTarget{Type: RenderFromObject}))
	assert.Same(t, s, e.UpdateLimitCycleRenderTarget(s, "missing", &RenderTarget{Type: RenderFromObject}))

	// Branch variant must name an existing branch and a sane index.
	assert.Same(t, s, e.UpdateLimitCycleRenderTarget(s, lcID, &RenderTarget{
		Type: RenderFromBranch, BranchID: "missing", PointIndex: 0,
	}))
	assert.Same(t, s, e.UpdateLimitCycleRenderTarget(s, lcID, &RenderTarget{
		Type: RenderFromBranch, BranchID: brID, PointIndex: -1,
	}))
	assert.Same(t, s, e.UpdateLimitCycleRenderTarget(s, lcID, &RenderTarget{Type: "bogus"}))

	// The own-state variant needs no branch at all.
	out := e.UpdateLimitCycleRenderTarget(s, lcID, &RenderTarget{Type: RenderFromObject})
	assert.Equal(t, RenderFromObject, out.UI.LimitCycleRenderTargets[lcID].Type)
}

package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/agentmind/internal/world"
)

func TestSpatialGridQueryRadius(t *testing.T) {
	g := world.NewSpatialGrid(10)
	g.Insert(1, world.Vec2{X: 5, Y: 5}, world.KindAgent)
	g.Insert(2, world.Vec2{X: 8, Y: 5}, world.KindResource)
	g.Insert(3, world.Vec2{X: 95, Y: 95}, world.KindThreat)

	hits := g.QueryRadius(world.Vec2{X: 5, Y: 5}, 10)
	require.Len(t, hits, 2)

	ids := map[world.EntityID]bool{}
	for _, h := range hits {
		ids[h.ID] = true
	}
	assert.True(t, ids[1])
	assert.True(t, ids[2])
	assert.False(t, ids[3])
}

func TestSpatialGridMoveAndRemove(t *testing.T) {
	g := world.NewSpatialGrid(10)
	g.Insert(1, world.Vec2{X: 5, Y: 5}, world.KindAgent)

	// Insert with an existing ID moves the entity.
	g.Insert(1, world.Vec2{X: 200, Y: 200}, world.KindAgent)
	assert.Empty(t, g.QueryRadius(world.Vec2{X: 5, Y: 5}, 10))
	assert.Len(t, g.QueryRadius(world.Vec2{X: 200, Y: 200}, 10), 1)

	g.Remove(1)
	assert.Empty(t, g.QueryRadius(world.Vec2{X: 200, Y: 200}, 10))
	assert.Equal(t, 0, g.Len())

	g.Remove(42) // Unknown ID is a no-op
}

func TestSnapshotIsolation(t *testing.T) {
	w := world.New(10)
	r := w.AddResource(world.ResourceFood, world.Vec2{X: 10, Y: 10}, 50)

	snap := w.Snapshot()

	// Mutations after the snapshot are invisible to it.
	r.Amount = 0
	w.RemoveResource(r.ID)
	w.AddThreat(world.Vec2{X: 10, Y: 12}, 0.9, world.Vec2{})

	got, ok := snap.Resource(r.ID)
	require.True(t, ok)
	assert.Equal(t, 50.0, got.Amount)

	hits := snap.QueryRadius(world.Vec2{X: 10, Y: 10}, 5)
	assert.Len(t, hits, 1)
	assert.Equal(t, world.KindResource, hits[0].Kind)
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := world.DefaultGenConfig()
	a := world.Generate(cfg)
	b := world.Generate(cfg)

	require.Equal(t, len(a.Resources), len(b.Resources))
	require.Equal(t, len(a.Threats), len(b.Threats))
	for id, ra := range a.Resources {
		rb, ok := b.Resources[id]
		require.True(t, ok)
		assert.Equal(t, ra.Pos, rb.Pos)
		assert.Equal(t, ra.Kind, rb.Kind)
	}
}

func TestGeneratePlacesBothKinds(t *testing.T) {
	w := world.Generate(world.DefaultGenConfig())

	var food, water int
	for _, r := range w.Resources {
		switch r.Kind {
		case world.ResourceFood:
			food++
		case world.ResourceWater:
			water++
		}
	}
	assert.Greater(t, food, 0)
	assert.Greater(t, water, 0)
	assert.Greater(t, len(w.Threats), 0)
}

func TestVec2Helpers(t *testing.T) {
	a := world.Vec2{X: 3, Y: 4}
	assert.Equal(t, 5.0, a.Length())
	assert.Equal(t, 5.0, world.Vec2{}.DistanceTo(a))

	n := a.Normalized()
	assert.InDelta(t, 1.0, n.Length(), 1e-9)
	assert.Equal(t, world.Vec2{}, world.Vec2{}.Normalized())
}

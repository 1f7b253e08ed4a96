package system

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amstel/engine/internal/config"
	"github.com/amstel/engine/internal/core/ecs"
	"github.com/amstel/engine/internal/core/event"
	"github.com/amstel/engine/internal/world"
)

func newTestWorld(t *testing.T) *world.World {
	t.Helper()
	cfg := &config.Config{Scene: config.SceneConfig{InitialCapacity: 4}}
	w := world.New(ecs.NewUnitManager(0), cfg, zap.NewNop())
	t.Cleanup(w.Close)
	RegisterDefaults(w)
	return w
}

func TestFrameLoop(t *testing.T) {
	w := newTestWorld(t)
	require.Equal(t, 3, w.Runner().Len())

	var spawned, destroyed []ecs.UnitID
	event.Subscribe(w.Bus(), func(ev event.UnitSpawned) { spawned = append(spawned, ev.Unit) })
	event.Subscribe(w.Bus(), func(ev event.UnitDestroyed) { destroyed = append(destroyed, ev.Unit) })

	a := w.SpawnUnit(world.UnitDesc{Pose: mgl64.Ident4()})
	b := w.SpawnUnit(world.UnitDesc{Pose: mgl64.Translate3D(0, 1, 0)})
	w.Link(b, a)
	w.DestroyUnitDeferred(a)

	// Frame 1: spawn events delivered, link forwarded, a destroyed at the end.
	w.Update(time.Second / 60)
	assert.Equal(t, []ecs.UnitID{a, b}, spawned)
	assert.Empty(t, destroyed)
	assert.Equal(t, 1, w.LastChanged())
	assert.False(t, w.Manager().IsAlive(a))
	assert.Equal(t, []ecs.UnitID{b}, w.Units())
	assert.Zero(t, w.Manager().Pending())

	// Frame 2: the destroy event arrives; b became a root and was forwarded.
	w.Update(time.Second / 60)
	assert.Equal(t, []ecs.UnitID{a}, destroyed)
	assert.Equal(t, uint64(2), w.Runner().Frame())
}

func TestCleanupIgnoresStaleQueueEntries(t *testing.T) {
	w := newTestWorld(t)
	a := w.SpawnUnit(world.UnitDesc{Pose: mgl64.Ident4()})
	w.DestroyUnitDeferred(a)
	w.DestroyUnitDeferred(a)

	s := NewCleanupSystem(w.Manager(), zap.NewNop())
	s.Update(0)
	assert.False(t, w.Manager().IsAlive(a))
	assert.Zero(t, w.UnitCount())
	s.Update(0)
}

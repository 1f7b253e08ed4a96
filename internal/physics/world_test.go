package physics

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/amstel/engine/internal/config"
	"github.com/amstel/engine/internal/core/ecs"
)

func newTestWorld(t *testing.T) (*ecs.UnitManager, *World) {
	t.Helper()
	um := ecs.NewUnitManager(0)
	w := NewWorld(um, config.PhysicsConfig{Gravity: [2]float64{0, -10}, Iterations: 10}, zap.NewNop())
	t.Cleanup(w.Close)
	return um, w
}

var ball = ActorDesc{Type: ActorDynamic, Shape: ShapeCircle, Radius: 0.5, Mass: 2}

func TestDynamicActorFallsAndReports(t *testing.T) {
	um, w := newTestWorld(t)
	falling := um.Create()
	floor := um.Create()
	w.ActorCreate(falling, ball, mgl64.Translate3D(0, 10, 3))
	w.ActorCreate(floor, ActorDesc{Type: ActorStatic, Shape: ShapeBox, Width: 20, Height: 1}, mgl64.Ident4())

	// Positions integrate before velocities, so the first step only
	// accelerates the body.
	w.Update(100 * time.Millisecond)
	require.Len(t, w.Events(), 1, "only dynamic actors report")
	assert.Equal(t, falling, w.Events()[0].Unit)
	assert.InDelta(t, 10.0, w.Events()[0].Position.Y(), 1e-12)
	assert.Less(t, w.ActorVelocity(w.Actor(falling)).Y(), 0.0)
	w.ClearEvents()

	w.Update(100 * time.Millisecond)
	events := w.Events()
	require.Len(t, events, 1)
	ev := events[0]
	assert.Less(t, ev.Position.Y(), 10.0)
	assert.Equal(t, 3.0, ev.Position.Z(), "depth survives the 2D step")
	assert.Equal(t, ev.Position, w.ActorPosition(w.Actor(falling)))

	w.ClearEvents()
	assert.Empty(t, w.Events())

	w.Update(0)
	assert.Empty(t, w.Events())
}

func TestUpdateActorWorldPosesTeleports(t *testing.T) {
	um, w := newTestWorld(t)
	a := um.Create()
	other := um.Create()
	i := w.ActorCreate(a, ball, mgl64.Ident4())

	pose := mgl64.Translate3D(4, 5, 6).Mul4(mgl64.HomogRotate3DZ(math.Pi / 4))
	w.UpdateActorWorldPoses([]ecs.UnitID{other, a}, []mgl64.Mat4{mgl64.Ident4(), pose})

	assert.Equal(t, mgl64.Vec3{4, 5, 6}, w.ActorPosition(i))
	assert.InDelta(t, math.Pi/4, w.ActorAngle(i), 1e-12)
}

func TestStaticActorTeleport(t *testing.T) {
	um, w := newTestWorld(t)
	a := um.Create()
	i := w.ActorCreate(a, ActorDesc{Type: ActorStatic, Shape: ShapeBox, Width: 1, Height: 1}, mgl64.Ident4())
	w.UpdateActorWorldPoses([]ecs.UnitID{a}, []mgl64.Mat4{mgl64.Translate3D(2, 0, 0)})
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, w.ActorPosition(i))
	assert.Equal(t, ActorStatic, w.ActorType(i))

	bb := w.shape.Get(i).BB()
	assert.InDelta(t, 1.5, bb.L, 1e-9, "static index sees the moved bounds")
	assert.InDelta(t, 2.5, bb.R, 1e-9)
	assert.Equal(t, 1, w.ActorCount())
}

func TestKinematicActorMovesWithoutGravity(t *testing.T) {
	um, w := newTestWorld(t)
	a := um.Create()
	i := w.ActorCreate(a, ActorDesc{Type: ActorKinematic, Shape: ShapeBox, Width: 1, Height: 1}, mgl64.Ident4())
	w.ActorSetVelocity(i, mgl64.Vec2{2, 0})

	w.Update(500 * time.Millisecond)
	assert.InDelta(t, 1.0, w.ActorPosition(i).X(), 1e-9)
	assert.InDelta(t, 0.0, w.ActorPosition(i).Y(), 1e-9)
	assert.Empty(t, w.Events())
}

func TestActorContract(t *testing.T) {
	um, w := newTestWorld(t)
	a := um.Create()
	w.ActorCreate(a, ball, mgl64.Ident4())

	assert.Panics(t, func() { w.ActorCreate(a, ball, mgl64.Ident4()) })
	assert.Panics(t, func() {
		w.ActorCreate(um.Create(), ActorDesc{Type: ActorDynamic, Shape: ShapeBox}, mgl64.Ident4())
	})
	assert.Panics(t, func() {
		w.ActorCreate(um.Create(), ActorDesc{Type: ActorDynamic, Shape: ShapeCircle}, mgl64.Ident4())
	})
	assert.Equal(t, 1, w.ActorCount())
}

func TestUnitDestroyRemovesActor(t *testing.T) {
	um, w := newTestWorld(t)
	a, b := um.Create(), um.Create()
	w.ActorCreate(a, ball, mgl64.Ident4())
	w.ActorCreate(b, ball, mgl64.Translate3D(5, 0, 0))

	um.Destroy(a)

	assert.False(t, w.Actor(a).IsValid())
	require.True(t, w.Actor(b).IsValid())
	assert.Equal(t, 1, w.ActorCount())
	assert.Equal(t, 5.0, w.ActorPosition(w.Actor(b)).X())

	w.Update(16 * time.Millisecond)
	require.Len(t, w.Events(), 1)
	assert.Equal(t, b, w.Events()[0].Unit)
}

func TestParseNames(t *testing.T) {
	for _, at := range []ActorType{ActorStatic, ActorDynamic, ActorKinematic} {
		got, err := ParseActorType(at.String())
		require.NoError(t, err)
		assert.Equal(t, at, got)
	}
	for _, sk := range []ShapeKind{ShapeBox, ShapeCircle} {
		got, err := ParseShapeKind(sk.String())
		require.NoError(t, err)
		assert.Equal(t, sk, got)
	}
	_, err := ParseActorType("ghost")
	assert.Error(t, err)
	_, err = ParseShapeKind("capsule")
	assert.Error(t, err)
}

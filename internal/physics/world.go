// Package physics simulates actors on the XY plane with Chipmunk. Poses come
// in from the scene graph each frame and dynamic bodies report back through
// TransformEvents.
package physics

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/amstel/engine/internal/config"
	"github.com/amstel/engine/internal/core/ecs"
)

type World struct {
	units *ecs.UnitManager
	space *cp.Space
	log   *zap.Logger

	pool  *ecs.Pool
	body  *ecs.Column[*cp.Body]
	shape *ecs.Column[*cp.Shape]
	typ   *ecs.Column[ActorType]
	depth *ecs.Column[float64] // z of the last pose, restored on the way out

	events []TransformEvent
}

// NewWorld creates a physics world and subscribes it to unit destruction.
func NewWorld(um *ecs.UnitManager, cfg config.PhysicsConfig, log *zap.Logger) *World {
	space := cp.NewSpace()
	space.Iterations = uint(max(cfg.Iterations, 1))
	space.SetGravity(cp.Vector{X: cfg.Gravity[0], Y: cfg.Gravity[1]})

	p := ecs.NewPool(ecs.PoolSingle, 0)
	w := &World{
		units: um,
		space: space,
		log:   log,
		pool:  p,
		body:  ecs.NewColumn[*cp.Body](p),
		shape: ecs.NewColumn[*cp.Shape](p),
		typ:   ecs.NewColumn[ActorType](p),
		depth: ecs.NewColumn[float64](p),
	}
	um.RegisterDestroyFunc(w, w.onUnitDestroyed)
	return w
}

func (w *World) Close() {
	w.units.UnregisterDestroyFunc(w)
}

func (w *World) onUnitDestroyed(id ecs.UnitID) {
	if i := w.pool.First(id); i.IsValid() {
		w.ActorDestroy(i)
	}
}

// ActorCreate gives id a body placed at pose. Panics if id already has an
// actor or the collider has no extent.
func (w *World) ActorCreate(id ecs.UnitID, desc ActorDesc, pose mgl64.Mat4) ActorInstance {
	if w.pool.Has(id) {
		panic(fmt.Sprintf("physics: %s already has an actor", id))
	}

	var body *cp.Body
	switch desc.Type {
	case ActorStatic:
		body = cp.NewStaticBody()
	case ActorKinematic:
		body = cp.NewKinematicBody()
	default:
		mass := desc.Mass
		if mass <= 0 {
			mass = 1
		}
		var moment float64
		if desc.Shape == ShapeCircle {
			moment = cp.MomentForCircle(mass, 0, desc.Radius, cp.Vector{})
		} else {
			moment = cp.MomentForBox(mass, desc.Width, desc.Height)
		}
		body = cp.NewBody(mass, moment)
	}

	pos := pose.Col(3)
	body.SetPosition(cp.Vector{X: pos[0], Y: pos[1]})
	body.SetAngle(angleOf(pose))

	var shape *cp.Shape
	switch desc.Shape {
	case ShapeCircle:
		if desc.Radius <= 0 {
			panic(fmt.Sprintf("physics: circle actor for %s has radius %g", id, desc.Radius))
		}
		shape = cp.NewCircle(body, desc.Radius, cp.Vector{})
	default:
		if desc.Width <= 0 || desc.Height <= 0 {
			panic(fmt.Sprintf("physics: box actor for %s has size %gx%g", id, desc.Width, desc.Height))
		}
		shape = cp.NewBox(body, desc.Width, desc.Height, 0)
	}
	shape.SetFriction(desc.Friction)
	shape.SetElasticity(desc.Elasticity)

	w.space.AddBody(body)
	w.space.AddShape(shape)

	i := w.pool.Create(id)
	w.body.Set(i, body)
	w.shape.Set(i, shape)
	w.typ.Set(i, desc.Type)
	w.depth.Set(i, pos[2])

	w.log.Debug("actor created",
		zap.Stringer("unit", id),
		zap.Stringer("type", desc.Type),
		zap.Stringer("shape", desc.Shape))
	return i
}

// ActorDestroy removes actor i and its body from the space.
func (w *World) ActorDestroy(i ActorInstance) {
	w.space.RemoveShape(w.shape.Get(i))
	w.space.RemoveBody(w.body.Get(i))
	w.pool.Destroy(i)
}

// Actor returns the actor of id, or ecs.InvalidInstance.
func (w *World) Actor(id ecs.UnitID) ActorInstance {
	return w.pool.First(id)
}

func (w *World) ActorType(i ActorInstance) ActorType {
	return w.typ.Get(i)
}

func (w *World) ActorPosition(i ActorInstance) mgl64.Vec3 {
	p := w.body.Get(i).Position()
	return mgl64.Vec3{p.X, p.Y, w.depth.Get(i)}
}

func (w *World) ActorAngle(i ActorInstance) float64 {
	return w.body.Get(i).Angle()
}

// ActorSetVelocity sets the linear velocity of a dynamic or kinematic actor.
func (w *World) ActorSetVelocity(i ActorInstance, v mgl64.Vec2) {
	w.body.Get(i).SetVelocityVector(cp.Vector{X: v[0], Y: v[1]})
}

func (w *World) ActorVelocity(i ActorInstance) mgl64.Vec2 {
	v := w.body.Get(i).Velocity()
	return mgl64.Vec2{v.X, v.Y}
}

func (w *World) ActorCount() int {
	return w.pool.Len()
}

// UpdateActorWorldPoses teleports the actors of units whose transforms
// changed outside the simulation. units and poses are parallel.
func (w *World) UpdateActorWorldPoses(units []ecs.UnitID, poses []mgl64.Mat4) {
	for k, id := range units {
		i := w.pool.First(id)
		if !i.IsValid() {
			continue
		}
		pose := poses[k]
		pos := pose.Col(3)
		body := w.body.Get(i)
		body.SetPosition(cp.Vector{X: pos[0], Y: pos[1]})
		body.SetAngle(angleOf(pose))
		w.depth.Set(i, pos[2])
		if w.typ.Get(i) == ActorStatic {
			s := w.shape.Get(i)
			w.space.RemoveShape(s)
			w.space.AddShape(s)
		}
	}
}

// Update advances the simulation by dt and queues a TransformEvent for every
// awake dynamic actor.
func (w *World) Update(dt time.Duration) {
	if dt <= 0 {
		return
	}
	w.space.Step(dt.Seconds())

	z := mgl64.Vec3{0, 0, 1}
	for n, typ := range w.typ.Values() {
		if typ != ActorDynamic {
			continue
		}
		i := ActorInstance(n)
		body := w.body.Get(i)
		if body.IsSleeping() {
			continue
		}
		p := body.Position()
		w.events = append(w.events, TransformEvent{
			Unit:     w.pool.Unit(i),
			Position: mgl64.Vec3{p.X, p.Y, w.depth.Get(i)},
			Rotation: mgl64.QuatRotate(body.Angle(), z),
		})
	}
}

// Events returns the transform events queued since the last ClearEvents.
func (w *World) Events() []TransformEvent {
	return w.events
}

func (w *World) ClearEvents() {
	clear(w.events)
	w.events = w.events[:0]
}

// angleOf extracts the rotation about Z from the X axis of m.
func angleOf(m mgl64.Mat4) float64 {
	return math.Atan2(m[1], m[0])
}

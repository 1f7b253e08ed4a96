// Package world ties one scene graph to its render and physics worlds and
// drives the per-frame transform flow between them.
package world

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/amstel/engine/internal/config"
	"github.com/amstel/engine/internal/core/ecs"
	"github.com/amstel/engine/internal/core/event"
	coresys "github.com/amstel/engine/internal/core/system"
	"github.com/amstel/engine/internal/physics"
	"github.com/amstel/engine/internal/render"
	"github.com/amstel/engine/internal/scene"
)

// UnitDesc describes a unit to spawn: its world pose and the components to
// attach. Nil components are skipped.
type UnitDesc struct {
	Pose   mgl64.Mat4
	Meshes []render.MeshDesc
	Sprite *render.SpriteDesc
	Light  *render.LightDesc
	Camera *render.CameraDesc
	Actor  *physics.ActorDesc
}

// World is a set of units sharing a scene graph. The unit manager may be
// shared with other worlds; a world only reacts to the units it spawned.
// Accessed only from the simulation goroutine.
type World struct {
	units   *ecs.UnitManager
	graph   *scene.SceneGraph
	render  *render.World
	physics *physics.World // nil when physics is disabled
	bus     *event.Bus
	runner  *coresys.Runner
	log     *zap.Logger

	live  []ecs.UnitID
	index map[ecs.UnitID]int // position in live

	changedUnits []ecs.UnitID
	changedPoses []mgl64.Mat4
	lastChanged  int
}

func New(um *ecs.UnitManager, cfg *config.Config, log *zap.Logger) *World {
	w := &World{
		units:  um,
		graph:  scene.New(cfg.Scene.InitialCapacity),
		render: render.NewWorld(um),
		bus:    event.NewBus(),
		runner: coresys.NewRunner(),
		log:    log,
		index:  make(map[ecs.UnitID]int),
	}
	if cfg.Physics.Enabled {
		w.physics = physics.NewWorld(um, cfg.Physics, log.Named("physics"))
	}
	um.RegisterDestroyFunc(w, w.onUnitDestroyed)
	return w
}

// Close detaches the world and its collaborators from the unit manager.
func (w *World) Close() {
	w.units.UnregisterDestroyFunc(w)
	w.render.Close()
	if w.physics != nil {
		w.physics.Close()
	}
}

func (w *World) Manager() *ecs.UnitManager     { return w.units }
func (w *World) SceneGraph() *scene.SceneGraph { return w.graph }
func (w *World) Render() *render.World         { return w.render }
func (w *World) Physics() *physics.World       { return w.physics }
func (w *World) Bus() *event.Bus               { return w.bus }
func (w *World) Runner() *coresys.Runner       { return w.runner }
func (w *World) Log() *zap.Logger              { return w.log }

// SpawnEmptyUnit creates a unit with no components.
func (w *World) SpawnEmptyUnit() ecs.UnitID {
	id := w.units.Create()
	w.index[id] = len(w.live)
	w.live = append(w.live, id)
	event.Emit(w.bus, event.UnitSpawned{Unit: id})
	return id
}

// SpawnUnit creates a unit with a transform at desc.Pose and the described
// components.
func (w *World) SpawnUnit(desc UnitDesc) ecs.UnitID {
	id := w.SpawnEmptyUnit()
	w.graph.Create(id, desc.Pose)
	for _, m := range desc.Meshes {
		w.render.MeshCreate(id, m, desc.Pose)
	}
	if desc.Sprite != nil {
		w.render.SpriteCreate(id, *desc.Sprite, desc.Pose)
	}
	if desc.Light != nil {
		w.render.LightCreate(id, *desc.Light, desc.Pose)
	}
	if desc.Camera != nil {
		w.render.CameraCreate(id, *desc.Camera, desc.Pose)
	}
	if desc.Actor != nil {
		if w.physics != nil {
			w.physics.ActorCreate(id, *desc.Actor, desc.Pose)
		} else {
			w.log.Debug("physics disabled, actor skipped", zap.Stringer("unit", id))
		}
	}
	return id
}

// DestroyUnit destroys id immediately. Returns false for stale ids.
func (w *World) DestroyUnit(id ecs.UnitID) bool {
	return w.units.Destroy(id)
}

// DestroyUnitDeferred queues id for destruction in the cleanup phase.
func (w *World) DestroyUnitDeferred(id ecs.UnitID) {
	w.units.MarkForDestruction(id)
}

// Units returns the live units of this world. Destroying a unit moves the
// last one into its slot. The slice is only valid until the next spawn or
// destroy.
func (w *World) Units() []ecs.UnitID {
	return w.live
}

func (w *World) UnitCount() int {
	return len(w.live)
}

// Link parents child's transform under parent's, keeping child's world pose.
func (w *World) Link(child, parent ecs.UnitID) {
	w.graph.Link(w.mustTransform(child), w.mustTransform(parent))
}

func (w *World) Unlink(child ecs.UnitID) {
	w.graph.Unlink(w.mustTransform(child))
}

// Transform returns the transform of id, or ecs.InvalidInstance.
func (w *World) Transform(id ecs.UnitID) scene.TransformInstance {
	return w.graph.Get(id)
}

func (w *World) mustTransform(id ecs.UnitID) scene.TransformInstance {
	i := w.graph.Get(id)
	if !i.IsValid() {
		panic(fmt.Sprintf("world: %s has no transform", id))
	}
	return i
}

func (w *World) onUnitDestroyed(id ecs.UnitID) {
	n, ok := w.index[id]
	if !ok {
		return
	}
	if i := w.graph.Get(id); i.IsValid() {
		w.graph.Destroy(i)
	}

	last := len(w.live) - 1
	moved := w.live[last]
	w.live[n] = moved
	w.index[moved] = n
	w.live = w.live[:last]
	delete(w.index, id)

	event.Emit(w.bus, event.UnitDestroyed{Unit: id})
}

// UpdateScene moves this frame's transform changes through the collaborators:
// changed poses teleport physics actors, the simulation steps, simulated
// poses are written back into the scene graph, and the final set of changed
// poses reaches the render world.
func (w *World) UpdateScene(dt time.Duration) {
	units, poses := w.graph.Changed(w.changedUnits[:0], w.changedPoses[:0])

	if w.physics != nil {
		w.physics.UpdateActorWorldPoses(units, poses)
		w.physics.Update(dt)
		for _, ev := range w.physics.Events() {
			i := w.graph.Get(ev.Unit)
			if !i.IsValid() {
				continue
			}
			scale := scene.PoseFromMatrix(w.graph.WorldPose(i)).Scale
			w.graph.SetWorldPose(i, scene.Compose(ev.Position, ev.Rotation, scale))
		}
		w.physics.ClearEvents()
		units, poses = w.graph.Changed(units[:0], poses[:0])
	}

	w.graph.ClearChanged()
	w.render.UpdateTransforms(units, poses)

	w.lastChanged = len(units)
	w.changedUnits, w.changedPoses = units, poses
}

// LastChanged is the number of transforms forwarded by the last UpdateScene.
func (w *World) LastChanged() int {
	return w.lastChanged
}

// Update runs one frame of the registered systems.
func (w *World) Update(dt time.Duration) {
	w.runner.Tick(dt)
}

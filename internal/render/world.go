// Package render holds the renderable components of a world: meshes, sprites,
// lights and cameras. Each store mirrors the world pose of its unit; nothing here talks
// to a GPU.
package render

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/amstel/engine/internal/core/ecs"
)

// World owns the mesh, sprite, light and camera stores of one world.
type World struct {
	units   *ecs.UnitManager
	meshes  *meshStore
	sprites *spriteStore
	lights  *lightStore
	cameras *cameraStore
}

// NewWorld creates an empty render world and subscribes it to unit
// destruction on um. Call Close to unsubscribe.
func NewWorld(um *ecs.UnitManager) *World {
	w := &World{
		units:   um,
		meshes:  newMeshStore(),
		sprites: newSpriteStore(),
		lights:  newLightStore(),
		cameras: newCameraStore(),
	}
	um.RegisterDestroyFunc(w, w.onUnitDestroyed)
	return w
}

// Close unregisters the destroy hook. The world must not be used afterwards.
func (w *World) Close() {
	w.units.UnregisterDestroyFunc(w)
}

func (w *World) onUnitDestroyed(id ecs.UnitID) {
	w.meshes.pool.DestroyAll(id)
	if i := w.sprites.pool.First(id); i.IsValid() {
		w.sprites.destroy(i)
	}
	if i := w.lights.pool.First(id); i.IsValid() {
		w.lights.destroy(i)
	}
	if i := w.cameras.pool.First(id); i.IsValid() {
		w.cameras.destroy(i)
	}
}

// UpdateTransforms copies the world pose of every changed unit into all of its
// render components. units and poses are parallel.
func (w *World) UpdateTransforms(units []ecs.UnitID, poses []mgl64.Mat4) {
	for k, id := range units {
		pose := poses[k]
		for i := w.meshes.pool.First(id); i.IsValid(); i = w.meshes.pool.Next(i) {
			w.meshes.world.Set(i, pose)
		}
		if i := w.sprites.pool.First(id); i.IsValid() {
			w.sprites.world.Set(i, pose)
		}
		if i := w.lights.pool.First(id); i.IsValid() {
			w.lights.world.Set(i, pose)
		}
		if i := w.cameras.pool.First(id); i.IsValid() {
			w.cameras.world.Set(i, pose)
		}
	}
}

// Stats is a snapshot of store sizes, logged by the driver.
type Stats struct {
	Meshes        int
	VisibleMeshes int
	Sprites       int
	Lights        int
	Cameras       int
}

func (w *World) Stats() Stats {
	return Stats{
		Meshes:        w.meshes.pool.Len(),
		VisibleMeshes: w.VisibleMeshes(),
		Sprites:       w.sprites.pool.Len(),
		Lights:        w.lights.pool.Len(),
		Cameras:       w.cameras.pool.Len(),
	}
}

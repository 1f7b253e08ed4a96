package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/amstel/engine/internal/core/ecs"
)

// MeshInstance addresses one mesh renderer. A unit may own several.
type MeshInstance = ecs.Instance

// MeshDesc describes a mesh renderer by resource names.
type MeshDesc struct {
	Mesh     string `yaml:"mesh"`
	Geometry string `yaml:"geometry"`
	Material string `yaml:"material"`
	Visible  bool   `yaml:"visible"`
}

type meshStore struct {
	pool  *ecs.Pool
	desc  *ecs.Column[MeshDesc]
	world *ecs.Column[mgl64.Mat4]
}

func newMeshStore() *meshStore {
	p := ecs.NewPool(ecs.PoolMulti, 0)
	return &meshStore{
		pool:  p,
		desc:  ecs.NewColumn[MeshDesc](p),
		world: ecs.NewColumn[mgl64.Mat4](p),
	}
}

// MeshCreate attaches a new mesh renderer to id at the given world pose.
func (w *World) MeshCreate(id ecs.UnitID, desc MeshDesc, pose mgl64.Mat4) MeshInstance {
	if desc.Mesh == "" {
		panic(fmt.Sprintf("render: mesh renderer for %s has no mesh resource", id))
	}
	i := w.meshes.pool.Create(id)
	w.meshes.desc.Set(i, desc)
	w.meshes.world.Set(i, pose)
	return i
}

// MeshDestroy removes mesh renderer i. Other instance handles may be
// invalidated.
func (w *World) MeshDestroy(i MeshInstance) {
	w.meshes.pool.Destroy(i)
}

// MeshInstances appends every mesh renderer of id to dst.
func (w *World) MeshInstances(id ecs.UnitID, dst []MeshInstance) []MeshInstance {
	return w.meshes.pool.Instances(id, dst)
}

func (w *World) MeshDesc(i MeshInstance) MeshDesc {
	return w.meshes.desc.Get(i)
}

func (w *World) MeshWorld(i MeshInstance) mgl64.Mat4 {
	return w.meshes.world.Get(i)
}

func (w *World) MeshSetMaterial(i MeshInstance, material string) {
	w.meshes.desc.Ref(i).Material = material
}

func (w *World) MeshSetVisible(i MeshInstance, visible bool) {
	w.meshes.desc.Ref(i).Visible = visible
}

// VisibleMeshes counts mesh renderers with the visible flag set.
func (w *World) VisibleMeshes() int {
	n := 0
	for _, d := range w.meshes.desc.Values() {
		if d.Visible {
			n++
		}
	}
	return n
}

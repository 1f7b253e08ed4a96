package render

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/amstel/engine/internal/core/ecs"
)

// SpriteInstance addresses a sprite renderer; at most one per unit.
type SpriteInstance = ecs.Instance

type SpriteDesc struct {
	Sprite   string `yaml:"sprite"`
	Material string `yaml:"material"`
	Visible  bool   `yaml:"visible"`
}

type spriteStore struct {
	pool  *ecs.Pool
	desc  *ecs.Column[SpriteDesc]
	world *ecs.Column[mgl64.Mat4]
}

func newSpriteStore() *spriteStore {
	p := ecs.NewPool(ecs.PoolSingle, 0)
	return &spriteStore{
		pool:  p,
		desc:  ecs.NewColumn[SpriteDesc](p),
		world: ecs.NewColumn[mgl64.Mat4](p),
	}
}

func (s *spriteStore) destroy(i SpriteInstance) {
	s.pool.Destroy(i)
}

// SpriteCreate attaches a sprite renderer to id. Panics if id already has one.
func (w *World) SpriteCreate(id ecs.UnitID, desc SpriteDesc, pose mgl64.Mat4) SpriteInstance {
	i := w.sprites.pool.Create(id)
	w.sprites.desc.Set(i, desc)
	w.sprites.world.Set(i, pose)
	return i
}

func (w *World) SpriteDestroy(i SpriteInstance) {
	w.sprites.destroy(i)
}

// Sprite returns the sprite renderer of id, or ecs.InvalidInstance.
func (w *World) Sprite(id ecs.UnitID) SpriteInstance {
	return w.sprites.pool.First(id)
}

func (w *World) SpriteDesc(i SpriteInstance) SpriteDesc {
	return w.sprites.desc.Get(i)
}

func (w *World) SpriteWorld(i SpriteInstance) mgl64.Mat4 {
	return w.sprites.world.Get(i)
}

func (w *World) SpriteSetVisible(i SpriteInstance, visible bool) {
	w.sprites.desc.Ref(i).Visible = visible
}

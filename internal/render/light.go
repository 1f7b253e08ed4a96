package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/amstel/engine/internal/core/ecs"
)

type LightInstance = ecs.Instance

type LightType uint8

const (
	LightDirectional LightType = iota
	LightOmni
	LightSpot
)

var lightTypeNames = [...]string{"directional", "omni", "spot"}

func (t LightType) String() string {
	if int(t) < len(lightTypeNames) {
		return lightTypeNames[t]
	}
	return fmt.Sprintf("LightType(%d)", t)
}

// ParseLightType maps a level file name to a LightType.
func ParseLightType(s string) (LightType, error) {
	for i, name := range lightTypeNames {
		if name == s {
			return LightType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown light type %q", s)
}

type LightDesc struct {
	Type      LightType
	Range     float64 // meters
	Intensity float64
	SpotAngle float64 // radians
	Color     mgl64.Vec3
}

type lightStore struct {
	pool  *ecs.Pool
	desc  *ecs.Column[LightDesc]
	world *ecs.Column[mgl64.Mat4]
}

func newLightStore() *lightStore {
	p := ecs.NewPool(ecs.PoolSingle, 0)
	return &lightStore{
		pool:  p,
		desc:  ecs.NewColumn[LightDesc](p),
		world: ecs.NewColumn[mgl64.Mat4](p),
	}
}

func (s *lightStore) destroy(i LightInstance) {
	s.pool.Destroy(i)
}

// LightCreate attaches a light to id. Panics if id already has one.
func (w *World) LightCreate(id ecs.UnitID, desc LightDesc, pose mgl64.Mat4) LightInstance {
	i := w.lights.pool.Create(id)
	w.lights.desc.Set(i, desc)
	w.lights.world.Set(i, pose)
	return i
}

func (w *World) LightDestroy(i LightInstance) {
	w.lights.destroy(i)
}

func (w *World) Light(id ecs.UnitID) LightInstance {
	return w.lights.pool.First(id)
}

func (w *World) LightDesc(i LightInstance) LightDesc {
	return w.lights.desc.Get(i)
}

func (w *World) LightWorld(i LightInstance) mgl64.Mat4 {
	return w.lights.world.Get(i)
}

func (w *World) LightSetColor(i LightInstance, color mgl64.Vec3) {
	w.lights.desc.Ref(i).Color = color
}

// LightDirection is the world-space direction the light points along, the
// node's -Z axis.
func (w *World) LightDirection(i LightInstance) mgl64.Vec3 {
	return w.lights.world.Get(i).Col(2).Vec3().Mul(-1).Normalize()
}

package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/amstel/engine/internal/core/ecs"
)

// CameraInstance addresses a camera; at most one per unit.
type CameraInstance = ecs.Instance

type ProjectionType uint8

const (
	ProjectionOrthographic ProjectionType = iota
	ProjectionPerspective
)

var projectionNames = [...]string{"orthographic", "perspective"}

func (t ProjectionType) String() string {
	if int(t) < len(projectionNames) {
		return projectionNames[t]
	}
	return fmt.Sprintf("ProjectionType(%d)", t)
}

// ParseProjectionType maps a level file name to a ProjectionType.
func ParseProjectionType(s string) (ProjectionType, error) {
	for i, name := range projectionNames {
		if name == s {
			return ProjectionType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown projection %q", s)
}

type CameraDesc struct {
	Projection ProjectionType
	FOV        float64 // vertical, radians
	Near       float64
	Far        float64
}

// Viewport is the screen rectangle a camera draws into, in pixels.
type Viewport struct {
	X, Y          uint16
	Width, Height uint16
}

// camera is the mutable per-instance state. projection is rebuilt by every
// setter so reads never recompute it.
type camera struct {
	desc                     CameraDesc
	aspect                   float64
	left, right, bottom, top float64
	viewport                 Viewport
	projection               mgl64.Mat4
}

func (c *camera) updateProjection() {
	if c.desc.Projection == ProjectionPerspective {
		c.projection = mgl64.Perspective(c.desc.FOV, c.aspect, c.desc.Near, c.desc.Far)
		return
	}
	c.projection = mgl64.Ortho(c.left, c.right, c.bottom, c.top, c.desc.Near, c.desc.Far)
}

type cameraStore struct {
	pool  *ecs.Pool
	cam   *ecs.Column[camera]
	world *ecs.Column[mgl64.Mat4]
}

func newCameraStore() *cameraStore {
	p := ecs.NewPool(ecs.PoolSingle, 0)
	return &cameraStore{
		pool:  p,
		cam:   ecs.NewColumn[camera](p),
		world: ecs.NewColumn[mgl64.Mat4](p),
	}
}

func (s *cameraStore) destroy(i CameraInstance) {
	s.pool.Destroy(i)
}

func checkCameraDesc(desc CameraDesc) {
	if desc.Far <= desc.Near {
		panic(fmt.Sprintf("render: camera far %g must exceed near %g", desc.Far, desc.Near))
	}
	if desc.Projection == ProjectionPerspective && (desc.FOV <= 0 || desc.Near <= 0) {
		panic("render: perspective camera needs a positive fov and near plane")
	}
}

// CameraCreate attaches a camera to id with a square aspect and a unit
// orthographic box. Panics if id already has one or desc is degenerate.
func (w *World) CameraCreate(id ecs.UnitID, desc CameraDesc, pose mgl64.Mat4) CameraInstance {
	checkCameraDesc(desc)
	i := w.cameras.pool.Create(id)
	c := camera{desc: desc, aspect: 1, left: -1, right: 1, bottom: -1, top: 1}
	c.updateProjection()
	w.cameras.cam.Set(i, c)
	w.cameras.world.Set(i, pose)
	return i
}

func (w *World) CameraDestroy(i CameraInstance) {
	w.cameras.destroy(i)
}

func (w *World) Camera(id ecs.UnitID) CameraInstance {
	return w.cameras.pool.First(id)
}

func (w *World) CameraDesc(i CameraInstance) CameraDesc {
	return w.cameras.cam.Get(i).desc
}

func (w *World) CameraWorld(i CameraInstance) mgl64.Mat4 {
	return w.cameras.world.Get(i)
}

func (w *World) CameraSetProjectionType(i CameraInstance, typ ProjectionType) {
	c := w.cameras.cam.Ref(i)
	next := c.desc
	next.Projection = typ
	checkCameraDesc(next)
	c.desc = next
	c.updateProjection()
}

func (w *World) CameraSetFOV(i CameraInstance, fov float64) {
	c := w.cameras.cam.Ref(i)
	c.desc.FOV = fov
	c.updateProjection()
}

func (w *World) CameraSetAspect(i CameraInstance, aspect float64) {
	c := w.cameras.cam.Ref(i)
	c.aspect = aspect
	c.updateProjection()
}

func (w *World) CameraAspect(i CameraInstance) float64 {
	return w.cameras.cam.Get(i).aspect
}

// CameraSetClip moves the near and far planes. Panics if far <= near.
func (w *World) CameraSetClip(i CameraInstance, near, far float64) {
	c := w.cameras.cam.Ref(i)
	next := c.desc
	next.Near, next.Far = near, far
	checkCameraDesc(next)
	c.desc = next
	c.updateProjection()
}

// CameraSetOrthographicMetrics sets the view box used by orthographic
// projection. Perspective cameras keep it for when they switch.
func (w *World) CameraSetOrthographicMetrics(i CameraInstance, left, right, bottom, top float64) {
	c := w.cameras.cam.Ref(i)
	c.left, c.right, c.bottom, c.top = left, right, bottom, top
	c.updateProjection()
}

func (w *World) CameraSetViewport(i CameraInstance, vp Viewport) {
	w.cameras.cam.Ref(i).viewport = vp
}

func (w *World) CameraViewport(i CameraInstance) Viewport {
	return w.cameras.cam.Get(i).viewport
}

func (w *World) CameraProjection(i CameraInstance) mgl64.Mat4 {
	return w.cameras.cam.Get(i).projection
}

// CameraView is the inverse of the camera's world pose.
func (w *World) CameraView(i CameraInstance) mgl64.Mat4 {
	return w.cameras.world.Get(i).Inv()
}

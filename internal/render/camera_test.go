package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amstel/engine/internal/core/ecs"
)

var eye = CameraDesc{Projection: ProjectionPerspective, FOV: math.Pi / 3, Near: 0.1, Far: 100}

func TestCameraProjection(t *testing.T) {
	um, w := newTestWorld(t)
	a := um.Create()
	c := w.CameraCreate(a, eye, mgl64.Ident4())

	assert.Equal(t, mgl64.Perspective(math.Pi/3, 1, 0.1, 100), w.CameraProjection(c))

	w.CameraSetAspect(c, 16.0/9.0)
	assert.Equal(t, 16.0/9.0, w.CameraAspect(c))
	assert.Equal(t, mgl64.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100), w.CameraProjection(c))

	w.CameraSetFOV(c, math.Pi/2)
	w.CameraSetClip(c, 1, 50)
	assert.Equal(t, mgl64.Perspective(math.Pi/2, 16.0/9.0, 1, 50), w.CameraProjection(c))
	assert.Equal(t, CameraDesc{Projection: ProjectionPerspective, FOV: math.Pi / 2, Near: 1, Far: 50}, w.CameraDesc(c))

	w.CameraSetOrthographicMetrics(c, -8, 8, -4.5, 4.5)
	assert.Equal(t, mgl64.Perspective(math.Pi/2, 16.0/9.0, 1, 50), w.CameraProjection(c), "metrics only matter for ortho")
	w.CameraSetProjectionType(c, ProjectionOrthographic)
	assert.Equal(t, mgl64.Ortho(-8, 8, -4.5, 4.5, 1, 50), w.CameraProjection(c))

	assert.Panics(t, func() { w.CameraSetClip(c, 5, 5) })
	assert.Equal(t, 1.0, w.CameraDesc(c).Near, "rejected clip leaves the camera untouched")
}

func TestCameraViewInvertsWorldPose(t *testing.T) {
	um, w := newTestWorld(t)
	a := um.Create()
	c := w.CameraCreate(a, eye, mgl64.Ident4())
	assert.Equal(t, mgl64.Ident4(), w.CameraView(c))

	pose := mgl64.Translate3D(3, -2, 10).Mul4(mgl64.HomogRotate3DY(0.7))
	w.UpdateTransforms([]ecs.UnitID{a}, []mgl64.Mat4{pose})
	assert.Equal(t, pose, w.CameraWorld(c))

	id, got := mgl64.Ident4(), w.CameraView(c).Mul4(pose)
	assert.InDeltaSlice(t, id[:], got[:], 1e-12)

	// The world origin sits 10 units in front of a camera looking down -Z
	// from z=10 when unrotated.
	w.UpdateTransforms([]ecs.UnitID{a}, []mgl64.Mat4{mgl64.Translate3D(0, 0, 10)})
	origin := w.CameraView(c).Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	assert.InDeltaSlice(t, []float64{0, 0, -10, 1}, origin[:], 1e-12)
}

func TestCameraLifecycle(t *testing.T) {
	um, w := newTestWorld(t)
	a, b := um.Create(), um.Create()
	w.CameraCreate(a, eye, mgl64.Ident4())
	cb := w.CameraCreate(b, CameraDesc{Near: -1, Far: 1}, mgl64.Ident4())
	w.CameraSetViewport(cb, Viewport{Width: 640, Height: 480})

	assert.Panics(t, func() { w.CameraCreate(a, eye, mgl64.Ident4()) }, "one camera per unit")
	assert.Panics(t, func() { w.CameraCreate(um.Create(), CameraDesc{Near: 2, Far: 1}, mgl64.Ident4()) })
	assert.Panics(t, func() {
		w.CameraCreate(um.Create(), CameraDesc{Projection: ProjectionPerspective, Near: 0.1, Far: 1}, mgl64.Ident4())
	})
	assert.Equal(t, 2, w.Stats().Cameras)

	um.Destroy(a)
	assert.False(t, w.Camera(a).IsValid())
	require.True(t, w.Camera(b).IsValid())
	assert.Equal(t, Viewport{Width: 640, Height: 480}, w.CameraViewport(w.Camera(b)))
	assert.Equal(t, mgl64.Ortho(-1, 1, -1, 1, -1, 1), w.CameraProjection(w.Camera(b)))

	w.CameraDestroy(w.Camera(b))
	assert.Zero(t, w.Stats().Cameras)
}

func TestParseProjectionType(t *testing.T) {
	for _, pt := range []ProjectionType{ProjectionOrthographic, ProjectionPerspective} {
		got, err := ParseProjectionType(pt.String())
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}
	_, err := ParseProjectionType("fisheye")
	assert.Error(t, err)
}

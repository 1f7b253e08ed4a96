package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestPoseRoundTrip(t *testing.T) {
	m := Compose(mgl64.Vec3{1, -2, 3}, mgl64.QuatRotate(0.8, mgl64.Vec3{0, 1, 0}), mgl64.Vec3{2, 0.5, 1})
	p := PoseFromMatrix(m)

	assertVec3(t, mgl64.Vec3{1, -2, 3}, p.Position)
	assertVec3(t, mgl64.Vec3{2, 0.5, 1}, p.Scale)
	assertMat4(t, m, p.Matrix())
}

func TestPoseCollapsedAxis(t *testing.T) {
	m := mgl64.Scale3D(0, 1, 1)
	p := PoseFromMatrix(m)
	assert.Equal(t, mgl64.Ident3(), p.Rotation)
	assert.Equal(t, 0.0, p.Scale[0])
	assertMat4(t, m, p.Matrix())
}

func TestIdentityPose(t *testing.T) {
	assert.Equal(t, mgl64.Ident4(), IdentityPose().Matrix())
}

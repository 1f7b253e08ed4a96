package scene

import "github.com/go-gl/mathgl/mgl64"

// Pose is a decomposed transform: translation, orthonormal rotation and
// per-axis scale.
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Mat3
	Scale    mgl64.Vec3
}

// IdentityPose is the pose of a node placed at the origin.
func IdentityPose() Pose {
	return Pose{
		Rotation: mgl64.Ident3(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// PoseFromMatrix splits m into position, rotation and scale. The rotation axes
// are normalized so scale never leaks into orientation. Shear is dropped.
func PoseFromMatrix(m mgl64.Mat4) Pose {
	x, y, z := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	return Pose{
		Position: m.Col(3).Vec3(),
		Rotation: mgl64.Mat3FromCols(
			axis(x, mgl64.Vec3{1, 0, 0}),
			axis(y, mgl64.Vec3{0, 1, 0}),
			axis(z, mgl64.Vec3{0, 0, 1}),
		),
		Scale: mgl64.Vec3{x.Len(), y.Len(), z.Len()},
	}
}

// Matrix recomposes the pose as translation * rotation * scale.
func (p Pose) Matrix() mgl64.Mat4 {
	r := p.Rotation
	return mgl64.Mat4FromCols(
		r.Col(0).Mul(p.Scale[0]).Vec4(0),
		r.Col(1).Mul(p.Scale[1]).Vec4(0),
		r.Col(2).Mul(p.Scale[2]).Vec4(0),
		p.Position.Vec4(1),
	)
}

// Quat returns the pose rotation as a unit quaternion.
func (p Pose) Quat() mgl64.Quat {
	return mgl64.Mat4ToQuat(p.Rotation.Mat4()).Normalize()
}

// Compose builds a matrix from position, rotation and scale.
func Compose(position mgl64.Vec3, rotation mgl64.Quat, scale mgl64.Vec3) mgl64.Mat4 {
	return Pose{
		Position: position,
		Rotation: rotation.Normalize().Mat4().Mat3(),
		Scale:    scale,
	}.Matrix()
}

// axis normalizes v, falling back to def for a collapsed axis.
func axis(v, def mgl64.Vec3) mgl64.Vec3 {
	if l := v.Len(); l > 1e-12 {
		return v.Mul(1 / l)
	}
	return def
}

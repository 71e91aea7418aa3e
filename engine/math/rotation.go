package math

import (
	m "math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// UpAxis is the bone-local direction a bone extends along.
	UpAxis = mgl32.Vec3{0, 1, 0}
	// FallbackAxis replaces the undefined axis of an identity rotation.
	FallbackAxis = mgl32.Vec3{1, 0, 0}
)

// QuatFromWXYZ builds a quaternion from components stored in (w, x, y, z) order.
func QuatFromWXYZ(w, x, y, z float32) mgl32.Quat {
	return mgl32.Quat{W: w, V: mgl32.Vec3{x, y, z}}
}

// IsIdentityQuat reports whether q carries no rotation.
func IsIdentityQuat(q mgl32.Quat) bool {
	return q.V.Len() <= K_AXIS_EPSILON
}

// AxisAngle decomposes q into a unit axis and an angle in radians. The identity
// rotation yields FallbackAxis and angle 0.
func AxisAngle(q mgl32.Quat) (mgl32.Vec3, float32) {
	if IsIdentityQuat(q) {
		return FallbackAxis, 0
	}
	q = q.Normalize()
	w := Clamp(q.W, -1, 1)
	angle := 2 * float32(m.Acos(float64(w)))
	return q.V.Normalize(), angle
}

// RotationMatrix returns the homogeneous rotation described by q, rotating about
// the quaternion's own axis.
func RotationMatrix(q mgl32.Quat) mgl32.Mat4 {
	axis, angle := AxisAngle(q)
	if angle == 0 {
		return mgl32.Ident4()
	}
	return mgl32.HomogRotate3D(angle, axis)
}

// NormalMatrix returns the upper-left 3x3 of the inverse-transpose of mat.
func NormalMatrix(mat mgl32.Mat4) mgl32.Mat3 {
	return mat.Inv().Transpose().Mat3()
}

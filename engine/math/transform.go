package math

import "github.com/go-gl/mathgl/mgl32"

/**
 * @brief A scale/rotation/location triple with a lazily rebuilt local matrix.
 * Applied to a column vector the local matrix scales first, then rotates, then
 * translates. NOTE: The properties of this should not be edited directly, but
 * done via the setters to ensure proper matrix generation.
 */
type Transform struct {
	/** @brief The location relative to the parent space. */
	Position mgl32.Vec3
	/** @brief The rotation relative to the parent space. */
	Rotation mgl32.Quat
	/** @brief The per-axis scale. */
	Scale mgl32.Vec3
	/**
	 * @brief Indicates if the position, rotation or scale have changed,
	 * indicating that the local matrix needs to be recalculated.
	 */
	IsDirty bool
	/** @brief The cached local transformation matrix. */
	Local mgl32.Mat4
}

func TransformCreate() Transform {
	return TransformFromPositionRotationScale(mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
}

func TransformFromPosition(position mgl32.Vec3) Transform {
	return TransformFromPositionRotationScale(position, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
}

func TransformFromPositionRotation(position mgl32.Vec3, rotation mgl32.Quat) Transform {
	return TransformFromPositionRotationScale(position, rotation, mgl32.Vec3{1, 1, 1})
}

func TransformFromPositionRotationScale(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) Transform {
	t := Transform{}
	t.SetPositionRotationScale(position, rotation, scale)
	return t
}

func (t *Transform) SetPosition(position mgl32.Vec3) {
	t.Position = position
	t.IsDirty = true
}

func (t *Transform) SetRotation(rotation mgl32.Quat) {
	t.Rotation = rotation
	t.IsDirty = true
}

func (t *Transform) SetScale(scale mgl32.Vec3) {
	t.Scale = scale
	t.IsDirty = true
}

func (t *Transform) SetPositionRotationScale(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) {
	t.Position = position
	t.Rotation = rotation
	t.Scale = scale
	t.IsDirty = true
}

// GetLocal returns translate · rotate · scale, rebuilding it when dirty.
func (t *Transform) GetLocal() mgl32.Mat4 {
	if t.IsDirty {
		t.Local = t.Compose()
		t.IsDirty = false
	}
	return t.Local
}

// Compose builds the local matrix without touching the cache.
func (t Transform) Compose() mgl32.Mat4 {
	s := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	r := RotationMatrix(t.Rotation)
	tr := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	return tr.Mul4(r).Mul4(s)
}

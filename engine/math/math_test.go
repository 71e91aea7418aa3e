package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

// near compares with an absolute tolerance; ApproxEqualThreshold tightens to
// eps*eps next to zero components.
func near(a, b []float32) bool {
	for i := range a {
		if mgl32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func vec3Near(a, b mgl32.Vec3) bool { return near(a[:], b[:]) }
func mat3Near(a, b mgl32.Mat3) bool { return near(a[:], b[:]) }
func mat4Near(a, b mgl32.Mat4) bool { return near(a[:], b[:]) }

func TestAxisAngleIdentityUsesFallbackAxis(t *testing.T) {
	axis, angle := AxisAngle(mgl32.QuatIdent())
	if angle != 0 {
		t.Errorf("expected angle 0, got %f", angle)
	}
	if !vec3Near(axis, FallbackAxis) {
		t.Errorf("expected fallback axis %v, got %v", FallbackAxis, axis)
	}
	if !mat4Near(RotationMatrix(mgl32.QuatIdent()), mgl32.Ident4()) {
		t.Errorf("expected identity rotation matrix")
	}
}

func TestRotationMatrixQuarterTurnAboutZ(t *testing.T) {
	q := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	p := mgl32.TransformCoordinate(mgl32.Vec3{0, 1, 0}, RotationMatrix(q))
	if !vec3Near(p, mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("expected (-1,0,0), got %v", p)
	}
}

func TestQuatFromWXYZ(t *testing.T) {
	q := QuatFromWXYZ(1, 0, 0, 0)
	if !IsIdentityQuat(q) {
		t.Errorf("expected identity quaternion, got %v", q)
	}
}

func TestTransformAppliesScaleThenRotationThenTranslation(t *testing.T) {
	tr := TransformFromPositionRotationScale(
		mgl32.Vec3{1, 2, 3},
		mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}),
		mgl32.Vec3{2, 2, 2},
	)
	// (1,0,0) -> scale (2,0,0) -> rotate (0,2,0) -> translate (1,4,3)
	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, tr.GetLocal())
	if !vec3Near(p, mgl32.Vec3{1, 4, 3}) {
		t.Errorf("expected (1,4,3), got %v", p)
	}
	if tr.IsDirty {
		t.Errorf("expected cache to be clean after GetLocal")
	}

	tr.SetPosition(mgl32.Vec3{})
	p = mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, tr.GetLocal())
	if !vec3Near(p, mgl32.Vec3{0, 2, 0}) {
		t.Errorf("expected (0,2,0) after moving to origin, got %v", p)
	}
}

func TestNormalMatrixOfUniformScale(t *testing.T) {
	n := NormalMatrix(mgl32.Scale3D(2, 2, 2))
	want := mgl32.Diag3(mgl32.Vec3{0.5, 0.5, 0.5})
	if !mat3Near(n, want) {
		t.Errorf("expected %v, got %v", want, n)
	}
}

func TestClampAndRound(t *testing.T) {
	if got := Clamp(12, 0, 9); got != 9 {
		t.Errorf("expected 9, got %d", got)
	}
	if got := Clamp(float32(-0.5), 0, 1); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
	tests := map[float32]int{0.4: 0, 0.5: 1, -0.5: -1, 9.6: 10, -1.2: -1}
	for in, want := range tests {
		if got := RoundToInt(in); got != want {
			t.Errorf("RoundToInt(%f): expected %d, got %d", in, want, got)
		}
	}
}

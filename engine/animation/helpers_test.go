package animation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const tolerance = 1e-4

// near compares component-wise with an absolute tolerance. mgl32's
// ApproxEqualThreshold switches to eps*eps whenever one side is zero.
func near(a, b []float32, tol float32) bool {
	for i := range a {
		if mgl32.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func vec3Near(a, b mgl32.Vec3) bool { return near(a[:], b[:], tolerance) }
func mat3Near(a, b mgl32.Mat3) bool { return near(a[:], b[:], tolerance) }
func mat4Near(a, b mgl32.Mat4) bool { return near(a[:], b[:], tolerance) }

func quatNear(a, b mgl32.Quat) bool {
	return mgl32.Abs(a.W-b.W) <= tolerance && vec3Near(a.V, b.V)
}

// twoBoneSkeleton is a root of length 1 at the origin with one child offset
// (0,1,0) from the root's tail, so the child's head sits at (0,2,0).
func twoBoneSkeleton(t *testing.T) *Skeleton {
	t.Helper()
	skel, err := NewSkeleton("arm", []Bone{
		{Name: "root", Length: 1, Parent: NoParent, RestRotation: mgl32.QuatIdent()},
		{Name: "child", Length: 1, Parent: 0, RestRotation: mgl32.QuatIdent(), RestLocation: mgl32.Vec3{0, 1, 0}},
	})
	if err != nil {
		t.Fatalf("expected error to be nil, got %v", err)
	}
	return skel
}

func restFrame(boneCount int) []FrameTransform {
	frame := make([]FrameTransform, boneCount)
	for i := range frame {
		frame[i] = RestFrameTransform()
	}
	return frame
}

// restClip has frameCount frames that all leave every bone at rest.
func restClip(t *testing.T, name string, boneCount, frameCount int) *Clip {
	t.Helper()
	frames := make([][]FrameTransform, frameCount)
	for f := range frames {
		frames[f] = restFrame(boneCount)
	}
	clip, err := NewClip(name, boneCount, frames)
	if err != nil {
		t.Fatalf("expected error to be nil, got %v", err)
	}
	return clip
}

// bendClip keeps frame 0 at rest and rotates the child 90 degrees about Z in frame 1.
func bendClip(t *testing.T) *Clip {
	t.Helper()
	bent := restFrame(2)
	bent[1].Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	clip, err := NewClip("bend", 2, [][]FrameTransform{restFrame(2), bent})
	if err != nil {
		t.Fatalf("expected error to be nil, got %v", err)
	}
	return clip
}

func writeAsset(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

const armSkeletonFile = "2\n" +
	"root\t1\t0\t0\t0\t1\t0\t0\t0\t-1\n" +
	"child\t1\t0\t1\t0\t1\t0\t0\t0\t0\n"

const bendClipFile = "2\t2\n" +
	"# frame 0\n" +
	"1\t1\t1\t1\t0\t0\t0\t0\t0\t0\n" +
	"1\t1\t1\t1\t0\t0\t0\t0\t0\t0\n" +
	"# frame 1\n" +
	"1\t1\t1\t1\t0\t0\t0\t0\t0\t0\n" +
	"1\t1\t1\t0.70710678\t0\t0\t0.70710678\t0\t0\t0\n"

package animation

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-rig/engine/core"
)

func TestLoadSkeleton(t *testing.T) {
	path := writeAsset(t, t.TempDir(), "arm.skel", armSkeletonFile)

	skel, err := LoadSkeleton(path)
	if err != nil {
		t.Fatalf("expected error to be nil, got %v", err)
	}
	if skel.Name != "arm" {
		t.Errorf("expected name 'arm', got '%s'", skel.Name)
	}
	if skel.BoneCount() != 2 {
		t.Fatalf("expected 2 bones, got %d", skel.BoneCount())
	}
	child := skel.Bone(1)
	if child.Name != "child" || child.Parent != 0 || child.Length != 1 {
		t.Errorf("unexpected child bone %+v", child)
	}
	if !vec3Near(child.RestLocation, mgl32.Vec3{0, 1, 0}) {
		t.Errorf("expected rest location (0,1,0), got %v", child.RestLocation)
	}
}

func TestParseSkeletonAcceptsSpaceSeparatedRecords(t *testing.T) {
	src := "# two bones\n2\n\nroot 1 0 0 0 1 0 0 0 -1\nchild 1 0 1 0 1 0 0 0 0\n"

	skel, err := ParseSkeleton(strings.NewReader(src), "arm", "arm.skel")
	if err != nil {
		t.Fatalf("expected error to be nil, got %v", err)
	}
	if skel.Parent(1) != 0 {
		t.Errorf("expected child parent 0, got %d", skel.Parent(1))
	}
}

func TestParseSkeletonErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		line    int
		wrapped error
	}{
		{"empty file", "", 0, nil},
		{"bad bone count", "two\n", 1, nil},
		{"zero bones", "0\n", 1, nil},
		{"short record", "1\nroot\t1\t0\t0\t0\t1\t0\t0\t0\n", 2, nil},
		{"bad float", "1\nroot\t1\t0\tx\t0\t1\t0\t0\t0\t-1\n", 2, nil},
		{"missing bone", "2\nroot\t1\t0\t0\t0\t1\t0\t0\t0\t-1\n", 2, nil},
		{"trailing bone", "1\nroot\t1\t0\t0\t0\t1\t0\t0\t0\t-1\nextra\t1\t0\t0\t0\t1\t0\t0\t0\t0\n", 3, nil},
		{"parent out of range", "1\nroot\t1\t0\t0\t0\t1\t0\t0\t0\t4\n", 0, core.ErrInvalidHierarchy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSkeleton(strings.NewReader(tt.src), "bad", "bad.skel")
			if !errors.Is(err, core.ErrLoad) {
				t.Fatalf("expected ErrLoad, got %v", err)
			}
			var le *core.LoadError
			if !errors.As(err, &le) {
				t.Fatalf("expected a LoadError, got %T", err)
			}
			if tt.line > 0 && le.Line != tt.line {
				t.Errorf("expected line %d, got %d (%v)", tt.line, le.Line, err)
			}
			if tt.wrapped != nil && !errors.Is(err, tt.wrapped) {
				t.Errorf("expected %v, got %v", tt.wrapped, err)
			}
		})
	}
}

func TestLoadSkeletonMissingFile(t *testing.T) {
	_, err := LoadSkeleton(filepath.Join(t.TempDir(), "missing.skel"))
	if !errors.Is(err, core.ErrLoad) {
		t.Errorf("expected ErrLoad, got %v", err)
	}
}

func TestLoadClip(t *testing.T) {
	path := writeAsset(t, t.TempDir(), "bend.anim", bendClipFile)

	clip, err := LoadClip("bend", path, 2)
	if err != nil {
		t.Fatalf("expected error to be nil, got %v", err)
	}
	if clip.FrameCount() != 2 || clip.BoneCount() != 2 {
		t.Fatalf("expected 2x2 clip, got %d frames %d bones", clip.FrameCount(), clip.BoneCount())
	}
	want := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	got := clip.FrameTransform(1, 1).Rotation
	if !quatNear(got, want) {
		t.Errorf("expected rotation %v, got %v", want, got)
	}
	if !vec3Near(clip.FrameTransform(0, 0).Scale, mgl32.Vec3{1, 1, 1}) {
		t.Errorf("expected unit scale, got %v", clip.FrameTransform(0, 0).Scale)
	}
}

func TestParseClipCommaHeader(t *testing.T) {
	src := "1, 2\n1 1 1 1 0 0 0 0 0 0\n1 1 1 1 0 0 0 0 0.5 0\n"

	clip, err := ParseClip(strings.NewReader(src), "lift", "lift.anim", 0)
	if err != nil {
		t.Fatalf("expected error to be nil, got %v", err)
	}
	if !vec3Near(clip.FrameTransform(1, 0).Location, mgl32.Vec3{0, 0.5, 0}) {
		t.Errorf("expected location (0,0.5,0), got %v", clip.FrameTransform(1, 0).Location)
	}
}

func TestParseClipBoneCountMismatch(t *testing.T) {
	_, err := ParseClip(strings.NewReader(bendClipFile), "bend", "bend.anim", 3)
	if !errors.Is(err, core.ErrLoad) {
		t.Errorf("expected ErrLoad, got %v", err)
	}
	if !errors.Is(err, core.ErrBoneCountMismatch) {
		t.Errorf("expected ErrBoneCountMismatch, got %v", err)
	}
}

func TestParseClipErrors(t *testing.T) {
	record := "1\t1\t1\t1\t0\t0\t0\t0\t0\t0\n"
	tests := []struct {
		name string
		src  string
	}{
		{"missing header", ""},
		{"one header field", "1\n"},
		{"zero frames", "1\t0\n"},
		{"truncated", "1\t2\n" + record},
		{"trailing", "1\t1\n" + record + record},
		{"bad number", "1\t1\n1\t1\t1\t1\t0\t0\t0\t0\tnope\t0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClip(strings.NewReader(tt.src), "bad", "bad.anim", 0)
			if !errors.Is(err, core.ErrLoad) {
				t.Errorf("expected ErrLoad, got %v", err)
			}
		})
	}
}


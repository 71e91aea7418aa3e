package animation

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-rig/engine/core"
)

func TestRestPoseFrameYieldsIdentitySkinning(t *testing.T) {
	skel, err := NewSkeleton("leg", []Bone{
		{Name: "hip", Length: 1, Parent: NoParent, RestRotation: mgl32.QuatRotate(0.4, mgl32.Vec3{0, 0, 1}), RestLocation: mgl32.Vec3{0, 1, 0}},
		{Name: "knee", Length: 1, Parent: 0, RestRotation: mgl32.QuatRotate(-0.9, mgl32.Vec3{1, 0, 0})},
		{Name: "toe", Length: 0.2, Parent: 1, RestRotation: mgl32.QuatIdent(), RestLocation: mgl32.Vec3{0, 0, 0.1}},
	})
	if err != nil {
		t.Fatalf("expected error to be nil, got %v", err)
	}

	state := NewPlaybackState()
	state.Play(restClip(t, "idle", 3, 4), 1, EndPolicyLoop, 0)

	out := NewPoseOutput(8)
	if err := Evaluate(skel, state, out); err != nil {
		t.Fatalf("expected error to be nil, got %v", err)
	}
	if out.BoneCount() != 3 {
		t.Fatalf("expected 3 bones written, got %d", out.BoneCount())
	}
	for i, m := range out.SkinningMatrices() {
		if !mat4Near(m, mgl32.Ident4()) {
			t.Errorf("bone %d: expected identity skinning matrix, got %v", i, m)
		}
	}
	for i, n := range out.SkinningNormalMatrices() {
		if !mat3Near(n, mgl32.Ident3()) {
			t.Errorf("bone %d: expected identity normal matrix, got %v", i, n)
		}
	}
}

func TestIdleEvaluationIsBindPose(t *testing.T) {
	skel := twoBoneSkeleton(t)
	out := NewPoseOutput(2)

	if err := Evaluate(skel, NewPlaybackState(), out); err != nil {
		t.Fatalf("expected error to be nil, got %v", err)
	}
	for i, m := range out.SkinningMatrices() {
		if !mat4Near(m, mgl32.Ident4()) {
			t.Errorf("bone %d: expected identity, got %v", i, m)
		}
	}
}

func TestChildRotationMovesTail(t *testing.T) {
	skel := twoBoneSkeleton(t)
	state := NewPlaybackState()
	state.Play(bendClip(t), 1, EndPolicyPause, 0)
	state.Tick()
	if state.CurrentFrame() != 1 {
		t.Fatalf("expected frame 1, got %d", state.CurrentFrame())
	}

	out := NewPoseOutput(4)
	if err := Evaluate(skel, state, out); err != nil {
		t.Fatalf("expected error to be nil, got %v", err)
	}

	// Child head at (0,2,0), tail at (0,3,0). A quarter turn about Z swings the
	// tail from +Y to -X around the head.
	tail := out.SkinPoint(1, mgl32.Vec3{0, 3, 0})
	if !vec3Near(tail, mgl32.Vec3{-1, 2, 0}) {
		t.Errorf("expected tail at (-1,2,0), got %v", tail)
	}
	head := out.SkinPoint(1, mgl32.Vec3{0, 2, 0})
	if !vec3Near(head, mgl32.Vec3{0, 2, 0}) {
		t.Errorf("expected head to stay at (0,2,0), got %v", head)
	}
	rootTip := out.SkinPoint(0, mgl32.Vec3{0, 1, 0})
	if !vec3Near(rootTip, mgl32.Vec3{0, 1, 0}) {
		t.Errorf("expected root to stay put, got %v", rootTip)
	}

	normal := out.SkinningNormalMatrices()[1].Mul3x1(mgl32.Vec3{0, 1, 0})
	if !vec3Near(normal, mgl32.Vec3{-1, 0, 0}) {
		t.Errorf("expected rotated normal (-1,0,0), got %v", normal)
	}
}

func TestEvaluateFailsWhenCapacityTooSmall(t *testing.T) {
	skel := twoBoneSkeleton(t)
	out := NewPoseOutput(1)

	err := Evaluate(skel, NewPlaybackState(), out)
	if !errors.Is(err, core.ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
	if out.BoneCount() != 0 {
		t.Errorf("expected no bones written, got %d", out.BoneCount())
	}
}

func TestEvaluateRejectsClipForOtherSkeleton(t *testing.T) {
	skel := twoBoneSkeleton(t)
	state := NewPlaybackState()
	state.Play(restClip(t, "wide", 3, 2), 1, EndPolicyLoop, 0)

	err := Evaluate(skel, state, NewPoseOutput(4))
	if !errors.Is(err, core.ErrBoneCountMismatch) {
		t.Errorf("expected ErrBoneCountMismatch, got %v", err)
	}
}

func TestEvaluateDoesNotAllocate(t *testing.T) {
	skel := twoBoneSkeleton(t)
	state := NewPlaybackState()
	state.Play(bendClip(t), 1, EndPolicyLoop, 0)
	out := NewPoseOutput(2)

	allocs := testing.AllocsPerRun(100, func() {
		state.Tick()
		if err := Evaluate(skel, state, out); err != nil {
			t.Fatal(err)
		}
	})
	if allocs != 0 {
		t.Errorf("expected no allocations per frame, got %f", allocs)
	}
}

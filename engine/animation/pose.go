package animation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-rig/engine/core"
	"github.com/spaghettifunk/anima-rig/engine/math"
)

// PoseOutput holds per-bone skinning matrices. It is allocated once with a fixed
// capacity and overwritten in place by Evaluate.
type PoseOutput struct {
	skinning  []mgl32.Mat4
	normals   []mgl32.Mat3
	boneCount int
}

func NewPoseOutput(capacity int) *PoseOutput {
	if capacity < 0 {
		capacity = 0
	}
	return &PoseOutput{
		skinning: make([]mgl32.Mat4, capacity),
		normals:  make([]mgl32.Mat3, capacity),
	}
}

func (p *PoseOutput) Capacity() int {
	return len(p.skinning)
}

// BoneCount is the number of bones written by the last successful Evaluate.
func (p *PoseOutput) BoneCount() int {
	return p.boneCount
}

// SkinningMatrices maps bind-pose geometry to the current pose. The slice aliases
// the buffer and is only valid until the next Evaluate.
func (p *PoseOutput) SkinningMatrices() []mgl32.Mat4 {
	return p.skinning[:p.boneCount]
}

// SkinningNormalMatrices are the inverse-transpose 3x3 of SkinningMatrices.
func (p *PoseOutput) SkinningNormalMatrices() []mgl32.Mat3 {
	return p.normals[:p.boneCount]
}

// SkinPoint moves a bind-pose point rigidly bound to bone.
func (p *PoseOutput) SkinPoint(bone int, point mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(point, p.skinning[bone])
}

// Evaluate writes the skinning matrix of every bone of skel for the current frame
// of state into out. For bone i:
//
//	invBind(i), then for b = i, parent(i), ... root:
//	mat = restRel(b) · local(b) · mat
//
// where local is the active clip's transform for the current frame, or identity
// while idle.
func Evaluate(skel *Skeleton, state *PlaybackState, out *PoseOutput) error {
	boneCount := skel.BoneCount()
	if boneCount > out.Capacity() {
		return fmt.Errorf("skeleton '%s' has %d bones, pose holds %d: %w", skel.Name, boneCount, out.Capacity(), core.ErrCapacityExceeded)
	}

	clip := state.ActiveClip()
	frame := state.CurrentFrame()
	if clip != nil {
		if clip.BoneCount() != boneCount {
			return fmt.Errorf("clip '%s' has %d bones, skeleton '%s' has %d: %w", clip.Name, clip.BoneCount(), skel.Name, boneCount, core.ErrBoneCountMismatch)
		}
		frame = math.Clamp(frame, 0, clip.FrameCount()-1)
	}

	for i := 0; i < boneCount; i++ {
		mat := skel.InverseBindMatrix(i)
		for b := i; b != NoParent; b = skel.Parent(b) {
			if clip != nil {
				mat = clip.LocalTransform(frame, b).Mul4(mat)
			}
			mat = skel.RestTransformRelativeToParent(b).Mul4(mat)
		}
		out.skinning[i] = mat
		out.normals[i] = math.NormalMatrix(mat)
	}
	out.boneCount = boneCount
	return nil
}

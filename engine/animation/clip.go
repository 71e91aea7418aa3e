package animation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-rig/engine/core"
	"github.com/spaghettifunk/anima-rig/engine/math"
)

// FrameTransform is one bone's local transform in one frame.
type FrameTransform struct {
	Scale    mgl32.Vec3
	Rotation mgl32.Quat
	Location mgl32.Vec3
}

// RestFrameTransform leaves a bone at its rest pose.
func RestFrameTransform() FrameTransform {
	return FrameTransform{
		Scale:    mgl32.Vec3{1, 1, 1},
		Rotation: mgl32.QuatIdent(),
	}
}

// Clip is an immutable named sequence of frames, each holding one transform per bone.
type Clip struct {
	Name string

	boneCount  int
	frameCount int
	// frame-major: frames[f*boneCount+b]
	frames []FrameTransform
	locals []mgl32.Mat4
}

// NewClip copies frames into a flat, frame-major layout and precomputes each local matrix.
func NewClip(name string, boneCount int, frames [][]FrameTransform) (*Clip, error) {
	if boneCount <= 0 {
		return nil, fmt.Errorf("clip '%s' bone count %d: %w", name, boneCount, core.ErrInvalidClip)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("clip '%s' has no frames: %w", name, core.ErrInvalidClip)
	}

	c := &Clip{
		Name:       name,
		boneCount:  boneCount,
		frameCount: len(frames),
		frames:     make([]FrameTransform, 0, boneCount*len(frames)),
		locals:     make([]mgl32.Mat4, 0, boneCount*len(frames)),
	}
	for f, frame := range frames {
		if len(frame) != boneCount {
			return nil, fmt.Errorf("clip '%s' frame %d has %d bones, expected %d: %w", name, f, len(frame), boneCount, core.ErrInvalidClip)
		}
		for _, ft := range frame {
			c.frames = append(c.frames, ft)
			c.locals = append(c.locals, localMatrix(ft))
		}
	}
	return c, nil
}

// translate ∘ rotate ∘ scale; identity rotations go through the fallback axis.
func localMatrix(ft FrameTransform) mgl32.Mat4 {
	t := math.TransformFromPositionRotationScale(ft.Location, ft.Rotation, ft.Scale)
	return t.GetLocal()
}

func (c *Clip) BoneCount() int {
	return c.boneCount
}

func (c *Clip) FrameCount() int {
	return c.frameCount
}

func (c *Clip) FrameTransform(frame, bone int) FrameTransform {
	return c.frames[frame*c.boneCount+bone]
}

// LocalTransform is the current local transform of bone in frame.
func (c *Clip) LocalTransform(frame, bone int) mgl32.Mat4 {
	return c.locals[frame*c.boneCount+bone]
}

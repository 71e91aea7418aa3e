package animation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-rig/engine/core"
	"github.com/spaghettifunk/anima-rig/engine/math"
)

// NoParent marks a root bone.
const NoParent = -1

/** @brief A single node of the bone hierarchy, in rest pose. */
type Bone struct {
	/** @brief Position of the bone in the skeleton, equal to its declaration order. */
	Index int
	Name  string
	/** @brief Extent of the bone along its local up axis. */
	Length float32
	/** @brief Index of the parent bone, NoParent for roots. */
	Parent       int
	RestRotation mgl32.Quat
	RestLocation mgl32.Vec3
}

// Skeleton is an immutable bone hierarchy stored as a flat array with parent
// indices. Rest-relative and inverse bind matrices are computed once on creation.
type Skeleton struct {
	Name string

	bones        []Bone
	byName       map[string]int
	restRelative []mgl32.Mat4
	inverseBind  []mgl32.Mat4
}

// NewSkeleton validates the hierarchy and caches its rest matrices. Bone indices
// are reassigned to match slice order.
func NewSkeleton(name string, bones []Bone) (*Skeleton, error) {
	n := len(bones)
	if n == 0 {
		return nil, fmt.Errorf("skeleton '%s' has no bones: %w", name, core.ErrInvalidHierarchy)
	}

	s := &Skeleton{
		Name:         name,
		bones:        make([]Bone, n),
		byName:       make(map[string]int, n),
		restRelative: make([]mgl32.Mat4, n),
		inverseBind:  make([]mgl32.Mat4, n),
	}
	copy(s.bones, bones)

	for i := range s.bones {
		b := &s.bones[i]
		b.Index = i
		switch {
		case b.Parent < NoParent || b.Parent >= n:
			return nil, fmt.Errorf("bone %d ('%s') parent %d outside [-1, %d]: %w", i, b.Name, b.Parent, n-1, core.ErrInvalidHierarchy)
		case b.Parent == i:
			return nil, fmt.Errorf("bone %d ('%s') is its own parent: %w", i, b.Name, core.ErrInvalidHierarchy)
		}
		if _, exists := s.byName[b.Name]; !exists {
			s.byName[b.Name] = i
		} else {
			core.LogWarn("skeleton '%s': duplicate bone name '%s' at index %d, lookups resolve to the first", name, b.Name, i)
		}
	}

	// A chain longer than the bone count can only be a cycle.
	for i := range s.bones {
		steps := 0
		for p := s.bones[i].Parent; p != NoParent; p = s.bones[p].Parent {
			steps++
			if steps > n {
				return nil, fmt.Errorf("bone %d ('%s') is part of a parent cycle: %w", i, s.bones[i].Name, core.ErrInvalidHierarchy)
			}
		}
	}

	for i := range s.bones {
		s.restRelative[i] = s.computeRestRelative(i)
	}
	for i := range s.bones {
		s.inverseBind[i] = s.BindPoseModelTransform(i).Inv()
	}
	return s, nil
}

// rotate by the rest rotation, translate by the rest location and, for non-root
// bones, move to the parent's tail.
func (s *Skeleton) computeRestRelative(i int) mgl32.Mat4 {
	b := s.bones[i]
	offset := b.RestLocation
	if b.Parent != NoParent {
		offset = offset.Add(math.UpAxis.Mul(s.bones[b.Parent].Length))
	}
	return mgl32.Translate3D(offset.X(), offset.Y(), offset.Z()).Mul4(math.RotationMatrix(b.RestRotation))
}

func (s *Skeleton) BoneCount() int {
	return len(s.bones)
}

// Bone returns a copy of bone i.
func (s *Skeleton) Bone(i int) Bone {
	return s.bones[i]
}

func (s *Skeleton) BoneByName(name string) (Bone, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Bone{}, false
	}
	return s.bones[i], true
}

func (s *Skeleton) Parent(i int) int {
	return s.bones[i].Parent
}

// RestTransformRelativeToParent places bone i in its parent's space at rest.
func (s *Skeleton) RestTransformRelativeToParent(i int) mgl32.Mat4 {
	return s.restRelative[i]
}

// BindPoseModelTransform is bone i's model-space transform with the whole
// skeleton at rest: restRel(root) · ... · restRel(parent(i)) · restRel(i).
func (s *Skeleton) BindPoseModelTransform(i int) mgl32.Mat4 {
	mat := mgl32.Ident4()
	for b := i; b != NoParent; b = s.bones[b].Parent {
		mat = s.restRelative[b].Mul4(mat)
	}
	return mat
}

// InverseBindMatrix returns the cached inverse of BindPoseModelTransform(i).
func (s *Skeleton) InverseBindMatrix(i int) mgl32.Mat4 {
	return s.inverseBind[i]
}

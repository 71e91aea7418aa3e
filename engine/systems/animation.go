package systems

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-rig/engine/animation"
	"github.com/spaghettifunk/anima-rig/engine/core"
	"github.com/spaghettifunk/anima-rig/engine/resources"
)

/** @brief The configuration for the animation system. */
type AnimationSystemConfig struct {
	/** @brief The maximum number of shapes that can be registered. */
	MaxShapeCount int
	/** @brief The pose capacity of every shape. */
	MaxBoneCount int
	/** @brief Passed to every shape; 0 keeps one frame step per update. */
	ReferenceFrameRate float64
}

// AnimationSystem owns every animated shape and advances them once per frame
// in creation order.
type AnimationSystem struct {
	config         AnimationSystemConfig
	resourceSystem *ResourceSystem
	events         *core.EventSystem

	shapes map[uuid.UUID]*animation.Shape
	order  []uuid.UUID

	lastEvaluationTime float64
}

func NewAnimationSystem(config AnimationSystemConfig, rs *ResourceSystem, events *core.EventSystem) (*AnimationSystem, error) {
	if config.MaxShapeCount <= 0 {
		err := fmt.Errorf("config.MaxShapeCount must be > 0")
		core.LogError("%s", err)
		return nil, err
	}
	if config.MaxBoneCount <= 0 {
		config.MaxBoneCount = animation.DefaultMaxBoneCount
	}
	return &AnimationSystem{
		config:         config,
		resourceSystem: rs,
		events:         events,
		shapes:         make(map[uuid.UUID]*animation.Shape, config.MaxShapeCount),
		order:          make([]uuid.UUID, 0, config.MaxShapeCount),
	}, nil
}

func (as *AnimationSystem) CreateShape(name string) (*animation.Shape, error) {
	if len(as.shapes) >= as.config.MaxShapeCount {
		err := fmt.Errorf("cannot create shape '%s', %d shapes exist: %w", name, len(as.shapes), core.ErrShapeLimit)
		core.LogError("%s", err)
		return nil, err
	}
	shape := animation.NewShape(animation.ShapeConfig{
		Name:               name,
		MaxBoneCount:       as.config.MaxBoneCount,
		ReferenceFrameRate: as.config.ReferenceFrameRate,
		Events:             as.events,
	})
	as.shapes[shape.ID] = shape
	as.order = append(as.order, shape.ID)
	core.LogDebug("shape '%s' created with id %s", name, shape.ID)
	return shape, nil
}

func (as *AnimationSystem) Get(id uuid.UUID) (*animation.Shape, bool) {
	s, ok := as.shapes[id]
	return s, ok
}

func (as *AnimationSystem) DestroyShape(id uuid.UUID) bool {
	shape, ok := as.shapes[id]
	if !ok {
		return false
	}
	shape.Stop()
	delete(as.shapes, id)
	for i, o := range as.order {
		if o == id {
			as.order = append(as.order[:i], as.order[i+1:]...)
			break
		}
	}
	return true
}

func (as *AnimationSystem) ShapeCount() int {
	return len(as.shapes)
}

// LoadSkeleton loads a skeleton through the resource system and installs it on shape.
func (as *AnimationSystem) LoadSkeleton(shape *animation.Shape, name string) error {
	res, err := as.resourceSystem.Load(resources.ResourceTypeSkeleton, name, nil)
	if err != nil {
		core.LogError("%s", err)
		return err
	}
	return shape.SetSkeleton(res.Data.(*animation.Skeleton), res.FullPath)
}

// LoadClip loads a clip for shape under clipName. The shape's skeleton must be loaded.
func (as *AnimationSystem) LoadClip(shape *animation.Shape, clipName, name string) error {
	skel := shape.Skeleton()
	if skel == nil {
		err := core.NewLoadError(name, 0, "clip '%s' loaded before a skeleton", clipName)
		core.LogError("%s", err)
		return err
	}
	clip, path, err := as.loadClip(clipName, name, skel.BoneCount())
	if err != nil {
		return err
	}
	return shape.AddClip(clip, path)
}

func (as *AnimationSystem) loadClip(clipName, name string, boneCount int) (*animation.Clip, string, error) {
	res, err := as.resourceSystem.Load(resources.ResourceTypeAnimation, name, resources.AnimationResourceParams{
		ExpectedBoneCount: boneCount,
	})
	if err != nil {
		core.LogError("%s", err)
		return nil, "", err
	}
	clip := res.Data.(*animation.Clip)
	if clipName != "" {
		clip.Name = clipName
	}
	return clip, res.FullPath, nil
}

// Update advances and evaluates every shape. Every shape is updated even if
// one fails; the first error is returned.
func (as *AnimationSystem) Update(deltaTime float64) error {
	start := time.Now()
	var firstErr error
	for _, id := range as.order {
		if err := as.shapes[id].Update(deltaTime); err != nil {
			core.LogError("shape '%s': %s", as.shapes[id].Name, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	as.lastEvaluationTime = time.Since(start).Seconds()
	return firstErr
}

// LastEvaluationTime is the duration of the last Update in seconds.
func (as *AnimationSystem) LastEvaluationTime() float64 {
	return as.lastEvaluationTime
}

// ReloadAsset reloads the file at path into every shape using it. Failed
// reloads keep the previous asset. Returns the number of shapes updated.
func (as *AnimationSystem) ReloadAsset(path string) int {
	reloaded := 0
	switch resources.TypeFromPath(path) {
	case resources.ResourceTypeSkeleton:
		for _, id := range as.order {
			shape := as.shapes[id]
			if shape.SkeletonPath() != path {
				continue
			}
			if err := as.LoadSkeleton(shape, path); err != nil {
				core.LogWarn("shape '%s': keeping skeleton after failed reload of '%s'", shape.Name, path)
				continue
			}
			reloaded++
		}
	case resources.ResourceTypeAnimation:
		for _, id := range as.order {
			shape := as.shapes[id]
			if shape.Skeleton() == nil {
				continue
			}
			for _, clipName := range shape.ClipsFromPath(path) {
				clip, _, err := as.loadClip(clipName, path, shape.Skeleton().BoneCount())
				if err != nil {
					core.LogWarn("shape '%s': keeping clip '%s' after failed reload", shape.Name, clipName)
					continue
				}
				if err := shape.ReplaceClip(clip); err != nil {
					continue
				}
				reloaded++
			}
		}
	}
	if reloaded > 0 {
		core.LogInfo("hot reloaded '%s' into %d shape(s)", path, reloaded)
	}
	return reloaded
}

func (as *AnimationSystem) Shutdown() error {
	for _, id := range as.order {
		as.shapes[id].Stop()
	}
	as.shapes = make(map[uuid.UUID]*animation.Shape)
	as.order = as.order[:0]
	return nil
}

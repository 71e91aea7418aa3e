package systems

import (
	"github.com/spaghettifunk/anima-rig/engine/assets"
	"github.com/spaghettifunk/anima-rig/engine/core"
)

type SystemManagerConfig struct {
	AssetBasePath      string
	MaxShapeCount      int
	MaxBoneCount       int
	ReferenceFrameRate float64
}

type SystemManager struct {
	EventSystem     *core.EventSystem
	ResourceSystem  *ResourceSystem
	AnimationSystem *AnimationSystem
}

func NewSystemManager(config SystemManagerConfig, am *assets.AssetManager) (*SystemManager, error) {
	es := core.NewEventSystem()

	rs, err := NewResourceSystem(ResourceSystemConfig{
		MaxLoaderCount: 16,
		AssetBasePath:  config.AssetBasePath,
	}, am)
	if err != nil {
		return nil, err
	}
	as, err := NewAnimationSystem(AnimationSystemConfig{
		MaxShapeCount:      config.MaxShapeCount,
		MaxBoneCount:       config.MaxBoneCount,
		ReferenceFrameRate: config.ReferenceFrameRate,
	}, rs, es)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		EventSystem:     es,
		ResourceSystem:  rs,
		AnimationSystem: as,
	}, nil
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.AnimationSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.ResourceSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.EventSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}

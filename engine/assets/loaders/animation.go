package loaders

import (
	"github.com/spaghettifunk/anima-rig/engine/animation"
	"github.com/spaghettifunk/anima-rig/engine/core"
	"github.com/spaghettifunk/anima-rig/engine/resources"
)

type AnimationLoader struct{}

// Load parses a .anim file. params may be a resources.AnimationResourceParams
// (or a pointer to one) carrying the bone count of the target skeleton.
// The resource data is an *animation.Clip.
func (al *AnimationLoader) Load(name, path string, params interface{}) (*resources.Resource, error) {
	expected := 0
	switch p := params.(type) {
	case nil:
	case resources.AnimationResourceParams:
		expected = p.ExpectedBoneCount
	case *resources.AnimationResourceParams:
		if p != nil {
			expected = p.ExpectedBoneCount
		}
	default:
		return nil, core.NewLoadError(path, 0, "unexpected animation params %T", params)
	}

	if name == "" {
		name = resources.NameFromPath(path)
	}
	clip, err := animation.LoadClip(name, path, expected)
	if err != nil {
		return nil, err
	}
	return &resources.Resource{
		Type:     resources.ResourceTypeAnimation,
		Name:     name,
		FullPath: path,
		DataSize: uint64(clip.FrameCount() * clip.BoneCount()),
		Data:     clip,
	}, nil
}

func (al *AnimationLoader) Unload(resource *resources.Resource) error {
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

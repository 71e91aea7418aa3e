package loaders

import (
	"github.com/spaghettifunk/anima-rig/engine/animation"
	"github.com/spaghettifunk/anima-rig/engine/resources"
)

type SkeletonLoader struct{}

// Load parses a .skel file. The resource data is an *animation.Skeleton.
func (sl *SkeletonLoader) Load(name, path string, params interface{}) (*resources.Resource, error) {
	skel, err := animation.LoadSkeleton(path)
	if err != nil {
		return nil, err
	}
	if name != "" {
		skel.Name = name
	}
	return &resources.Resource{
		Type:     resources.ResourceTypeSkeleton,
		Name:     skel.Name,
		FullPath: path,
		DataSize: uint64(skel.BoneCount()),
		Data:     skel,
	}, nil
}

func (sl *SkeletonLoader) Unload(resource *resources.Resource) error {
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

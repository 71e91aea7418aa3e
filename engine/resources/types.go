package resources

import (
	"path/filepath"
	"strings"
)

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Unknown or unsupported resource. */
	ResourceTypeNone ResourceType = iota
	/** @brief Skeleton resource type (bone hierarchy, .skel). */
	ResourceTypeSkeleton
	/** @brief Animation clip resource type (per-bone frames, .anim). */
	ResourceTypeAnimation
)

func (rt ResourceType) String() string {
	switch rt {
	case ResourceTypeSkeleton:
		return "skeleton"
	case ResourceTypeAnimation:
		return "animation"
	default:
		return "none"
	}
}

// TypeFromPath determines the resource type from the file extension.
func TypeFromPath(path string) ResourceType {
	switch filepath.Ext(path) {
	case ".skel":
		return ResourceTypeSkeleton
	case ".anim":
		return ResourceTypeAnimation
	default:
		return ResourceTypeNone
	}
}

// NameFromPath derives a resource name from its file name without extension.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The type of the loader which handles this resource. */
	Type ResourceType
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The number of records parsed from the file. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}

/** @brief Parameters used when loading an animation clip. */
type AnimationResourceParams struct {
	/** @brief The bone count the clip must match. 0 skips the check. */
	ExpectedBoneCount int
}

/** @brief An interface for a resource loader. All registered loaders use this. */
type Loader interface {
	Load(name, path string, params interface{}) (*Resource, error)
	Unload(resource *Resource) error
}

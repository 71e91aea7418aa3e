package systems

import (
	"fmt"
	"path/filepath"

	"github.com/spaghettifunk/anima-rig/engine/assets"
	"github.com/spaghettifunk/anima-rig/engine/assets/loaders"
	"github.com/spaghettifunk/anima-rig/engine/core"
	"github.com/spaghettifunk/anima-rig/engine/resources"
)

/** @brief The configuration for the resource system */
type ResourceSystemConfig struct {
	/** @brief The maximum number of loaders that can be registered with this system. */
	MaxLoaderCount uint32
	/** @brief The relative base path for assets. */
	AssetBasePath string
}

type ResourceSystem struct {
	config       ResourceSystemConfig
	loaders      map[resources.ResourceType]resources.Loader
	assetManager *assets.AssetManager
}

// NewResourceSystem registers the skeleton and animation loaders. assetManager
// may be nil, in which case names resolve against AssetBasePath only.
func NewResourceSystem(config ResourceSystemConfig, assetManager *assets.AssetManager) (*ResourceSystem, error) {
	if config.MaxLoaderCount == 0 {
		err := fmt.Errorf("failed to run NewResourceSystem because config.MaxLoaderCount==0")
		core.LogError("%s", err)
		return nil, err
	}

	rs := &ResourceSystem{
		config:       config,
		loaders:      make(map[resources.ResourceType]resources.Loader, config.MaxLoaderCount),
		assetManager: assetManager,
	}

	// NOTE: Auto-register known loader types here.
	if err := rs.RegisterLoader(resources.ResourceTypeSkeleton, &loaders.SkeletonLoader{}); err != nil {
		return nil, err
	}
	if err := rs.RegisterLoader(resources.ResourceTypeAnimation, &loaders.AnimationLoader{}); err != nil {
		return nil, err
	}

	core.LogInfo("Resource system initialized with base path '%s'.", config.AssetBasePath)
	return rs, nil
}

func (rs *ResourceSystem) RegisterLoader(resourceType resources.ResourceType, loader resources.Loader) error {
	if _, exists := rs.loaders[resourceType]; exists {
		err := fmt.Errorf("loader of type %s already exists and will not be registered", resourceType)
		core.LogError("%s", err)
		return err
	}
	if uint32(len(rs.loaders)) >= rs.config.MaxLoaderCount {
		err := fmt.Errorf("cannot register loader of type %s, limit of %d reached", resourceType, rs.config.MaxLoaderCount)
		core.LogError("%s", err)
		return err
	}
	rs.loaders[resourceType] = loader
	core.LogDebug("Loader for %s registered.", resourceType)
	return nil
}

// Load resolves name to a file and hands it to the loader for resourceType.
// The resource name is taken from the file name.
func (rs *ResourceSystem) Load(resourceType resources.ResourceType, name string, params interface{}) (*resources.Resource, error) {
	loader, ok := rs.loaders[resourceType]
	if !ok {
		err := fmt.Errorf("resource '%s': %s: %w", name, resourceType, core.ErrNoLoader)
		core.LogError("%s", err)
		return nil, err
	}
	path, err := rs.Resolve(resourceType, name)
	if err != nil {
		return nil, err
	}
	return loader.Load(resources.NameFromPath(path), path, params)
}

func (rs *ResourceSystem) Unload(resource *resources.Resource) error {
	if resource == nil {
		return nil
	}
	loader, ok := rs.loaders[resource.Type]
	if !ok {
		return fmt.Errorf("resource '%s': %s: %w", resource.Name, resource.Type, core.ErrNoLoader)
	}
	return loader.Unload(resource)
}

// Resolve turns a resource name into an absolute path. Bare names without an
// extension are looked up in the asset index first.
func (rs *ResourceSystem) Resolve(resourceType resources.ResourceType, name string) (string, error) {
	if rs.assetManager != nil && filepath.Ext(name) == "" {
		if path, ok := rs.assetManager.Find(name, resourceType); ok {
			return path, nil
		}
	}
	path := name
	if !filepath.IsAbs(path) && rs.config.AssetBasePath != "" {
		path = filepath.Join(rs.config.AssetBasePath, path)
	}
	return filepath.Abs(path)
}

func (rs *ResourceSystem) Shutdown() error {
	rs.loaders = make(map[resources.ResourceType]resources.Loader)
	return nil
}

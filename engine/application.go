package engine

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/anima-rig/engine/animation"
	"github.com/spaghettifunk/anima-rig/engine/core"
)

type ApplicationConfig struct {
	// The application name, used for logging.
	Name string `toml:"name"`
	// One of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// Directory holding .skel and .anim files.
	AssetBasePath string `toml:"asset_base_path"`
	// Pose capacity of every shape.
	MaxBoneCount  int `toml:"max_bone_count"`
	MaxShapeCount int `toml:"max_shape_count"`
	// Loop pacing. 0 runs unthrottled.
	TargetFrameRate float64 `toml:"target_frame_rate"`
	// Frames per second a clip speed of 1 is authored for. 0 advances one
	// frame step per update regardless of the frame time.
	ReferenceFrameRate float64 `toml:"reference_frame_rate"`
	// Reload assets when they change on disk.
	HotReload bool `toml:"hot_reload"`
	// Stop after this many frames. 0 runs until shutdown.
	MaxFrames uint64 `toml:"max_frames"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:            "Anima Rig",
		LogLevel:        "info",
		AssetBasePath:   "assets",
		MaxBoneCount:    animation.DefaultMaxBoneCount,
		MaxShapeCount:   64,
		TargetFrameRate: 60,
	}
}

// LoadApplicationConfig reads a TOML file over the defaults. Unknown keys are rejected.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewLoadError(path, 0, "cannot open config").Wrap(err)
	}
	defer f.Close()

	config := DefaultApplicationConfig()
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(config); err != nil {
		line := 0
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			line, _ = decodeErr.Position()
		}
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) && len(strictErr.Errors) > 0 {
			line, _ = strictErr.Errors[0].Position()
		}
		return nil, core.NewLoadError(path, line, "invalid config").Wrap(err)
	}
	if err := config.Validate(); err != nil {
		return nil, core.NewLoadError(path, 0, "invalid config").Wrap(err)
	}
	return config, nil
}

func (c *ApplicationConfig) Validate() error {
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxBoneCount <= 0 {
		return fmt.Errorf("max_bone_count must be > 0, got %d", c.MaxBoneCount)
	}
	if c.MaxShapeCount <= 0 {
		return fmt.Errorf("max_shape_count must be > 0, got %d", c.MaxShapeCount)
	}
	if c.TargetFrameRate < 0 || c.ReferenceFrameRate < 0 {
		return fmt.Errorf("frame rates cannot be negative")
	}
	return nil
}

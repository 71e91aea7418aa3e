package engine

import (
	"github.com/spaghettifunk/anima-rig/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnShutdown        Shutdown
}

type Initialize func() error

// Update runs before the animation system advances the shapes.
type Update func(deltaTime float64) error

// Render runs after every pose of the frame has been evaluated.
type Render func(deltaTime float64) error
type Shutdown func() error

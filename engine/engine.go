package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/anima-rig/engine/assets"
	"github.com/spaghettifunk/anima-rig/engine/core"
	"github.com/spaghettifunk/anima-rig/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine has shut down
	EngineStageStopped
)

// Engine runs the frame loop: drain asset changes, game update, advance and
// evaluate every shape, game render. All animation work happens on the
// goroutine calling Run.
type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     atomic.Bool
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64
	frameCount    uint64
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultApplicationConfig()
	}
	config := g.ApplicationConfig
	if err := config.Validate(); err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	level, _ := core.ParseLogLevel(config.LogLevel)
	core.SetLogLevel(level)

	am := assets.NewAssetManager(assets.DefaultMaxPendingChanges)

	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		AssetBasePath:      config.AssetBasePath,
		MaxShapeCount:      config.MaxShapeCount,
		MaxBoneCount:       config.MaxBoneCount,
		ReferenceFrameRate: config.ReferenceFrameRate,
	}, am)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	g.SystemManager = sm

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		clock:         core.NewClock(),
		metrics:       core.NewMetrics(),
		assetManager:  am,
		systemManager: sm,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig

	if err := e.assetManager.Initialize(config.AssetBasePath, config.HotReload); err != nil {
		return err
	}

	// register some events
	e.systemManager.EventSystem.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized", config.Name)
	return nil
}

// Run blocks until Stop is called, the quit event fires or MaxFrames is
// reached, then shuts the engine down.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before running")
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	config := e.gameInstance.ApplicationConfig
	var targetFrameSeconds float64
	if config.TargetFrameRate > 0 {
		targetFrameSeconds = 1.0 / config.TargetFrameRate
	}

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var runErr error
	for e.isRunning.Load() {
		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStartTime := time.Now()

		if runErr = e.frame(delta); runErr != nil {
			core.LogError("frame %d failed, shutting down: %s", e.frameCount, runErr)
			break
		}

		frameElapsedTime := time.Since(frameStartTime).Seconds()
		e.metrics.Update(frameElapsedTime, e.systemManager.AnimationSystem.LastEvaluationTime())

		// If there is time left, give it back to the OS.
		if remaining := targetFrameSeconds - frameElapsedTime; remaining > 0 {
			time.Sleep(time.Duration(remaining * float64(time.Second)))
		}

		e.frameCount++
		if config.MaxFrames > 0 && e.frameCount >= config.MaxFrames {
			e.isRunning.Store(false)
		}
		e.lastTime = currentTime
	}

	if err := e.shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (e *Engine) frame(delta float64) error {
	for _, path := range e.assetManager.PollChanges() {
		e.systemManager.AnimationSystem.ReloadAsset(path)
	}

	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(delta); err != nil {
			return err
		}
	}
	if err := e.systemManager.AnimationSystem.Update(delta); err != nil {
		return err
	}
	if e.gameInstance.FnRender != nil {
		if err := e.gameInstance.FnRender(delta); err != nil {
			return err
		}
	}
	return nil
}

// Stop asks the loop to exit after the current frame. Safe to call from any goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

func (e *Engine) FrameCount() uint64 {
	return e.frameCount
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

func (e *Engine) shutdown() error {
	e.currentStage = EngineStageShuttingDown
	e.clock.Stop()

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			return err
		}
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	core.LogInfo("shut down after %d frames (%.1f fps, %.3f ms per frame, %.3f ms evaluating)",
		e.frameCount, e.metrics.FPS(), e.metrics.FrameTime(), e.metrics.EvaluationTime())
	e.currentStage = EngineStageStopped
	return nil
}

func (e *Engine) onEvent(code core.SystemEventCode, listener interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

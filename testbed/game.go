package testbed

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/anima-rig/engine"
	"github.com/spaghettifunk/anima-rig/engine/animation"
	"github.com/spaghettifunk/anima-rig/engine/core"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	arm         *animation.Shape
	wrist       int
	wristTip    mgl32.Vec3
	frameNumber uint64
}

func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogInfo("initializing testbed...")
	state := g.State.(*gameState)
	as := g.SystemManager.AnimationSystem

	arm, err := as.CreateShape("arm")
	if err != nil {
		return err
	}
	if err := as.LoadSkeleton(arm, "arm"); err != nil {
		return err
	}
	if err := as.LoadClip(arm, "wave", "wave"); err != nil {
		return err
	}
	if err := arm.Play("wave", 1, animation.EndPolicyPingPong, 0); err != nil {
		return err
	}
	state.arm = arm

	skel := arm.Skeleton()
	wrist, ok := skel.BoneByName("wrist")
	if !ok {
		wrist = skel.Bone(skel.BoneCount() - 1)
	}
	state.wrist = wrist.Index
	state.wristTip = mgl32.TransformCoordinate(mgl32.Vec3{0, wrist.Length, 0}, skel.BindPoseModelTransform(wrist.Index))

	events := g.SystemManager.EventSystem
	events.Register(core.EVENT_CODE_ANIMATION_REVERSED, g, g.onAnimationEvent)
	events.Register(core.EVENT_CODE_ASSET_RELOADED, g, g.onAnimationEvent)
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.frameNumber++
	return nil
}

func (g *TestGame) Render(deltaTime float64) error {
	state := g.State.(*gameState)
	if state.frameNumber%30 != 0 || state.arm.Pose().BoneCount() <= state.wrist {
		return nil
	}
	tip := state.arm.Pose().SkinPoint(state.wrist, state.wristTip)
	core.LogDebug("frame %d: wrist tip at [%.3f, %.3f, %.3f]", state.arm.Playback().CurrentFrame(), tip.X(), tip.Y(), tip.Z())
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogInfo("shutting down testbed...")
	return nil
}

func (g *TestGame) onAnimationEvent(code core.SystemEventCode, listener interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_ANIMATION_REVERSED:
		core.LogDebug("clip '%s' reversed on frame %d", data.Clip, data.Frame)
	case core.EVENT_CODE_ASSET_RELOADED:
		core.LogInfo("'%s' reloaded, restarting wave", data.Path)
		state := g.State.(*gameState)
		if !state.arm.IsPlaying("wave") {
			state.arm.Play("wave", 1, animation.EndPolicyPingPong, 0)
		}
	}
	return false
}

package animation

import (
	"github.com/spaghettifunk/anima-rig/engine/math"
)

/** @brief What happens when playback runs past either end of the clip. */
type EndPolicy int

const (
	/** @brief Return to idle. */
	EndPolicyStop EndPolicy = iota
	/** @brief Hold the boundary frame by zeroing the speed. */
	EndPolicyPause
	/** @brief Wrap to the opposite boundary, keeping the direction. */
	EndPolicyLoop
	/** @brief Reverse direction and step back inside the clip. */
	EndPolicyPingPong
)

func (p EndPolicy) String() string {
	switch p {
	case EndPolicyStop:
		return "stop"
	case EndPolicyPause:
		return "pause"
	case EndPolicyLoop:
		return "loop"
	case EndPolicyPingPong:
		return "pingpong"
	default:
		return "unknown"
	}
}

// Transition reports what a single Tick did.
type Transition int

const (
	// Nothing moved: idle, paused or zero speed.
	TransitionNone Transition = iota
	// The cursor moved inside the clip.
	TransitionAdvanced
	TransitionLooped
	TransitionReversed
	// The Pause policy froze playback on a boundary frame.
	TransitionHeld
	TransitionStopped
)

func (t Transition) String() string {
	switch t {
	case TransitionNone:
		return "none"
	case TransitionAdvanced:
		return "advanced"
	case TransitionLooped:
		return "looped"
	case TransitionReversed:
		return "reversed"
	case TransitionHeld:
		return "held"
	case TransitionStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// DefaultSpeed is the speed of an idle state.
const DefaultSpeed = 1.0

// PlaybackState selects the active clip and tracks the current frame.
// Idle is the zero clip with frame -1, speed 1 and the Stop policy; Play and
// Stop are the only ways in and out of it.
type PlaybackState struct {
	activeClip   *Clip
	currentFrame int
	cursor       float64
	speed        float64
	endPolicy    EndPolicy
	repeatLimit  int
	repeatCount  int
	paused       bool
}

func NewPlaybackState() *PlaybackState {
	ps := &PlaybackState{}
	ps.Stop()
	return ps
}

// Play starts clip from its first frame, or its last frame for negative speeds.
// A nil clip leaves the state untouched. repeatLimit 0 means unlimited.
func (ps *PlaybackState) Play(clip *Clip, speed float64, policy EndPolicy, repeatLimit int) {
	if clip == nil {
		return
	}
	ps.activeClip = clip
	ps.repeatCount = 0
	ps.speed = speed
	ps.endPolicy = policy
	ps.repeatLimit = repeatLimit
	if speed >= 0 {
		ps.currentFrame = 0
	} else {
		ps.currentFrame = clip.FrameCount() - 1
	}
	ps.cursor = float64(ps.currentFrame)
	ps.paused = false
}

// Pause freezes the current frame.
func (ps *PlaybackState) Pause() {
	ps.paused = true
}

// Resume undoes Pause. It does not restart a clip held by the Pause policy.
func (ps *PlaybackState) Resume() {
	ps.paused = false
}

// Stop returns to idle.
func (ps *PlaybackState) Stop() {
	ps.activeClip = nil
	ps.currentFrame = -1
	ps.cursor = -1
	ps.speed = DefaultSpeed
	ps.endPolicy = EndPolicyStop
	ps.repeatLimit = 0
	ps.repeatCount = 0
	ps.paused = false
}

// Tick advances the cursor by the speed and handles running off either end.
func (ps *PlaybackState) Tick() Transition {
	return ps.advance(ps.speed)
}

// TickScaled advances by speed*factor. Non-positive factors do nothing.
func (ps *PlaybackState) TickScaled(factor float64) Transition {
	if factor <= 0 {
		return TransitionNone
	}
	return ps.advance(ps.speed * factor)
}

func (ps *PlaybackState) advance(step float64) Transition {
	if ps.activeClip == nil || ps.paused || ps.speed == 0 {
		return TransitionNone
	}
	ps.cursor += step
	ps.currentFrame = math.RoundToInt(ps.cursor)
	if ps.currentFrame < 0 || ps.currentFrame > ps.activeClip.FrameCount()-1 {
		return ps.endOfClip()
	}
	return TransitionAdvanced
}

// endOfClip runs the end policy. The limit is checked after counting, so a
// limit of N runs the policy N times and the end after that stops.
func (ps *PlaybackState) endOfClip() Transition {
	ps.repeatCount++
	if ps.repeatLimit != 0 && ps.repeatCount > ps.repeatLimit {
		ps.Stop()
		return TransitionStopped
	}

	last := ps.activeClip.FrameCount() - 1
	forward := ps.speed > 0

	switch ps.endPolicy {
	case EndPolicyPause:
		ps.currentFrame = math.Clamp(ps.currentFrame, 0, last)
		ps.cursor = float64(ps.currentFrame)
		ps.speed = 0
		return TransitionHeld
	case EndPolicyLoop:
		if forward {
			ps.currentFrame = 0
		} else {
			ps.currentFrame = last
		}
		ps.cursor = float64(ps.currentFrame)
		return TransitionLooped
	case EndPolicyPingPong:
		// Forward hits land on last-1 with the cursor still on last, so that
		// frame shows twice; backward hits land on 1 directly.
		if forward {
			ps.currentFrame = math.Clamp(last-1, 0, last)
			ps.cursor = float64(last)
		} else {
			ps.currentFrame = math.Clamp(1, 0, last)
			ps.cursor = float64(ps.currentFrame)
		}
		ps.speed = -ps.speed
		return TransitionReversed
	default:
		ps.Stop()
		return TransitionStopped
	}
}

func (ps *PlaybackState) ActiveClip() *Clip {
	return ps.activeClip
}

// CurrentFrame is -1 while idle.
func (ps *PlaybackState) CurrentFrame() int {
	return ps.currentFrame
}

func (ps *PlaybackState) Cursor() float64 {
	return ps.cursor
}

func (ps *PlaybackState) Speed() float64 {
	return ps.speed
}

func (ps *PlaybackState) EndPolicy() EndPolicy {
	return ps.endPolicy
}

func (ps *PlaybackState) RepeatLimit() int {
	return ps.repeatLimit
}

func (ps *PlaybackState) RepeatCount() int {
	return ps.repeatCount
}

func (ps *PlaybackState) IsIdle() bool {
	return ps.activeClip == nil
}

// IsPaused is true when a clip is active but Tick would not move it.
func (ps *PlaybackState) IsPaused() bool {
	return ps.activeClip != nil && (ps.paused || ps.speed == 0)
}

// IsPlaying reports whether the clip called name is the active clip.
func (ps *PlaybackState) IsPlaying(name string) bool {
	return ps.activeClip != nil && ps.activeClip.Name == name
}

package animation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-rig/engine/core"
)

const DefaultMaxBoneCount = 128

/** @brief The configuration for an animated shape. */
type ShapeConfig struct {
	Name string
	/** @brief Capacity of the pose output. Defaults to DefaultMaxBoneCount. */
	MaxBoneCount int
	/**
	 * @brief Frames per second a speed of 1 is authored for. When positive, Update
	 * scales each tick by deltaTime*ReferenceFrameRate; zero keeps one frame per tick.
	 */
	ReferenceFrameRate float64
	/** @brief Optional event sink for playback transitions and reloads. */
	Events *core.EventSystem
}

// Shape is a rigged object: one skeleton, its clip library, one playback state
// and the pose buffer the renderer reads. A Shape is not safe for concurrent use.
type Shape struct {
	ID   uuid.UUID
	Name string

	skeleton     *Skeleton
	skeletonPath string
	library      *Library
	clipPaths    map[string]string
	playback     *PlaybackState
	pose         *PoseOutput

	referenceFrameRate float64
	events             *core.EventSystem
}

func NewShape(config ShapeConfig) *Shape {
	if config.MaxBoneCount <= 0 {
		config.MaxBoneCount = DefaultMaxBoneCount
	}
	return &Shape{
		ID:                 uuid.New(),
		Name:               config.Name,
		library:            NewLibrary(),
		clipPaths:          make(map[string]string),
		playback:           NewPlaybackState(),
		pose:               NewPoseOutput(config.MaxBoneCount),
		referenceFrameRate: config.ReferenceFrameRate,
		events:             config.Events,
	}
}

// LoadSkeleton reads the skeleton at path and makes it the shape's skeleton.
func (s *Shape) LoadSkeleton(path string) error {
	skel, err := LoadSkeleton(path)
	if err != nil {
		core.LogError("%s", err)
		return err
	}
	return s.SetSkeleton(skel, path)
}

// SetSkeleton installs skel. Playback stops and clips whose bone count no longer
// matches are dropped from the library.
func (s *Shape) SetSkeleton(skel *Skeleton, path string) error {
	if skel.BoneCount() > s.pose.Capacity() {
		err := fmt.Errorf("shape '%s': skeleton '%s' has %d bones, pose holds %d: %w", s.Name, skel.Name, skel.BoneCount(), s.pose.Capacity(), core.ErrCapacityExceeded)
		core.LogError("%s", err)
		return err
	}

	reload := s.skeleton != nil
	s.skeleton = skel
	s.skeletonPath = path
	s.Stop()

	for _, name := range s.library.Names() {
		clip, _ := s.library.Get(name)
		if clip.BoneCount() != skel.BoneCount() {
			core.LogWarn("shape '%s': dropping clip '%s' (%d bones) after skeleton change to %d bones", s.Name, name, clip.BoneCount(), skel.BoneCount())
			s.library.Remove(name)
			delete(s.clipPaths, name)
		}
	}

	if reload {
		s.fire(core.EVENT_CODE_ASSET_RELOADED, core.EventContext{Path: path})
	}
	core.LogDebug("shape '%s': skeleton '%s' with %d bones installed", s.Name, skel.Name, skel.BoneCount())
	return nil
}

// LoadClip reads the clip at path into the library under name. The skeleton
// must be loaded first so the bone count can be checked.
func (s *Shape) LoadClip(name, path string) error {
	if s.skeleton == nil {
		err := core.NewLoadError(path, 0, "clip '%s' loaded before a skeleton", name)
		core.LogError("%s", err)
		return err
	}
	clip, err := LoadClip(name, path, s.skeleton.BoneCount())
	if err != nil {
		core.LogError("%s", err)
		return err
	}
	return s.AddClip(clip, path)
}

// AddClip registers an already parsed clip. path is remembered for reloads and
// may be empty.
func (s *Shape) AddClip(clip *Clip, path string) error {
	if s.skeleton == nil || clip.BoneCount() != s.skeleton.BoneCount() {
		err := core.NewLoadError(path, 0, "clip '%s' does not fit shape '%s'", clip.Name, s.Name).Wrap(core.ErrBoneCountMismatch)
		core.LogError("%s", err)
		return err
	}
	if err := s.library.Add(clip); err != nil {
		core.LogError("%s", err)
		return err
	}
	if path != "" {
		s.clipPaths[clip.Name] = path
	}
	return nil
}

// ClipsFromPath lists the clips loaded from path.
func (s *Shape) ClipsFromPath(path string) []string {
	var names []string
	for _, name := range s.library.Names() {
		if s.clipPaths[name] == path {
			names = append(names, name)
		}
	}
	return names
}

// ReplaceClip swaps in a reloaded clip. If the old clip was active playback stops.
func (s *Shape) ReplaceClip(clip *Clip) error {
	if s.skeleton == nil || clip.BoneCount() != s.skeleton.BoneCount() {
		err := fmt.Errorf("shape '%s': clip '%s' does not fit the skeleton: %w", s.Name, clip.Name, core.ErrBoneCountMismatch)
		core.LogError("%s", err)
		return err
	}
	if s.playback.IsPlaying(clip.Name) {
		s.Stop()
	}
	s.library.Replace(clip)
	s.fire(core.EVENT_CODE_ASSET_RELOADED, core.EventContext{Clip: clip.Name, Path: s.clipPaths[clip.Name]})
	return nil
}

// ValidateMeshBoneCount checks a mesh's bone count against the skeleton.
func (s *Shape) ValidateMeshBoneCount(meshPath string, boneCount int) error {
	if s.skeleton == nil {
		return core.NewLoadError(meshPath, 0, "mesh validated before a skeleton was loaded")
	}
	if boneCount != s.skeleton.BoneCount() {
		return core.NewLoadError(meshPath, 0, "mesh has %d bones, skeleton '%s' has %d", boneCount, s.skeleton.Name, s.skeleton.BoneCount()).Wrap(core.ErrBoneCountMismatch)
	}
	return nil
}

// Play starts the named clip. Unknown names leave playback untouched and
// return ErrClipNotFound, which callers are free to ignore.
func (s *Shape) Play(name string, speed float64, policy EndPolicy, repeatLimit int) error {
	clip, ok := s.library.Get(name)
	if !ok {
		core.LogWarn("shape '%s': play '%s' ignored, no such clip", s.Name, name)
		return fmt.Errorf("shape '%s': '%s': %w", s.Name, name, core.ErrClipNotFound)
	}
	s.playback.Play(clip, speed, policy, repeatLimit)
	return nil
}

func (s *Shape) Pause() {
	s.playback.Pause()
}

func (s *Shape) Resume() {
	s.playback.Resume()
}

func (s *Shape) Stop() {
	wasActive := !s.playback.IsIdle()
	clip := s.activeClipName()
	s.playback.Stop()
	if wasActive {
		s.fire(core.EVENT_CODE_ANIMATION_STOPPED, core.EventContext{Clip: clip, Frame: -1})
	}
}

func (s *Shape) IsPlaying(name string) bool {
	return s.playback.IsPlaying(name)
}

// Tick advances playback by exactly one step of the current speed.
func (s *Shape) Tick() Transition {
	clip := s.activeClipName()
	t := s.playback.Tick()
	s.publish(t, clip)
	return t
}

// Update advances playback for a frame of deltaTime seconds and recomputes the
// pose. Without a reference frame rate it is Tick followed by Evaluate.
func (s *Shape) Update(deltaTime float64) error {
	clip := s.activeClipName()
	var t Transition
	if s.referenceFrameRate > 0 {
		t = s.playback.TickScaled(deltaTime * s.referenceFrameRate)
	} else {
		t = s.playback.Tick()
	}
	s.publish(t, clip)
	return s.Evaluate()
}

// Evaluate recomputes the pose for the current frame. Shapes without a skeleton
// produce an empty pose.
func (s *Shape) Evaluate() error {
	if s.skeleton == nil {
		return nil
	}
	return Evaluate(s.skeleton, s.playback, s.pose)
}

func (s *Shape) SkinningMatrices() []mgl32.Mat4 {
	return s.pose.SkinningMatrices()
}

func (s *Shape) SkinningNormalMatrices() []mgl32.Mat3 {
	return s.pose.SkinningNormalMatrices()
}

func (s *Shape) Pose() *PoseOutput {
	return s.pose
}

func (s *Shape) Skeleton() *Skeleton {
	return s.skeleton
}

func (s *Shape) SkeletonPath() string {
	return s.skeletonPath
}

func (s *Shape) Library() *Library {
	return s.library
}

// ClipPath returns the file a clip was loaded from.
func (s *Shape) ClipPath(name string) (string, bool) {
	p, ok := s.clipPaths[name]
	return p, ok
}

func (s *Shape) Playback() *PlaybackState {
	return s.playback
}

func (s *Shape) activeClipName() string {
	if c := s.playback.ActiveClip(); c != nil {
		return c.Name
	}
	return ""
}

func (s *Shape) publish(t Transition, clip string) {
	var code core.SystemEventCode
	switch t {
	case TransitionLooped:
		code = core.EVENT_CODE_ANIMATION_LOOPED
	case TransitionReversed:
		code = core.EVENT_CODE_ANIMATION_REVERSED
	case TransitionHeld:
		code = core.EVENT_CODE_ANIMATION_HELD
	case TransitionStopped:
		code = core.EVENT_CODE_ANIMATION_STOPPED
	default:
		return
	}
	s.fire(code, core.EventContext{
		Clip:        clip,
		Frame:       s.playback.CurrentFrame(),
		RepeatCount: s.playback.RepeatCount(),
	})
}

func (s *Shape) fire(code core.SystemEventCode, data core.EventContext) {
	if s.events == nil {
		return
	}
	data.Sender = s.ID.String()
	s.events.Fire(code, data)
}

package animation

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/anima-rig/engine/core"
)

func TestLibrary(t *testing.T) {
	lib := NewLibrary()
	if err := lib.Add(restClip(t, "walk", 1, 2)); err != nil {
		t.Fatalf("expected error to be nil, got %v", err)
	}
	if err := lib.Add(restClip(t, "idle", 1, 1)); err != nil {
		t.Fatalf("expected error to be nil, got %v", err)
	}

	if err := lib.Add(restClip(t, "walk", 1, 5)); !errors.Is(err, core.ErrDuplicateClip) {
		t.Errorf("expected ErrDuplicateClip, got %v", err)
	}

	names := lib.Names()
	if len(names) != 2 || names[0] != "idle" || names[1] != "walk" {
		t.Errorf("expected [idle walk], got %v", names)
	}

	lib.Replace(restClip(t, "walk", 1, 5))
	if c, _ := lib.Get("walk"); c.FrameCount() != 5 {
		t.Errorf("expected replaced clip with 5 frames, got %d", c.FrameCount())
	}

	if !lib.Remove("idle") || lib.Remove("idle") {
		t.Errorf("expected a single successful remove")
	}
	if _, ok := lib.Get("idle"); ok {
		t.Errorf("expected idle to be gone")
	}
	if lib.Len() != 1 {
		t.Errorf("expected 1 clip, got %d", lib.Len())
	}
}

func TestNewClipValidation(t *testing.T) {
	tests := []struct {
		name      string
		boneCount int
		frames    [][]FrameTransform
	}{
		{"no bones", 0, [][]FrameTransform{restFrame(0)}},
		{"no frames", 2, nil},
		{"ragged frame", 2, [][]FrameTransform{restFrame(2), restFrame(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClip("bad", tt.boneCount, tt.frames); !errors.Is(err, core.ErrInvalidClip) {
				t.Errorf("expected ErrInvalidClip, got %v", err)
			}
		})
	}
}

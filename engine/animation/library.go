package animation

import (
	"fmt"
	"sort"

	"github.com/spaghettifunk/anima-rig/engine/core"
)

// Library maps clip names to clips for a single shape.
type Library struct {
	clips map[string]*Clip
}

func NewLibrary() *Library {
	return &Library{
		clips: make(map[string]*Clip),
	}
}

// Add registers a clip under its own name. Names must be unique.
func (l *Library) Add(clip *Clip) error {
	if _, exists := l.clips[clip.Name]; exists {
		return fmt.Errorf("clip '%s': %w", clip.Name, core.ErrDuplicateClip)
	}
	l.clips[clip.Name] = clip
	return nil
}

// Replace registers the clip, overwriting any clip with the same name.
func (l *Library) Replace(clip *Clip) {
	l.clips[clip.Name] = clip
}

func (l *Library) Get(name string) (*Clip, bool) {
	c, ok := l.clips[name]
	return c, ok
}

func (l *Library) Remove(name string) bool {
	if _, ok := l.clips[name]; !ok {
		return false
	}
	delete(l.clips, name)
	return true
}

func (l *Library) Len() int {
	return len(l.clips)
}

// Names returns the clip names in lexical order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.clips))
	for name := range l.clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

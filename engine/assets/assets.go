package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima-rig/engine/containers"
	"github.com/spaghettifunk/anima-rig/engine/core"
	"github.com/spaghettifunk/anima-rig/engine/resources"
)

const DefaultMaxPendingChanges = 64

type AssetInfo struct {
	Path         string
	Type         resources.ResourceType
	LastModified time.Time
}

// AssetManager indexes the skeleton and clip files under a directory. With
// watching enabled, files that change on disk are queued and handed to the frame
// loop through PollChanges; nothing is reloaded on the watcher goroutine.
type AssetManager struct {
	basePath string
	assets   map[string]AssetInfo
	pending  *containers.RingQueue[string]

	mutex sync.Mutex

	done     chan struct{}
	wg       sync.WaitGroup
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager(maxPendingChanges int) *AssetManager {
	if maxPendingChanges <= 0 {
		maxPendingChanges = DefaultMaxPendingChanges
	}
	return &AssetManager{
		assets:  make(map[string]AssetInfo),
		pending: containers.NewRingQueue[string](maxPendingChanges),
		done:    make(chan struct{}),
	}
}

// Initialize indexes assetsDir recursively and, if watch is set, starts the
// file watcher.
func (am *AssetManager) Initialize(assetsDir string, watch bool) error {
	base, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	am.basePath = base

	if !watch {
		return am.watchRecursive(base)
	}

	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	am.fsnotify = fsWatch
	if err := am.watchRecursive(base); err != nil {
		fsWatch.Close()
		am.fsnotify = nil
		return err
	}

	am.wg.Add(1)
	go am.start()
	core.LogInfo("watching '%s' for asset changes", base)
	return nil
}

func (am *AssetManager) BasePath() string {
	return am.basePath
}

// Find returns the path of the indexed asset with the given name and type.
// When several files share the name, the shortest path wins, then the
// lexically smallest.
func (am *AssetManager) Find(name string, resourceType resources.ResourceType) (string, bool) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	found := ""
	for path, info := range am.assets {
		if info.Type != resourceType || resources.NameFromPath(path) != name {
			continue
		}
		if found == "" || preferredPath(path, found) {
			found = path
		}
	}
	return found, found != ""
}

func preferredPath(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// Assets lists the indexed assets sorted by path.
func (am *AssetManager) Assets() []AssetInfo {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	out := make([]AssetInfo, 0, len(am.assets))
	for _, info := range am.assets {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// PollChanges drains the paths modified since the last call, oldest first.
func (am *AssetManager) PollChanges() []string {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if am.pending.IsEmpty() {
		return nil
	}
	changes := make([]string, 0, am.pending.Len())
	for !am.pending.IsEmpty() {
		p, _ := am.pending.Dequeue()
		changes = append(changes, p)
	}
	return changes
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	am.wg.Wait()
	return nil
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogError("%s", err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if am.indexFile(e.Name) {
					am.enqueue(e.Name)
				}
			}
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("%s", err)

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive indexes every asset under path and, when a watcher exists,
// adds every directory to it.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if am.fsnotify == nil {
				return nil
			}
			return am.fsnotify.Add(walkPath)
		}
		am.indexFile(walkPath)
		return nil
	})
}

// indexFile records a skeleton or clip file. Returns false for other files.
func (am *AssetManager) indexFile(path string) bool {
	assetType := resources.TypeFromPath(path)
	if assetType != resources.ResourceTypeSkeleton && assetType != resources.ResourceTypeAnimation {
		return false
	}

	info := AssetInfo{
		Path: path,
		Type: assetType,
	}
	if fi, err := os.Stat(path); err == nil {
		info.LastModified = fi.ModTime()
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if _, known := am.assets[path]; !known {
		name := resources.NameFromPath(path)
		for other, o := range am.assets {
			if o.Type == assetType && resources.NameFromPath(other) == name {
				core.LogWarn("%s '%s' found at '%s' and '%s'", assetType, name, other, path)
				break
			}
		}
	}
	am.assets[path] = info
	return true
}

// enqueue records a change once; editors often write a file in several steps.
func (am *AssetManager) enqueue(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if containers.Contains(am.pending, path) {
		return
	}
	if err := am.pending.Enqueue(path); err != nil {
		if errors.Is(err, containers.ErrQueueFull) {
			core.LogWarn("asset change queue full, dropping reload of '%s'", path)
			return
		}
		core.LogError("%s", err)
	}
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
}

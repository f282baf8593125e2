package app

import (
	"io/fs"
	"path/filepath"
	"time"
)

// DirWatcher polls a directory tree and calls back when any file in it is
// added, removed or modified. The sticker folder is watched so that images
// dropped in after a failed load are picked up without a restart.
type DirWatcher struct {
	root          string
	checkInterval time.Duration
	stopCh        chan struct{}
	onChange      func()

	baseline time.Time
	count    int
}

// NewDirWatcher creates a watcher for root. It returns nil if root cannot
// be read.
func NewDirWatcher(root string, checkInterval time.Duration) *DirWatcher {
	if realPath, err := filepath.EvalSymlinks(root); err == nil {
		root = realPath
	}
	latest, count, err := scanTree(root)
	if err != nil {
		return nil
	}
	return &DirWatcher{
		root:          root,
		checkInterval: checkInterval,
		baseline:      latest,
		count:         count,
	}
}

// OnChange sets the callback. It is called from the watcher goroutine.
func (w *DirWatcher) OnChange(callback func()) {
	w.onChange = callback
}

// Start begins watching in a background goroutine.
func (w *DirWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.watchLoop(w.stopCh)
}

// Stop stops the watcher goroutine.
func (w *DirWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
		w.stopCh = nil
	}
}

func (w *DirWatcher) watchLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if w.Check() && w.onChange != nil {
				w.onChange()
			}
		}
	}
}

// Check rescans the tree and reports whether it changed since the last scan.
func (w *DirWatcher) Check() bool {
	latest, count, err := scanTree(w.root)
	if err != nil {
		return false
	}
	changed := latest.After(w.baseline) || count != w.count
	w.baseline = latest
	w.count = count
	return changed
}

// Root returns the watched directory.
func (w *DirWatcher) Root() string {
	return w.root
}

// scanTree returns the newest modification time and the number of entries
// below root, root included.
func scanTree(root string) (time.Time, int, error) {
	var latest time.Time
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		count++
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return time.Time{}, 0, err
	}
	return latest, count, nil
}

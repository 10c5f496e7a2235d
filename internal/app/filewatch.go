package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a file must be quiet before a change is reported.
const DefaultSettle = 200 * time.Millisecond

// FileWatcher reports when the drawing file on disk is changed by another
// program. It watches the parent directory so that editors which save by
// rename are still seen.
type FileWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	dir      string
	baseline time.Time
	settle   time.Duration
	timer    *time.Timer
	onChange func(path string)
	done     chan struct{}
}

// NewFileWatcher starts a watcher. onChange is called from a background
// goroutine with the watched path.
func NewFileWatcher(onChange func(path string)) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &FileWatcher{
		watcher:  w,
		settle:   DefaultSettle,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

// Watch switches the watcher to path. The current modification time becomes
// the baseline, so only later writes are reported.
func (fw *FileWatcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.dir != "" && fw.dir != dir {
		if err := fw.watcher.Remove(fw.dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			return err
		}
	}
	if fw.dir != dir {
		if err := fw.watcher.Add(dir); err != nil {
			return err
		}
	}
	fw.path = abs
	fw.dir = dir
	fw.baseline = modTime(abs)
	return nil
}

// Path returns the watched file, or "" before Watch.
func (fw *FileWatcher) Path() string {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.path
}

// Close stops the watcher.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.mu.Unlock()
	close(fw.done)
	return fw.watcher.Close()
}

func (fw *FileWatcher) loop() {
	for {
		select {
		case <-fw.done:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			fw.schedule(filepath.Clean(event.Name))
		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// schedule restarts the settle timer when name is the watched file.
func (fw *FileWatcher) schedule(name string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if name != fw.path {
		return
	}
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.settle, fw.check)
}

// check reports the change if the file is newer than the baseline.
func (fw *FileWatcher) check() {
	fw.mu.Lock()
	path := fw.path
	mt := modTime(path)
	changed := !mt.IsZero() && mt.After(fw.baseline)
	if changed {
		fw.baseline = mt
	}
	fw.mu.Unlock()

	if changed && fw.onChange != nil {
		fw.onChange(path)
	}
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

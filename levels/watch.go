package levels

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a pack file must stay untouched before it is
// reloaded. Editors often write a file in several bursts.
const settleDelay = 100 * time.Millisecond

// Reload is one attempt to re-read a watched pack. Exactly one of Pack and
// Err is set.
type Reload struct {
	Pack *Pack
	Err  error
}

// PackWatcher re-reads a levelpack file whenever it changes on disk and
// delivers the validated result on Reloads.
type PackWatcher struct {
	path    string
	fsw     *fsnotify.Watcher
	Reloads chan Reload

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// WatchPack watches the pack file at path. The parent directory is watched
// so that editors replacing the file by rename are still seen.
func WatchPack(path string) (*PackWatcher, error) {
	path = filepath.Clean(path)
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("levels: watch %s: %w", path, err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("levels: watch %s: %w", path, err)
	}

	pw := &PackWatcher{
		path:    path,
		fsw:     fsw,
		Reloads: make(chan Reload, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go pw.run()
	return pw, nil
}

func (pw *PackWatcher) Path() string {
	return pw.path
}

// Close stops watching. It is safe to call more than once.
func (pw *PackWatcher) Close() error {
	var err error
	pw.once.Do(func() {
		close(pw.stop)
		err = pw.fsw.Close()
		<-pw.done
		close(pw.Reloads)
	})
	return err
}

func (pw *PackWatcher) run() {
	defer close(pw.done)

	settle := time.NewTimer(settleDelay)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case ev, ok := <-pw.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != pw.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			settle.Reset(settleDelay)
		case err, ok := <-pw.fsw.Errors:
			if !ok {
				return
			}
			pw.deliver(Reload{Err: fmt.Errorf("levels: watch %s: %w", pw.path, err)})
		case <-settle.C:
			pw.deliver(pw.reload())
		case <-pw.stop:
			return
		}
	}
}

func (pw *PackWatcher) reload() Reload {
	p, err := Load(pw.path)
	if err == nil {
		err = p.Validate()
	}
	if err != nil {
		return Reload{Err: err}
	}
	return Reload{Pack: p}
}

// deliver replaces an unread reload with r so the reader only ever sees the
// newest state of the file.
func (pw *PackWatcher) deliver(r Reload) {
	for {
		select {
		case pw.Reloads <- r:
			return
		case <-pw.stop:
			return
		default:
		}
		select {
		case <-pw.Reloads:
		default:
		}
	}
}

// Package watcher reports changes made to an open file by other programs.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("nodewalk.watcher")

// Debounce is how long the file must be quiet before a change is reported
const Debounce = 150 * time.Millisecond

// ChangeCallback receives the new contents of the watched file. It is
// called from the watcher goroutine.
type ChangeCallback func(data []byte)

// Watch watches path until ctx is cancelled and calls cb with the file
// contents after each burst of writes. The parent directory is watched
// rather than the file, so editors that save by renaming a temporary file
// over the original are seen too. Removal of the file is logged and
// otherwise ignored.
func Watch(ctx context.Context, path string, cb ChangeCallback) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	log.Infof("watching %s", abs)

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(Debounce)
			fire = timer.C
		} else {
			timer.Reset(Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			log.Infof("stopped watching %s", abs)
			return nil

		case <-fire:
			data, err := os.ReadFile(abs)
			if err != nil {
				log.Warningf("read of %s failed: %s", abs, err)
				continue
			}
			log.Debugf("%s changed (%d bytes)", abs, len(data))
			if cb != nil {
				cb(data)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				schedule()
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				log.Noticef("%s was removed or renamed", abs)
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watch error: %s", werr)
		}
	}
}

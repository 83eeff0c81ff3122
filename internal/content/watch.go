package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 200 * time.Millisecond

// Watch reloads the catalog at path whenever it changes and hands the result
// to onChange. path may be a file or a directory of fragments; subdirectories
// are not watched. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, onChange func(*Catalog, error)) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	isDir := info.IsDir()
	// Watch the parent of a single file: editors replace files by rename,
	// which drops a watch placed on the file itself.
	dir := path
	if !isDir {
		dir = filepath.Dir(path)
	}
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var (
		timer  *time.Timer
		fire   <-chan time.Time
		target = filepath.Clean(path)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, target, isDir) {
				continue
			}
			logrus.Debugf("catalog change: %s %s", ev.Op, ev.Name)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logrus.Warnf("catalog watcher: %v", err)
		case <-fire:
			fire = nil
			c, err := Resolve(ctx, path)
			onChange(c, err)
		}
	}
}

func relevant(ev fsnotify.Event, target string, isDir bool) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	if isDir {
		return IsCatalogFile(ev.Name)
	}
	return filepath.Clean(ev.Name) == target
}

package content

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"pkt.systems/pslog"
)

const reloadDebounce = 500 * time.Millisecond

// Watch reloads the store whenever its backing file changes, until ctx ends.
// The parent directory is watched so editors that replace the file on save
// are picked up.
func Watch(ctx context.Context, store *Store) error {
	if store == nil || store.Path() == "" {
		return errors.New("content watch requires a file-backed store")
	}
	path, err := filepath.Abs(store.Path())
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	log := pslog.Ctx(ctx).With("path", path)
	log.Info("content watch start")

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			log.Info("content watch stop")
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("content watch error", "err", err)
		case <-fire:
			fire = nil
			_ = store.Reload(ctx)
		}
	}
}

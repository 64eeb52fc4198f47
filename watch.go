package wanderpress

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long Watch waits after the last change before
// rebuilding.
var WatchDebounce = 500 * time.Millisecond

// Reloader returns a fresh App after the config file changed.
type Reloader func() (*App, error)

// Watch builds the site, then rebuilds it whenever a file under the static
// dir or Config.ConfigFile changes. A config change calls reload first and
// the rebuild uses the App it returns; when reload is nil or fails the
// current settings stay in effect. Watch returns when ctx is done. Rebuild
// failures are logged and the previous output stays in place.
func (a *App) Watch(ctx context.Context, reload Reloader) error {
	if _, err := a.Build(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	cur := a
	defer func() {
		if cur != a {
			cur.Close()
		}
	}()
	t := cur.watchTargets(watcher)

	var (
		timer       *time.Timer
		rebuild     <-chan time.Time
		reloadDirty bool
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || withinDir(abs, t.out) {
				continue
			}
			isConfig := t.config != "" && abs == t.config
			if !isConfig && !withinDir(abs, t.static) {
				continue
			}
			if isConfig {
				reloadDirty = true
			} else if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					_ = addTree(watcher, event.Name)
				}
			}
			cur.Logger.Debugf("change: %s (%s)", event.Name, event.Op)
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(WatchDebounce)
			rebuild = timer.C
		case <-rebuild:
			rebuild = nil
			if reloadDirty && reload != nil {
				next, err := reload()
				if err != nil {
					cur.Logger.Errorf("reload config: %v", err)
				} else {
					if cur != a {
						cur.Close()
					}
					cur = next
					t = cur.watchTargets(watcher)
					cur.Logger.Infof("config reloaded from %s", t.config)
				}
			}
			reloadDirty = false
			if _, err := cur.Build(ctx); err != nil {
				cur.Logger.Errorf("rebuild failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cur.Logger.Errorf("watcher: %v", err)
		}
	}
}

// watchPaths are the absolute paths Watch filters events by.
type watchPaths struct {
	out    string
	static string
	config string
}

// watchTargets registers a's static tree and config directory with w. The
// directory is watched rather than the file so editors that save by
// renaming keep triggering events.
func (a *App) watchTargets(w *fsnotify.Watcher) watchPaths {
	var t watchPaths
	t.out, _ = filepath.Abs(a.Config.OutputDir)
	t.static, _ = filepath.Abs(a.Config.StaticDir)
	if err := addTree(w, a.Config.StaticDir); err != nil {
		a.Logger.Warnf("not watching %s: %v", a.Config.StaticDir, err)
	}
	if a.Config.ConfigFile != "" {
		t.config, _ = filepath.Abs(a.Config.ConfigFile)
		if err := w.Add(filepath.Dir(t.config)); err != nil {
			a.Logger.Warnf("not watching %s: %v", a.Config.ConfigFile, err)
		}
	}
	return t
}

// addTree watches root and every directory below it.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

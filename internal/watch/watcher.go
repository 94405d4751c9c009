package watch

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is the quiet period after the last change before the callback runs.
const DefaultDelay = 200 * time.Millisecond

// Watcher reports changes to a fixed set of files. It watches their
// directories rather than the files, so editors that save by renaming a
// temporary file over the original are still seen.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]struct{}
	delay   time.Duration
	log     *zap.Logger
}

// New starts watching the directories of paths. Events arriving before Run
// are kept until Run reads them.
func New(paths []string, delay time.Duration, log *zap.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no files to watch")
	}

	if delay <= 0 {
		delay = DefaultDelay
	}

	if log == nil {
		log = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create file watcher")
	}

	w := &Watcher{
		watcher: fw,
		files:   make(map[string]struct{}, len(paths)),
		delay:   delay,
		log:     log,
	}

	dirs := map[string]struct{}{}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			return nil, errors.Wrapf(err, "resolve %s", p)
		}

		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, errors.Wrapf(err, "watch directory %s", dir)
		}

		log.Debug("watching directory", zap.String("dir", dir))
	}

	return w, nil
}

// Run delivers debounced changes to onChange until ctx is done. Callback
// errors are logged and do not stop the watch. The watcher is closed on return.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string) error) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.delay)
	if !timer.Stop() {
		<-timer.C
	}

	pending := map[string]struct{}{}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if !w.relevant(event) {
				continue
			}

			w.log.Debug("file changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))

			pending[filepath.Clean(event.Name)] = struct{}{}
			timer.Reset(w.delay)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}

			sort.Strings(changed)
			clear(pending)

			if err := onChange(changed); err != nil {
				w.log.Error("handling change failed", zap.Strings("files", changed), zap.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	_, ok := w.files[abs]

	return ok
}

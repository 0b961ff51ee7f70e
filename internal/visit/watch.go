package trek

import (
	"context"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WatchOptions configures WatchPaths.
type WatchOptions struct {
	// Recursive watches the whole tree under each root and picks up
	// directories created while watching.
	Recursive bool

	// NumWorkers is the worker count for the registration walk done for
	// recursive watches. Non-positive values fall back to DefaultWorkers.
	NumWorkers int

	// Logger receives diagnostic output; a leveled logger is created when
	// nil.
	Logger *zap.Logger

	// LogLevel selects the verbosity of the default logger.
	LogLevel LogLevel

	// Probe classifies event paths. Defaults to the operating system.
	Probe Probe
}

// WatchPaths monitors the given roots and feeds entries created while
// watching through the same Visitor hooks VisitPaths uses: regular files go
// to VisitFile, other non-directories to VisitNonFile, and a created
// directory gets an EnterDir/ExitDir pair whose verdict decides whether the
// directory is watched recursively. Hook invocations are serialized across
// all roots.
//
// No event loop starts until every root has been registered; a setup failure
// on any root returns before a single hook can fire. Once watching, errors
// reported by a watcher are logged and watching continues, so WatchPaths
// blocks until ctx is done.
func WatchPaths(ctx context.Context, paths []string, v Visitor, opts WatchOptions) error {
	if v == nil {
		return ErrNilVisitor
	}
	probe := opts.Probe
	if probe == nil {
		probe = OSProbe{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = createLogger(opts.LogLevel)
		defer logger.Sync()
	}

	watchers := make([]*fsnotify.Watcher, 0, len(paths))
	closeAll := func() {
		for _, w := range watchers {
			w.Close()
		}
	}

	for _, root := range paths {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			closeAll()
			return fmt.Errorf("creating watcher: %w", err)
		}
		watchers = append(watchers, watcher)
		if err := watcher.Add(root); err != nil {
			closeAll()
			return fmt.Errorf("watching %s: %w", root, err)
		}

		if opts.Recursive {
			// Register the existing tree by walking it with the same worker
			// pool the visits use.
			reg := &dirRegistrar{watcher: watcher, logger: logger}
			err := VisitPathsWithOptions([]string{root}, reg, Options{
				NumWorkers: opts.NumWorkers,
				Logger:     logger,
				Probe:      probe,
			})
			if err != nil {
				closeAll()
				return err
			}
		}
	}

	var visitorMu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	for _, watcher := range watchers {
		w := &rootWatcher{
			watcher:   watcher,
			visitor:   v,
			visitorMu: &visitorMu,
			probe:     probe,
			recursive: opts.Recursive,
			logger:    logger,
		}
		g.Go(func() error {
			defer w.watcher.Close()
			return w.loop(ctx)
		})
	}

	return g.Wait()
}

// dirRegistrar is the Visitor used for the initial registration walk: every
// entered directory is added to the watcher.
type dirRegistrar struct {
	watcher *fsnotify.Watcher
	logger  *zap.Logger
}

func (r *dirRegistrar) VisitFile(string, Metadata)    {}
func (r *dirRegistrar) VisitNonFile(string, Metadata) {}
func (r *dirRegistrar) ExitDir(string, Metadata)      {}

func (r *dirRegistrar) EnterDir(path string, meta Metadata) bool {
	if err := r.watcher.Add(path); err != nil {
		r.logger.Debug("unable to watch directory",
			zap.String("path", path),
			zap.Error(err),
		)
	}
	return true
}

// rootWatcher owns the event loop for one root.
type rootWatcher struct {
	watcher   *fsnotify.Watcher
	visitor   Visitor
	visitorMu *sync.Mutex
	probe     Probe
	recursive bool
	logger    *zap.Logger
}

func (w *rootWatcher) loop(ctx context.Context) error {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				w.handleCreate(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *rootWatcher) handleCreate(path string) {
	meta, err := w.probe.Lstat(path)
	if err != nil {
		// The entry may already be gone; events race against the tree.
		w.logger.Debug("unable to read metadata",
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}

	switch meta.Type {
	case TypeDirectory:
		w.visitorMu.Lock()
		descend := w.visitor.EnterDir(path, meta)
		w.visitor.ExitDir(path, meta)
		w.visitorMu.Unlock()
		if descend && w.recursive {
			if err := w.watcher.Add(path); err != nil {
				w.logger.Debug("unable to watch new directory",
					zap.String("path", path),
					zap.Error(err),
				)
			}
		}
	case TypeRegular:
		w.visitorMu.Lock()
		w.visitor.VisitFile(path, meta)
		w.visitorMu.Unlock()
	default:
		w.visitorMu.Lock()
		w.visitor.VisitNonFile(path, meta)
		w.visitorMu.Unlock()
	}
}

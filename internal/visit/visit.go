// Package trek implements a concurrent filesystem visitor: a fixed pool of
// workers shares a LIFO queue of paths, directories re-enter the queue
// instead of being recursed into, and a termination detector on the
// dispatching goroutine declares the walk finished once every worker is
// parked against an empty queue.
package trek

import (
	"errors"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// DefaultWorkers is the worker count used when Options does not specify one.
const DefaultWorkers = 16

var (
	// ErrNoWorkers is returned by VisitPaths for a non-positive worker count.
	ErrNoWorkers = errors.New("trek: worker count must be at least one")

	// ErrNilVisitor is returned when no visitor is supplied.
	ErrNilVisitor = errors.New("trek: visitor must not be nil")
)

// Visitor receives callbacks for every entry encountered during a walk.
//
// The walker serializes all invocations: at most one hook executes at any
// instant, so implementations may mutate their own state without locking.
// Hooks must not call back into the walker, and must not assume any
// traversal order between siblings or across directories. A panic inside a
// hook is not recovered; it aborts the process.
type Visitor interface {
	// VisitFile is called for every regular file.
	VisitFile(path string, meta Metadata)

	// VisitNonFile is called for entries that are neither regular files nor
	// directories: symlinks, devices, fifos, sockets.
	VisitNonFile(path string, meta Metadata)

	// EnterDir is called before a directory's children are enumerated.
	// Returning false skips the children; ExitDir still fires. This is the
	// sole gate for descent, including across device boundaries.
	EnterDir(path string, meta Metadata) bool

	// ExitDir is called exactly once per EnterDir, after enumeration has
	// completed, failed, or been skipped. Descendant visits may still be in
	// flight on other workers when it fires.
	ExitDir(path string, meta Metadata)
}

// Options configures a walk.
type Options struct {
	// NumWorkers is the number of worker goroutines. Non-positive values
	// fall back to DefaultWorkers.
	NumWorkers int

	// Logger receives diagnostic output. A leveled logger is created when
	// nil; per-entry failures are reported at debug level only.
	Logger *zap.Logger

	// LogLevel selects the verbosity of the default logger. Ignored when
	// Logger is set.
	LogLevel LogLevel

	// Probe supplies metadata lookup and directory enumeration. Defaults to
	// the operating system.
	Probe Probe
}

// walkState is shared by the dispatcher and every worker of one walk. It
// lives from spawn until the last worker has been joined.
type walkState struct {
	queue *workQueue
	probe Probe

	// active counts workers between "dequeued an item" and "parked awaiting
	// work". Every worker starts out counted as active.
	activeMu    sync.Mutex
	active      int
	idleChanged *sync.Cond

	visitorMu sync.Mutex
	visitor   Visitor

	logger *zap.Logger
}

// VisitPaths walks the trees rooted at paths with numWorkers concurrent
// workers, invoking v for every encountered entry. Seeds are not
// de-duplicated and symbolic links are never followed, not even at a root.
//
// Per-entry filesystem errors are logged and skipped; the only error
// returned is for invalid arguments.
func VisitPaths(paths []string, numWorkers int, v Visitor) error {
	if numWorkers < 1 {
		return ErrNoWorkers
	}
	return VisitPathsWithOptions(paths, v, Options{NumWorkers: numWorkers})
}

// VisitPathsWithOptions is VisitPaths with explicit configuration.
func VisitPathsWithOptions(paths []string, v Visitor, opts Options) error {
	if v == nil {
		return ErrNilVisitor
	}
	workers := opts.NumWorkers
	if workers < 1 {
		workers = DefaultWorkers
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

	s := &walkState{
		queue:   newWorkQueue(paths),
		probe:   probe,
		active:  workers,
		visitor: v,
		logger:  logger,
	}
	s.idleChanged = sync.NewCond(&s.activeMu)

	logger.Debug("concurrent visit started",
		zap.Int("workers", workers),
		zap.Strings("paths", paths),
	)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			s.run()
		}()
	}

	// Termination detection. A worker produces new work only while counted
	// as active, and decrements only after observing an empty queue, so the
	// transition to zero proves global quiescence. Queue depth alone would
	// not: a worker can hold an in-flight directory whose children are not
	// yet enqueued.
	s.activeMu.Lock()
	for s.active > 0 {
		s.idleChanged.Wait()
	}
	s.activeMu.Unlock()

	if pending := s.queue.terminate(); pending > 0 {
		logger.Warn("work left in queue at termination",
			zap.Int("pending", pending),
		)
	}

	wg.Wait()
	logger.Debug("concurrent visit finished")
	return nil
}

// run is the worker loop: pop, classify, process; park when the queue is
// observed empty; exit once the dispatcher declares termination.
func (s *walkState) run() {
	for {
		if path, ok := s.queue.pop(); ok {
			s.process(path)
			continue
		}

		// Going idle. The decrement must precede parking so that active==0
		// at the dispatcher implies no worker is about to produce work.
		s.activeMu.Lock()
		s.active--
		s.idleChanged.Broadcast()
		s.activeMu.Unlock()

		if s.queue.park() {
			return
		}

		// Woken with work present: count as active again before the next
		// pop, never the other way around.
		s.activeMu.Lock()
		s.active++
		s.activeMu.Unlock()
	}
}

// process classifies one dequeued path and dispatches it.
func (s *walkState) process(path string) {
	meta, err := s.probe.Lstat(path)
	if err != nil {
		s.logger.Debug("unable to read metadata",
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}
	switch meta.Type {
	case TypeDirectory:
		s.processDir(path, meta)
	case TypeRegular:
		s.visitFile(path, meta)
	default:
		s.visitNonFile(path, meta)
	}
}

// processDir runs the EnterDir gate, enumerates children, pushes
// subdirectories back onto the queue and visits files inline. Newly
// discovered directories re-enter the queue rather than being recursed into,
// so available parallelism absorbs them.
func (s *walkState) processDir(path string, meta Metadata) {
	// ExitDir fires exactly once per entered directory, whether enumeration
	// succeeded, failed, or was skipped.
	defer s.exitDir(path, meta)

	if !s.enterDir(path, meta) {
		return
	}

	names, err := s.probe.ReadDirNames(path)
	if err != nil {
		s.logger.Debug("unable to enumerate directory",
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}

	for _, name := range names {
		child := filepath.Join(path, name)
		childMeta, err := s.probe.Lstat(child)
		if err != nil {
			s.logger.Debug("unable to read metadata",
				zap.String("path", child),
				zap.Error(err),
			)
			continue
		}
		switch childMeta.Type {
		case TypeDirectory:
			s.queue.push(child)
		case TypeRegular:
			s.visitFile(child, childMeta)
		default:
			s.visitNonFile(child, childMeta)
		}
	}
}

// The four wrappers below serialize visitor access. Correctness of user
// state comes for free; throughput is bounded by callback cost.

func (s *walkState) visitFile(path string, meta Metadata) {
	s.visitorMu.Lock()
	defer s.visitorMu.Unlock()
	s.visitor.VisitFile(path, meta)
}

func (s *walkState) visitNonFile(path string, meta Metadata) {
	s.visitorMu.Lock()
	defer s.visitorMu.Unlock()
	s.visitor.VisitNonFile(path, meta)
}

func (s *walkState) enterDir(path string, meta Metadata) bool {
	s.visitorMu.Lock()
	defer s.visitorMu.Unlock()
	return s.visitor.EnterDir(path, meta)
}

func (s *walkState) exitDir(path string, meta Metadata) {
	s.visitorMu.Lock()
	defer s.visitorMu.Unlock()
	s.visitor.ExitDir(path, meta)
}

package visit

import (
	"context"

	internal "github.com/TFMV/trek/internal/visit"
	"go.uber.org/zap"
)

// Re-export the types from the internal package
type (
	// Visitor receives callbacks for every entry encountered during a walk.
	Visitor = internal.Visitor

	// Metadata describes one filesystem entry, captured with lstat semantics.
	Metadata = internal.Metadata

	// FileType is the externally observable classification of an entry.
	FileType = internal.FileType

	// Probe abstracts metadata lookup and directory enumeration.
	Probe = internal.Probe

	// OSProbe reads the local filesystem.
	OSProbe = internal.OSProbe

	// Options configures a walk.
	Options = internal.Options

	// LogLevel defines the verbosity of logging.
	LogLevel = internal.LogLevel

	// CountingVisitor counts regular files and confines descent to the
	// filesystems of the seed paths.
	CountingVisitor = internal.CountingVisitor

	// FilterVisitor forwards visits whose base name matches a glob pattern.
	FilterVisitor = internal.FilterVisitor

	// WatchOptions configures WatchPaths.
	WatchOptions = internal.WatchOptions
)

// Re-export the constants
const (
	// File classifications
	TypeRegular   = internal.TypeRegular
	TypeDirectory = internal.TypeDirectory
	TypeOther     = internal.TypeOther

	// Log levels
	LogLevelError = internal.LogLevelError
	LogLevelWarn  = internal.LogLevelWarn
	LogLevelInfo  = internal.LogLevelInfo
	LogLevelDebug = internal.LogLevelDebug

	// DefaultWorkers is the worker count used when Options does not specify one.
	DefaultWorkers = internal.DefaultWorkers
)

// Sentinel errors for invalid arguments.
var (
	ErrNoWorkers  = internal.ErrNoWorkers
	ErrNilVisitor = internal.ErrNilVisitor
)

// VisitPaths walks the trees rooted at paths with numWorkers concurrent
// workers, invoking v for every encountered entry. It returns only after
// every worker has been joined; per-entry filesystem errors are skipped.
func VisitPaths(paths []string, numWorkers int, v Visitor) error {
	return internal.VisitPaths(paths, numWorkers, v)
}

// VisitPathsWithOptions is VisitPaths with explicit configuration.
func VisitPathsWithOptions(paths []string, v Visitor, opts Options) error {
	return internal.VisitPathsWithOptions(paths, v, opts)
}

// NewCountingVisitor builds the reference visitor: it counts regular files
// and restricts descent to the device ids observed on the seed paths.
func NewCountingVisitor(paths []string) *CountingVisitor {
	return internal.NewCountingVisitor(paths)
}

// NewCountingVisitorWithLogger is NewCountingVisitor with per-file logging.
func NewCountingVisitorWithLogger(paths []string, logger *zap.Logger) *CountingVisitor {
	return internal.NewCountingVisitorWithLogger(paths, logger)
}

// WatchPaths monitors the given roots for newly created entries and feeds
// them through the same visitor hooks used by VisitPaths.
func WatchPaths(ctx context.Context, paths []string, v Visitor, opts WatchOptions) error {
	return internal.WatchPaths(ctx, paths, v, opts)
}

package trek

import (
	"go.uber.org/zap"
)

// CountingVisitor counts the regular files encountered during a walk and
// confines descent to the filesystems of the seed paths: EnterDir returns
// true only for directories whose device id was observed on a seed. The
// device policy lives here, not in the walker.
//
// The walker serializes visitor access, so no internal locking is needed.
type CountingVisitor struct {
	fileCount uint64
	rootDevs  map[uint64]struct{}
	logger    *zap.Logger
}

// NewCountingVisitor probes the seed paths to record the set of device ids
// descent is allowed on. Seeds that cannot be probed contribute nothing.
func NewCountingVisitor(paths []string) *CountingVisitor {
	return newCountingVisitor(paths, OSProbe{}, zap.NewNop())
}

// NewCountingVisitorWithLogger is NewCountingVisitor with per-file logging
// at debug level.
func NewCountingVisitorWithLogger(paths []string, logger *zap.Logger) *CountingVisitor {
	return newCountingVisitor(paths, OSProbe{}, logger)
}

func newCountingVisitor(paths []string, probe Probe, logger *zap.Logger) *CountingVisitor {
	devs := make(map[uint64]struct{})
	for _, p := range paths {
		meta, err := probe.Lstat(p)
		if err != nil {
			continue
		}
		devs[meta.Dev] = struct{}{}
	}
	return &CountingVisitor{rootDevs: devs, logger: logger}
}

func (v *CountingVisitor) VisitFile(path string, meta Metadata) {
	v.fileCount++
	v.logger.Debug("file",
		zap.String("path", path),
		zap.Uint64("dev", meta.Dev),
		zap.Uint64("ino", meta.Ino),
	)
}

func (v *CountingVisitor) VisitNonFile(path string, meta Metadata) {
	v.logger.Debug("nonfile",
		zap.String("path", path),
		zap.Stringer("type", meta.Type),
	)
}

func (v *CountingVisitor) EnterDir(path string, meta Metadata) bool {
	v.logger.Debug("entering directory",
		zap.String("path", path),
		zap.Uint64("dev", meta.Dev),
		zap.Uint64("ino", meta.Ino),
	)
	_, ok := v.rootDevs[meta.Dev]
	return ok
}

func (v *CountingVisitor) ExitDir(path string, meta Metadata) {
	v.logger.Debug("leaving directory", zap.String("path", path))
}

// FileCount returns the number of regular files seen so far. Call it only
// after the walk has returned, or from within a hook.
func (v *CountingVisitor) FileCount() uint64 {
	return v.fileCount
}

// Package visit provides concurrent filesystem traversal driven by a
// user-supplied visitor.
//
// A call to VisitPaths spawns a fixed pool of workers over a shared work
// queue. Each worker pops a path, classifies it, and either invokes the
// matching visitor hook or, for a directory, enumerates its children and
// pushes subdirectories back onto the queue. The calling goroutine runs the
// termination detector: once every worker is parked against an empty queue
// the walk is finished and all workers are joined.
//
// Traversal order is deliberately unspecified; the only ordering guarantee
// is that a directory's EnterDir precedes its own children's visits on the
// worker that entered it, and that every EnterDir is paired with exactly one
// ExitDir. Symbolic links are never followed, so a walk seeded on one
// filesystem stays on it unless the visitor's EnterDir says otherwise.

// Watch Functionality
//
// WatchPaths monitors a set of roots after a walk, feeding entries created
// while watching through the same visitor hooks:
//
//	opts := visit.WatchOptions{Recursive: true}
//	err := visit.WatchPaths(ctx, []string{"/srv/data"}, visitor, opts)
package visit

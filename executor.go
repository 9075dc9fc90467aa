package kdtree

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// executor is the fork/join worker pool every parallel decomposition in
// the tree submits through: merge sort, the balanced builder, and range
// search all follow the same rule, submitting one half of the work and
// running the other half on the calling goroutine when depth <=
// maxSubmitDepth.
//
// executor carries no goroutine pool of its own; golang.org/x/sync/errgroup
// provides that, created fresh per submission site. What executor owns is
// the depth threshold, which is the only piece of state SetNumThreads
// needs to recompute to reproduce the submit-left-run-right-inline
// discipline at a new thread count.
type executor struct {
	maxSubmitDepth int
}

func newExecutor(maxSubmitDepth int) *executor {
	return &executor{maxSubmitDepth: maxSubmitDepth}
}

// submit runs fn, either inline (synchronously, before submit returns) when
// depth exceeds maxSubmitDepth, or on a goroutine managed by an errgroup.Group
// otherwise. Either way it returns a join function: call it to observe fn's
// error before proceeding to merge/combine results.
//
// Only the goroutine-dispatched path recovers a panic from fn: that panic
// would otherwise crash the process on a different goroutine than the
// caller's. A panic from the inline path propagates unmodified, so a
// typed *Error (GeometryInvariant, SortInvariant, ...) keeps its Kind all
// the way to the top-level caller instead of being flattened into a
// generic TaskFailure.
func (e *executor) submit(depth int, fn func() error) (join func() error) {
	if e == nil || depth > e.maxSubmitDepth {
		err := fn()
		return func() error { return err }
	}

	guarded := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("kdtree: task panicked: %v", r)
			}
		}()
		return fn()
	}

	var g errgroup.Group
	g.Go(guarded)
	return g.Wait
}

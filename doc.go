// Package kdtree implements a balanced, static k-d tree over tuples of
// signed 64-bit integers.
//
// The tree is built in bulk from a staged buffer of points: callers call
// Add repeatedly, then Build (or simply issue the first query, which
// builds lazily). Construction sorts one reference array per axis under a
// cyclic SuperKey total order, deduplicates equal tuples by merging their
// value lists, and recursively partitions the reference arrays about their
// median to produce a height-balanced tree, never re-sorting at any
// level.
//
// Basic usage:
//
//	t, err := kdtree.New[string](1024, 2)
//	t.Add([]int64{0, 0}, "a")
//	t.Add([]int64{1, 1}, "b")
//	t.Build()
//	values := t.SearchTreeBox([]int64{2, 2}, []int64{0, 0})
//
// Queries (range search, k-nearest-neighbor, point remove, search-and-
// remove, and biased value picking) walk the built tree; some recursions
// fork onto a small worker pool when SetNumThreads has configured one.
package kdtree

package kdtree

import (
	"container/heap"
	"math"
)

// nnItem is one entry in the bounded nearest-neighbor max-heap: a live
// node and its integer-rounded distance from the query point.
type nnItem[V comparable] struct {
	dist int64
	n    *node[V]
}

// nnHeap is a max-heap (largest distance on top) of size at most k, keyed
// on the integer-rounded distance this index uses instead of a float64
// metric.
type nnHeap[V comparable] []nnItem[V]

func (h nnHeap[V]) Len() int            { return len(h) }
func (h nnHeap[V]) Less(i, j int) bool  { return h[i].dist > h[j].dist }
func (h nnHeap[V]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nnHeap[V]) Push(x interface{}) { *h = append(*h, x.(nnItem[V])) }
func (h *nnHeap[V]) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// roundedDistance is the integer-rounded Euclidean distance between query
// and tuple over the enabled axes: double-precision accumulation, then
// sqrt, then truncating cast to int64. enable == nil means every axis
// contributes.
func roundedDistance(query, tuple []int64, enable []bool) int64 {
	var sum float64
	for i := range query {
		if enable != nil && !enable[i] {
			continue
		}
		diff := float64(query[i]) - float64(tuple[i])
		sum += diff * diff
	}
	return int64(math.Sqrt(sum))
}

func currentMax[V comparable](h *nnHeap[V]) int64 {
	if h.Len() == 0 {
		return math.MaxInt64
	}
	return (*h)[0].dist
}

// admitNN tries to push n onto the heap: skip if it carries no live
// values, push-and-sift-up if the heap isn't full yet, or replace-and-
// sift-down the current farthest entry if n is closer.
func admitNN[V comparable](h *nnHeap[V], n *node[V], query []int64, enable []bool, k int) {
	if len(n.values) == 0 {
		return
	}
	dist := roundedDistance(query, n.tuple, enable)
	if h.Len() < k {
		heap.Push(h, nnItem[V]{dist: dist, n: n})
		return
	}
	if dist < (*h)[0].dist {
		(*h)[0] = nnItem[V]{dist: dist, n: n}
		heap.Fix(h, 0)
	}
}

// traverseNN descends toward the query point first (deeper-first, to
// tighten currentMax early) and only visits the far side when the axis is
// disabled, the heap isn't full, or the far side could still hold a closer
// point than the current worst admitted distance.
func traverseNN[V comparable](n *node[V], depth, d int, query []int64, k int, enable []bool, h *nnHeap[V]) {
	if n == nil {
		return
	}
	p := depth % d
	qp, tp := query[p], n.tuple[p]
	axisEnabled := enable == nil || enable[p]

	switch {
	case qp < tp:
		traverseNN(n.lt, depth+1, d, query, k, enable, h)
		if !axisEnabled || h.Len() < k || tp-qp <= currentMax(h) {
			traverseNN(n.gt, depth+1, d, query, k, enable, h)
			admitNN(h, n, query, enable, k)
		}
	case qp > tp:
		traverseNN(n.gt, depth+1, d, query, k, enable, h)
		if !axisEnabled || h.Len() < k || qp-tp <= currentMax(h) {
			traverseNN(n.lt, depth+1, d, query, k, enable, h)
			admitNN(h, n, query, enable, k)
		}
	default:
		// On a tie along the partition axis the node itself is scored
		// before either child, so among equal distances it is kept first.
		admitNN(h, n, query, enable, k)
		traverseNN(n.lt, depth+1, d, query, k, enable, h)
		traverseNN(n.gt, depth+1, d, query, k, enable, h)
	}
}

// nearestNeighborSearch runs the bounded traversal and drains the heap
// farthest-to-nearest (repeated heap.Pop), flattening each admitted
// node's value list into the result. Result order is therefore farthest-
// node-first; callers needing distance order should sort the output
// themselves.
func nearestNeighborSearch[V comparable](root *node[V], query []int64, k int, enable []bool, d int) []V {
	if root == nil || k <= 0 {
		return nil
	}
	h := &nnHeap[V]{}
	heap.Init(h)
	traverseNN(root, 0, d, query, k, enable, h)

	out := make([]V, 0, h.Len())
	for h.Len() > 0 {
		item := heap.Pop(h).(nnItem[V])
		out = append(out, item.n.values...)
	}
	return out
}

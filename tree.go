package kdtree

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Tree is a balanced static k-d tree over tuples of d signed 64-bit
// integers, generic in the value type V (which needs only equality, for
// Remove). A Tree is either unbuilt (perm absent, Add legal) or built
// (perm present; root is absent only once destructive operations have
// emptied the tree, and it stays empty until the next Add); Add after
// Build clears both, forcing the next query or explicit Build to
// reconstruct from the full staging buffer.
type Tree[V comparable] struct {
	capacity int
	dims     int
	config   Config

	staged []*node[V]
	root   *node[V]
	perm   []int

	numThreads int
	exec       *executor
}

// New creates an empty Tree with the given staging capacity and
// dimensionality, using DefaultConfig.
func New[V comparable](capacity, dimensions int) (*Tree[V], error) {
	return NewWithConfig[V](capacity, dimensions, DefaultConfig())
}

// NewWithConfig creates an empty Tree, applying cfg's NumThreads and
// Verify settings immediately.
func NewWithConfig[V comparable](capacity, dimensions int, cfg Config) (*Tree[V], error) {
	if dimensions <= 0 {
		return nil, newError(DimensionMismatch, "dimensions must be positive")
	}
	if capacity < 0 {
		return nil, newError(CapacityExceeded, "capacity must be non-negative")
	}
	t := &Tree[V]{
		capacity: capacity,
		dims:     dimensions,
		config:   cfg,
		exec:     newExecutor(-1),
	}
	if cfg.NumThreads > 0 {
		t.SetNumThreads(cfg.NumThreads)
	}
	return t, nil
}

// SetNumThreads rounds n down to the nearest power of two and recomputes
// the fork/join depth threshold from it: maxSubmitDepth = floor(log2(n-1))
// for n >= 2, or -1 (submission disabled) for n <= 1. Power-of-two
// rounding makes the submit-left-run-right-inline pattern consume workers
// evenly down to exactly the chosen depth.
func (t *Tree[V]) SetNumThreads(n int) {
	if n < 0 {
		n = 0
	}
	rounded := roundDownPowerOfTwo(n)
	if rounded != n {
		logger.WithFields(logrus.Fields{"requested": n, "rounded": rounded}).
			Warn("SetNumThreads rounded down to the nearest power of two")
	}

	maxSubmitDepth := -1
	if rounded >= 2 {
		maxSubmitDepth = floorLog2(rounded - 1)
	}

	t.numThreads = rounded
	t.exec = newExecutor(maxSubmitDepth)
}

func roundDownPowerOfTwo(n int) int {
	if n <= 1 {
		return n
	}
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}

func floorLog2(n int) int {
	if n < 1 {
		return 0
	}
	l := 0
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}

// Add stages point/value for the next Build, returning the new staged
// count, or -1 if the buffer is full (CapacityExceeded) or point's length
// doesn't match the tree's dimensionality (DimensionMismatch). A
// successful Add invalidates any existing build.
func (t *Tree[V]) Add(point []int64, value V) int {
	if len(point) != t.dims {
		logger.WithField("op", "Add").Warn("dimension mismatch, point rejected")
		return -1
	}
	if len(t.staged) >= t.capacity {
		return -1
	}
	tuple := make([]int64, t.dims)
	copy(tuple, point)
	t.staged = append(t.staged, &node[V]{tuple: tuple, values: []V{value}})
	t.root = nil
	t.perm = nil
	return len(t.staged)
}

// Build constructs the tree from the staging buffer: sort axis 0, dedupe,
// copy the survivors into the other d-1 reference arrays and sort each,
// then recursively partition. A no-op if already built or if nothing has
// been staged. The tree is made of fresh copies of the staged nodes, so
// neither Build nor later destructive queries alter the staging buffer.
func (t *Tree[V]) Build() {
	if t.perm != nil || len(t.staged) == 0 {
		return
	}

	d := t.dims
	n := len(t.staged)

	refs0 := make([]*node[V], n)
	for i, s := range t.staged {
		refs0[i] = &node[V]{tuple: s.tuple, values: append([]V(nil), s.values...)}
	}
	scratch := make([]*node[V], n)

	mergeSort(refs0, scratch, 0, 0, n-1, 0, t.exec)
	end := dedupe(refs0)
	live := end + 1
	refs0 = refs0[:live]

	refs := make([][]*node[V], d)
	refs[0] = refs0
	for i := 1; i < d; i++ {
		refs[i] = make([]*node[V], live)
		copy(refs[i], refs0)
		mergeSort(refs[i], scratch[:live], i, 0, live-1, 0, t.exec)
	}

	perm := makePermutation(live, d)
	st := &buildState[V]{refs: refs, scratch: scratch[:live], perm: perm, exec: t.exec}
	root := buildRange(st, 0, live-1, 0)

	if t.config.Verify {
		count, err := verify(root, 0, d, t.exec)
		if err != nil {
			panic(err)
		}
		if count != n {
			panic(newError(SortInvariant, "live value count after build does not match the staged count"))
		}
	}

	t.root = root
	t.perm = perm
}

func makePermutation(n, d int) []int {
	length := 1
	for v := n; v > 1; v >>= 1 {
		length++
	}
	length += 2
	perm := make([]int, length)
	for i := range perm {
		perm[i] = i % d
	}
	return perm
}

func (t *Tree[V]) ensureBuilt() {
	if t.perm == nil && len(t.staged) > 0 {
		t.Build()
	}
}

// SearchTree is the hypercube range form: query point q and cutoff c are
// equivalent to the box [q-c, q+c] per axis, mapped onto the box form's
// lower-inclusive/upper-exclusive convention as [q-c, q+c+1). Arithmetic
// saturates at math.MinInt64/MaxInt64 rather than overflowing. A negative
// cutoff yields an empty result.
func (t *Tree[V]) SearchTree(query []int64, cutoff int64) []V {
	if len(query) != t.dims {
		panic(newError(DimensionMismatch, "query length does not match dimensions"))
	}
	if cutoff < 0 {
		return nil
	}
	t.ensureBuilt()
	if t.root == nil {
		return nil
	}

	plus := make([]int64, t.dims)
	minus := make([]int64, t.dims)
	for i, q := range query {
		minus[i] = saturatingSub(q, cutoff)
		plus[i] = saturatingAdd(saturatingAdd(q, cutoff), 1)
	}
	return searchBox(t.root, 0, t.dims, plus, minus, t.exec)
}

// SearchTreeBox is the explicit box range form: queryMinus is inclusive,
// queryPlus is exclusive, per axis. An axis with minus > plus is swapped
// automatically.
func (t *Tree[V]) SearchTreeBox(queryPlus, queryMinus []int64) []V {
	if len(queryPlus) != t.dims || len(queryMinus) != t.dims {
		panic(newError(DimensionMismatch, "box query length does not match dimensions"))
	}
	t.ensureBuilt()
	if t.root == nil {
		return nil
	}
	plus := append([]int64(nil), queryPlus...)
	minus := append([]int64(nil), queryMinus...)
	normalizeBox(plus, minus)
	return searchBox(t.root, 0, t.dims, plus, minus, t.exec)
}

// SearchTreeTuples is SearchTreeBox with each hit's tuple also returned,
// in lockstep with its value, for callers that need the geometry of a
// match and not just the value attached to it.
func (t *Tree[V]) SearchTreeTuples(queryPlus, queryMinus []int64) ([][]int64, []V) {
	if len(queryPlus) != t.dims || len(queryMinus) != t.dims {
		panic(newError(DimensionMismatch, "box query length does not match dimensions"))
	}
	t.ensureBuilt()
	if t.root == nil {
		return nil, nil
	}
	plus := append([]int64(nil), queryPlus...)
	minus := append([]int64(nil), queryMinus...)
	normalizeBox(plus, minus)
	return searchBoxTuples(t.root, 0, t.dims, plus, minus, t.exec)
}

// NearestNeighborSearch returns the k closest live values to query by
// integer-rounded Euclidean distance. enable, if non-nil, disables axes
// whose entry is false; pass nil to enable every axis.
func (t *Tree[V]) NearestNeighborSearch(query []int64, k int, enable []bool) []V {
	if len(query) != t.dims {
		panic(newError(DimensionMismatch, "query length does not match dimensions"))
	}
	if enable != nil && len(enable) != t.dims {
		panic(newError(DimensionMismatch, "enable mask length does not match dimensions"))
	}
	t.ensureBuilt()
	if t.root == nil {
		return nil
	}
	return nearestNeighborSearch(t.root, query, k, enable, t.dims)
}

// Remove deletes the first occurrence of value at the exact tuple query,
// reporting whether anything was removed.
func (t *Tree[V]) Remove(query []int64, value V) bool {
	if len(query) != t.dims {
		panic(newError(DimensionMismatch, "query length does not match dimensions"))
	}
	t.ensureBuilt()
	if t.root == nil {
		return false
	}
	status := removeValue(t.root, 0, t.dims, query, value)
	if status == statusDead {
		t.root = nil
	}
	return status != statusNothing
}

// SearchAndRemove is the destructive hypercube form: every value found in
// [q-c, q+c] is removed from the tree and returned.
func (t *Tree[V]) SearchAndRemove(query []int64, cutoff int64) []V {
	if len(query) != t.dims {
		panic(newError(DimensionMismatch, "query length does not match dimensions"))
	}
	if cutoff < 0 {
		return nil
	}
	t.ensureBuilt()
	if t.root == nil {
		return nil
	}

	plus := make([]int64, t.dims)
	minus := make([]int64, t.dims)
	for i, q := range query {
		minus[i] = saturatingSub(q, cutoff)
		plus[i] = saturatingAdd(saturatingAdd(q, cutoff), 1)
	}
	vals, status := searchAndRemoveBox(t.root, 0, t.dims, plus, minus, t.exec)
	if status == statusDead {
		t.root = nil
	}
	return vals
}

// SearchAndRemoveBox is the destructive box form of SearchAndRemove.
func (t *Tree[V]) SearchAndRemoveBox(queryPlus, queryMinus []int64) []V {
	if len(queryPlus) != t.dims || len(queryMinus) != t.dims {
		panic(newError(DimensionMismatch, "box query length does not match dimensions"))
	}
	t.ensureBuilt()
	if t.root == nil {
		return nil
	}
	plus := append([]int64(nil), queryPlus...)
	minus := append([]int64(nil), queryMinus...)
	normalizeBox(plus, minus)
	vals, status := searchAndRemoveBox(t.root, 0, t.dims, plus, minus, t.exec)
	if status == statusDead {
		t.root = nil
	}
	return vals
}

// PickValue grabs an arbitrary live value using a descent-biased walk.
// bias selects one of the four standard selector preparations: 0 always
// prefers lt (leftmost live path), 1 always prefers gt (rightmost), 2
// alternates, and any other value draws a fresh random 64-bit selector.
// If remove is true the picked value is also deleted. Returns the picked
// value, the tuple it was found at, and whether anything was picked.
func (t *Tree[V]) PickValue(bias int, remove bool) (value V, key []int64, ok bool) {
	t.ensureBuilt()
	if t.root == nil {
		return value, nil, false
	}

	var selector uint64
	switch bias {
	case 0:
		selector = SelectorLeft
	case 1:
		selector = SelectorRight
	case 2:
		selector = SelectorAlternating
	default:
		selector = rand.Uint64()
	}

	outKey := make([]int64, t.dims)
	v, picked, status := pickValue(t.root, selector, remove, outKey)
	if !picked {
		return value, nil, false
	}
	if status == statusDead {
		t.root = nil
	}
	return v, outKey, true
}

// Size reports the number of values in the tree: the staged count before
// Build, or a live scan of the built tree's value lists after.
func (t *Tree[V]) Size() int {
	if t.perm == nil {
		return len(t.staged)
	}
	return countValues(t.root)
}

func countValues[V comparable](n *node[V]) int {
	if n == nil {
		return 0
	}
	return len(n.values) + countValues(n.lt) + countValues(n.gt)
}

// NumDimensions returns d, fixed at New.
func (t *Tree[V]) NumDimensions() int {
	return t.dims
}

// Copy deep-copies the tree by pre-order traversal: the result shares no
// node, tuple, or value slice with the receiver.
func (t *Tree[V]) Copy() *Tree[V] {
	out := &Tree[V]{
		capacity:   t.capacity,
		dims:       t.dims,
		config:     t.config,
		numThreads: t.numThreads,
		exec:       newExecutor(t.exec.maxSubmitDepth),
	}
	out.root = copyNode(t.root)
	if t.perm != nil {
		out.perm = append([]int(nil), t.perm...)
	}
	if t.root == nil {
		out.staged = make([]*node[V], len(t.staged))
		for i, s := range t.staged {
			out.staged[i] = copyNode(s)
		}
	}
	return out
}

func copyNode[V comparable](n *node[V]) *node[V] {
	if n == nil {
		return nil
	}
	tuple := make([]int64, len(n.tuple))
	copy(tuple, n.tuple)
	values := make([]V, len(n.values))
	copy(values, n.values)
	return &node[V]{
		tuple:  tuple,
		values: values,
		lt:     copyNode(n.lt),
		gt:     copyNode(n.gt),
	}
}

package kdtree

import (
	"math"
	"math/rand"
	"testing"
)

// walkPartition checks P1 at every node: every lt-descendant's SuperKey is
// strictly less than the node's, and every gt-descendant's is strictly
// greater, at the node's own partition axis.
func walkPartition(t *testing.T, n *node[int], depth, d int) {
	t.Helper()
	if n == nil {
		return
	}
	p := depth % d
	checkSubtree(t, n.lt, n, p, true)
	checkSubtree(t, n.gt, n, p, false)
	walkPartition(t, n.lt, depth+1, d)
	walkPartition(t, n.gt, depth+1, d)
}

func checkSubtree(t *testing.T, sub, parent *node[int], p int, lt bool) {
	t.Helper()
	if sub == nil {
		return
	}
	c := superKeyCompare(sub.tuple, parent.tuple, p)
	if lt && c >= 0 {
		t.Fatalf("lt descendant %v does not precede parent %v on axis %d", sub.tuple, parent.tuple, p)
	}
	if !lt && c <= 0 {
		t.Fatalf("gt descendant %v does not follow parent %v on axis %d", sub.tuple, parent.tuple, p)
	}
	checkSubtree(t, sub.lt, parent, p, lt)
	checkSubtree(t, sub.gt, parent, p, lt)
}

func treeHeight[V comparable](n *node[V]) int {
	if n == nil {
		return 0
	}
	l, r := treeHeight(n.lt), treeHeight(n.gt)
	if l > r {
		return l + 1
	}
	return r + 1
}

func TestBuild_PartitionInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr, err := New[int](2000, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2000; i++ {
		tr.Add([]int64{rng.Int63n(10000), rng.Int63n(10000), rng.Int63n(10000)}, i)
	}
	tr.Build()
	walkPartition(t, tr.root, 0, 3)
}

func TestBuild_Balance(t *testing.T) {
	n := 1000
	tr, _ := New[int](n, 1)
	for i := 0; i < n; i++ {
		tr.Add([]int64{int64(i)}, i)
	}
	tr.Build()
	h := treeHeight(tr.root)
	limit := int(math.Ceil(math.Log2(float64(n)))) + 2
	if h > limit {
		t.Errorf("height %d exceeds ceil(log2(n))+2 = %d", h, limit)
	}
}

func TestBuild_ValueConservation(t *testing.T) {
	tr, _ := New[string](5, 2)
	tr.Add([]int64{0, 0}, "a")
	tr.Add([]int64{1, 1}, "b")
	tr.Add([]int64{0, 1}, "c")
	tr.Add([]int64{1, 0}, "d")
	tr.Add([]int64{0, 0}, "e")
	tr.Build()

	got := countValues(tr.root)
	if got != 5 {
		t.Fatalf("got %d live values, want 5", got)
	}
}

func TestBuild_TwoAndThreeElementBaseCases(t *testing.T) {
	tr, _ := New[int](2, 1)
	tr.Add([]int64{1}, 1)
	tr.Add([]int64{2}, 2)
	tr.Build()
	if tr.root.tuple[0] != 1 || tr.root.gt == nil || tr.root.gt.tuple[0] != 2 {
		t.Fatalf("two-element base case malformed: root=%v", tr.root)
	}

	tr3, _ := New[int](3, 1)
	tr3.Add([]int64{1}, 1)
	tr3.Add([]int64{2}, 2)
	tr3.Add([]int64{3}, 3)
	tr3.Build()
	if tr3.root.tuple[0] != 2 || tr3.root.lt == nil || tr3.root.lt.tuple[0] != 1 || tr3.root.gt == nil || tr3.root.gt.tuple[0] != 3 {
		t.Fatalf("three-element base case malformed: root=%v", tr3.root)
	}
}

func TestBuild_VerifyEnabledSucceeds(t *testing.T) {
	tr, _ := NewWithConfig[int](100, 2, Config{Verify: true})
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		tr.Add([]int64{rng.Int63n(50), rng.Int63n(50)}, i)
	}
	tr.Build()
	if tr.root == nil {
		t.Fatal("expected a built tree")
	}
}

func TestBuild_IdempotentNoOp(t *testing.T) {
	tr, _ := New[int](3, 1)
	tr.Add([]int64{1}, 1)
	tr.Build()
	first := tr.root
	tr.Build()
	if tr.root != first {
		t.Fatal("second Build call should be a no-op leaving root unchanged")
	}
}

func TestBuild_AddAfterBuildInvalidates(t *testing.T) {
	tr, _ := New[int](3, 1)
	tr.Add([]int64{1}, 1)
	tr.Build()
	if tr.root == nil {
		t.Fatal("expected a built tree")
	}
	tr.Add([]int64{2}, 2)
	if tr.root != nil {
		t.Fatal("Add after Build should clear root")
	}
	tr.Build()
	if countValues(tr.root) != 2 {
		t.Fatalf("rebuild should include both staged points, got %d values", countValues(tr.root))
	}
}

package kdtree

// buildState holds the d reference arrays (each pre-sorted under SuperKey
// with a distinct axis as most significant, after dedup), a scratch buffer
// of the same length, the depth-to-axis permutation vector, and the
// executor used to fork/join the recursive build.
type buildState[V comparable] struct {
	refs    [][]*node[V]
	scratch []*node[V]
	perm    []int
	exec    *executor
}

// buildRange recursively constructs the subtree covering refs[0][start:end+1]
// and returns its root. depth selects the partition axis via perm and gates
// fork/join submission.
func buildRange[V comparable](st *buildState[V], start, end, depth int) *node[V] {
	if end < start {
		panic(newError(GeometryInvariant, "build range end precedes start"))
	}

	switch end - start {
	case 0:
		return st.refs[0][start]
	case 1:
		n := st.refs[0][start]
		n.gt = st.refs[0][end]
		return n
	case 2:
		n := st.refs[0][start+1]
		n.lt = st.refs[0][start]
		n.gt = st.refs[0][end]
		return n
	}

	p := st.perm[depth]
	m := start + (end-start)/2
	median := st.refs[0][m]

	copy(st.scratch[start:end+1], st.refs[0][start:end+1])

	d := len(st.refs)
	for i := 1; i < d; i++ {
		partition(st.refs[i], st.refs[i-1], median, p, start, m, end, depth, st.exec)
	}

	copy(st.refs[d-1][start:end+1], st.scratch[start:end+1])

	if m <= start || m >= end {
		panic(newError(GeometryInvariant, "median fell outside (start, end) in the general build case"))
	}

	var lt *node[V]
	join := st.exec.submit(depth, func() error {
		lt = buildRange(st, start, m-1, depth+1)
		return nil
	})
	gt := buildRange(st, m+1, end, depth+1)
	if err := join(); err != nil {
		panic(wrapTaskFailure(err))
	}

	median.lt = lt
	median.gt = gt
	return median
}

// partition scans src[start..end] (excluding the median element itself) and
// routes it into dst: SuperKey-less-than-median elements land in
// dst[start..m-1] in their original relative order (scanned left to right);
// SuperKey-greater-than-median elements land in dst[m+1..end], also in
// their original relative order (scanned right to left, filled right to
// left so the order comes out the same). The two scans touch disjoint
// destination ranges, so they may run concurrently.
func partition[V comparable](src, dst []*node[V], median *node[V], p, start, m, end, depth int, exec *executor) {
	join := exec.submit(depth, func() error {
		lo := start
		for idx := start; idx <= end; idx++ {
			if src[idx] == median {
				continue
			}
			if superKeyCompare(src[idx].tuple, median.tuple, p) < 0 {
				dst[lo] = src[idx]
				lo++
			}
		}
		return nil
	})

	hi := end
	for idx := end; idx >= start; idx-- {
		if src[idx] == median {
			continue
		}
		if superKeyCompare(src[idx].tuple, median.tuple, p) > 0 {
			dst[hi] = src[idx]
			hi--
		}
	}

	if err := join(); err != nil {
		panic(wrapTaskFailure(err))
	}
}

// verify walks the freshly built tree checking that every lt/gt child
// satisfies the SuperKey ordering against its parent at the parent's
// partition axis, and counts live values so the caller can cross-check
// against the staged count. Runs under the same fork/join discipline as
// build itself.
func verify[V comparable](n *node[V], depth, d int, exec *executor) (count int, err error) {
	if n == nil {
		return 0, nil
	}
	p := depth % d

	if n.lt != nil {
		if superKeyCompare(n.lt.tuple, n.tuple, p) >= 0 {
			return 0, newError(GeometryInvariant, "lt child does not satisfy SuperKey < parent")
		}
	}
	if n.gt != nil {
		if superKeyCompare(n.gt.tuple, n.tuple, p) <= 0 {
			return 0, newError(GeometryInvariant, "gt child does not satisfy SuperKey > parent")
		}
	}

	childCount := len(n.values)

	var ltCount int
	var ltErr error
	join := exec.submit(depth, func() error {
		ltCount, ltErr = verify(n.lt, depth+1, d, exec)
		return ltErr
	})
	gtCount, gtErr := verify(n.gt, depth+1, d, exec)
	if joinErr := join(); joinErr != nil {
		return 0, joinErr
	}
	if ltErr != nil {
		return 0, ltErr
	}
	if gtErr != nil {
		return 0, gtErr
	}

	return childCount + ltCount + gtCount, nil
}

package kdtree

// inBox reports whether tuple lies in the half-open box
// [minus, plus): lower bound inclusive, upper bound exclusive on every
// axis.
func inBox(tuple, plus, minus []int64) bool {
	for i := range tuple {
		if tuple[i] < minus[i] || tuple[i] >= plus[i] {
			return false
		}
	}
	return true
}

// normalizeBox swaps plus[i]/minus[i] in place wherever minus[i] > plus[i].
// Operates on caller-owned copies.
func normalizeBox(plus, minus []int64) {
	for i := range plus {
		if minus[i] > plus[i] {
			plus[i], minus[i] = minus[i], plus[i]
		}
	}
}

// searchBox is the non-destructive orthogonal range traversal. It forks
// the lt descent through exec while running the gt descent inline,
// joining before returning.
func searchBox[V comparable](n *node[V], depth, d int, plus, minus []int64, exec *executor) []V {
	if n == nil {
		return nil
	}
	p := depth % d

	var out []V
	if inBox(n.tuple, plus, minus) {
		out = append(out, n.values...)
	}

	descendLT := n.lt != nil && minus[p] <= n.tuple[p]
	descendGT := n.gt != nil && plus[p] >= n.tuple[p]

	var ltResult []V
	join := exec.submit(depth, func() error {
		if descendLT {
			ltResult = searchBox(n.lt, depth+1, d, plus, minus, exec)
		}
		return nil
	})
	var gtResult []V
	if descendGT {
		gtResult = searchBox(n.gt, depth+1, d, plus, minus, exec)
	}
	if err := join(); err != nil {
		panic(wrapTaskFailure(err))
	}

	out = append(out, ltResult...)
	out = append(out, gtResult...)
	return out
}

// searchBoxTuples runs the same traversal as searchBox but additionally
// returns each hit node's tuple, copied, in lockstep with its values.
func searchBoxTuples[V comparable](n *node[V], depth, d int, plus, minus []int64, exec *executor) ([][]int64, []V) {
	if n == nil {
		return nil, nil
	}
	p := depth % d

	var outTuples [][]int64
	var outValues []V
	if inBox(n.tuple, plus, minus) {
		tupleCopy := make([]int64, len(n.tuple))
		copy(tupleCopy, n.tuple)
		for range n.values {
			outTuples = append(outTuples, tupleCopy)
		}
		outValues = append(outValues, n.values...)
	}

	descendLT := n.lt != nil && minus[p] <= n.tuple[p]
	descendGT := n.gt != nil && plus[p] >= n.tuple[p]

	var ltTuples [][]int64
	var ltValues []V
	join := exec.submit(depth, func() error {
		if descendLT {
			ltTuples, ltValues = searchBoxTuples(n.lt, depth+1, d, plus, minus, exec)
		}
		return nil
	})
	var gtTuples [][]int64
	var gtValues []V
	if descendGT {
		gtTuples, gtValues = searchBoxTuples(n.gt, depth+1, d, plus, minus, exec)
	}
	if err := join(); err != nil {
		panic(wrapTaskFailure(err))
	}

	outTuples = append(outTuples, ltTuples...)
	outTuples = append(outTuples, gtTuples...)
	outValues = append(outValues, ltValues...)
	outValues = append(outValues, gtValues...)
	return outTuples, outValues
}

// searchAndRemoveBox is the destructive range traversal: a hit node's
// values are collected and cleared. Returns the collected values and this
// node's tri-state prune status so the parent can clear a dead child link.
func searchAndRemoveBox[V comparable](n *node[V], depth, d int, plus, minus []int64, exec *executor) ([]V, pruneStatus) {
	if n == nil {
		return nil, statusNothing
	}
	p := depth % d

	var out []V
	hit := inBox(n.tuple, plus, minus)
	if hit {
		out = append(out, n.values...)
		n.values = nil
	}

	descendLT := n.lt != nil && minus[p] <= n.tuple[p]
	descendGT := n.gt != nil && plus[p] >= n.tuple[p]

	var ltVals []V
	var ltStatus pruneStatus
	join := exec.submit(depth, func() error {
		if descendLT {
			ltVals, ltStatus = searchAndRemoveBox(n.lt, depth+1, d, plus, minus, exec)
		}
		return nil
	})
	var gtVals []V
	var gtStatus pruneStatus
	if descendGT {
		gtVals, gtStatus = searchAndRemoveBox(n.gt, depth+1, d, plus, minus, exec)
	}
	if err := join(); err != nil {
		panic(wrapTaskFailure(err))
	}

	if descendLT && ltStatus == statusDead {
		n.lt = nil
	}
	if descendGT && gtStatus == statusDead {
		n.gt = nil
	}

	out = append(out, ltVals...)
	out = append(out, gtVals...)

	found := hit || (descendLT && ltStatus != statusNothing) || (descendGT && gtStatus != statusNothing)
	if !found {
		return out, statusNothing
	}
	if n.dead() {
		return out, statusDead
	}
	return out, statusAlive
}

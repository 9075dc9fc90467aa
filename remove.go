package kdtree

// removeValue descends by comparing query against each node's SuperKey
// (axis p = depth mod d), removing the first occurrence of value at the
// node where the comparison hits zero. Returns the same tri-state status
// as the destructive range walk so callers can clear pruned child links.
// A single point touches at most one path to a leaf, so this walk is
// always single-threaded.
func removeValue[V comparable](n *node[V], depth, d int, query []int64, value V) pruneStatus {
	if n == nil {
		return statusNothing
	}
	p := depth % d
	c := superKeyCompare(query, n.tuple, p)

	switch {
	case c < 0:
		status := removeValue(n.lt, depth+1, d, query, value)
		if status == statusDead {
			n.lt = nil
		}
		if status == statusNothing {
			return statusNothing
		}
	case c > 0:
		status := removeValue(n.gt, depth+1, d, query, value)
		if status == statusDead {
			n.gt = nil
		}
		if status == statusNothing {
			return statusNothing
		}
	default:
		found := false
		for i, v := range n.values {
			if v == value {
				n.values = append(n.values[:i], n.values[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return statusNothing
		}
	}

	if n.dead() {
		return statusDead
	}
	return statusAlive
}

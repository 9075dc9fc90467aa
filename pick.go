package kdtree

// Standard selector preparations for PickValue: SelectorLeft always
// descends lt, SelectorRight always descends gt, SelectorAlternating
// alternates. A fourth, random selector is drawn fresh per call inside
// Tree.PickValue, so it has no fixed constant here.
const (
	SelectorLeft        uint64 = 0
	SelectorRight       uint64 = 0x7FFFFFFFFFFFFFFF
	SelectorAlternating uint64 = 0x2AAAAAAAAAAAAAAA
)

// pickValue descends guided by selector (consumed one bit per depth, LSB
// first: 1 prefers gt, 0 prefers lt, falling back to whichever child
// exists), then pops the last value from the first node with no viable
// chosen child. If remove is true the popped value is dropped from that
// node's list and the tri-state prune status propagates back up; if false
// the tree is left untouched and the status is always "alive" since
// nothing was removed. The picked node's tuple is copied into outKey.
func pickValue[V comparable](n *node[V], selector uint64, remove bool, outKey []int64) (value V, ok bool, status pruneStatus) {
	if n == nil {
		return value, false, statusNothing
	}

	preferGT := selector&1 == 1
	rest := selector >> 1

	var child *node[V]
	childIsGT := false
	switch {
	case preferGT && n.gt != nil:
		child, childIsGT = n.gt, true
	case preferGT && n.lt != nil:
		child, childIsGT = n.lt, false
	case !preferGT && n.lt != nil:
		child, childIsGT = n.lt, false
	case !preferGT && n.gt != nil:
		child, childIsGT = n.gt, true
	}

	if child != nil {
		v, picked, childStatus := pickValue(child, rest, remove, outKey)
		if picked {
			if childStatus == statusDead {
				if childIsGT {
					n.gt = nil
				} else {
					n.lt = nil
				}
			}
			if n.dead() {
				return v, true, statusDead
			}
			return v, true, statusAlive
		}
	}

	if len(n.values) == 0 {
		return value, false, statusNothing
	}

	last := len(n.values) - 1
	picked := n.values[last]
	copy(outKey, n.tuple)

	if !remove {
		return picked, true, statusAlive
	}

	n.values = n.values[:last]
	if n.dead() {
		return picked, true, statusDead
	}
	return picked, true, statusAlive
}

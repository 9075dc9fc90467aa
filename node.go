package kdtree

// node is a single k-d tree node: one tuple (its SuperKey), the list of
// values staged at that tuple (merged across duplicates by dedup), and
// its two children. A node with an empty values slice and both children
// absent is dead and must be pruned from its parent by the next
// destructive walk that visits it.
type node[V comparable] struct {
	tuple  []int64
	values []V
	lt, gt *node[V]
}

func (n *node[V]) dead() bool {
	return len(n.values) == 0 && n.lt == nil && n.gt == nil
}

// pruneStatus is the tri-state result of a destructive walk at a node:
// statusNothing means nothing was found under this node, statusAlive means
// something was found and the node is still live, statusDead means
// something was found and the node (and its whole subtree) is now dead.
// A parent seeing statusDead from a direct child clears that child link.
type pruneStatus int8

const (
	statusDead    pruneStatus = -1
	statusNothing pruneStatus = 0
	statusAlive   pruneStatus = 1
)

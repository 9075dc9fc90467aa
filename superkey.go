package kdtree

import "cmp"

// superKeyCompare orders two tuples under the SuperKey total order: axis p
// is compared first; on equality, axes p+1, p+2, ..., p+d-1 (mod d) are
// compared in turn, and the first unequal axis decides. Returns 0 only if
// every axis matches.
//
// Comparison is via cmp.Compare rather than subtraction: a-b can overflow
// for unrestricted int64 inputs and silently flip sign, which would break
// the total order the balanced builder depends on.
func superKeyCompare(a, b []int64, p int) int {
	d := len(a)
	for i := 0; i < d; i++ {
		axis := p + i
		if axis >= d {
			axis -= d
		}
		if c := cmp.Compare(a[axis], b[axis]); c != 0 {
			return c
		}
	}
	return 0
}

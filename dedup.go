package kdtree

// dedupe walks ref (already sorted ascending under SuperKey axis 0) once,
// merging the value lists of adjacent equal-tuple nodes into the earlier
// survivor and dropping the later slot. It returns the index of the last
// surviving element; callers restrict all further build work to
// ref[0:end+1]. An out-of-order adjacent pair (compare < 0) means the sort
// is broken and is a fatal SortInvariant.
func dedupe[V comparable](ref []*node[V]) int {
	if len(ref) == 0 {
		return -1
	}

	end := 0
	for i := 1; i < len(ref); i++ {
		c := superKeyCompare(ref[end].tuple, ref[i].tuple, 0)
		switch {
		case c == 0:
			ref[end].values = append(ref[end].values, ref[i].values...)
		case c < 0:
			end++
			ref[end] = ref[i]
		default:
			panic(newError(SortInvariant, "dedupe observed an out-of-order adjacent pair"))
		}
	}
	return end
}

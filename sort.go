package kdtree

// insertionSortThreshold is the sub-range size at or below which mergeSort
// switches to a plain insertion sort.
const insertionSortThreshold = 15

// mergeSort stably sorts ref[low..high] under the SuperKey order with axis
// p as most significant, using tmp (same length as ref) as scratch. depth
// and exec gate fork/join: while depth <= exec's max submit depth, the
// lower half is handed to the executor and the upper half runs on the
// calling goroutine, mirroring the builder's own submit-left-run-right
// discipline.
func mergeSort[V comparable](ref, tmp []*node[V], p, low, high, depth int, exec *executor) {
	if high-low <= insertionSortThreshold {
		insertionSort(ref, p, low, high)
		return
	}

	mid := low + (high-low)/2

	join := exec.submit(depth, func() error {
		mergeSort(ref, tmp, p, low, mid, depth+1, exec)
		return nil
	})
	mergeSort(ref, tmp, p, mid+1, high, depth+1, exec)
	if err := join(); err != nil {
		panic(wrapTaskFailure(err))
	}

	copy(tmp[low:high+1], ref[low:high+1])
	merge(tmp, ref, p, low, mid, high)
}

// merge combines the two already-sorted runs src[low..mid] and
// src[mid+1..high] into dst[low..high], ascending under SuperKey axis p.
func merge[V comparable](src, dst []*node[V], p, low, mid, high int) {
	i, j, k := low, mid+1, low
	for i <= mid && j <= high {
		if superKeyCompare(src[i].tuple, src[j].tuple, p) <= 0 {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i <= mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j <= high {
		dst[k] = src[j]
		j++
		k++
	}
}

// insertionSort sorts ref[low..high] in place under SuperKey axis p.
func insertionSort[V comparable](ref []*node[V], p, low, high int) {
	for i := low + 1; i <= high; i++ {
		key := ref[i]
		j := i - 1
		for j >= low && superKeyCompare(ref[j].tuple, key.tuple, p) > 0 {
			ref[j+1] = ref[j]
			j--
		}
		ref[j+1] = key
	}
}

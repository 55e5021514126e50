package scheduler

// combinationIterator walks the cartesian product of per-position candidate pools like an
// odometer: the last position turns every step and carries into the one before it.
// It is exhausted after the step on which every index wrapped.
type combinationIterator struct {
	pools [][]string
	index []int
	done  bool
}

func newCombinationIterator(pools [][]string) *combinationIterator {
	it := &combinationIterator{pools: pools, index: make([]int, len(pools))}
	for _, p := range pools {
		if len(p) == 0 {
			it.done = true
		}
	}
	return it
}

// Next returns a fresh combination, one name per position, or false once exhausted
func (it *combinationIterator) Next() ([]string, bool) {
	if it.done {
		return nil, false
	}

	combo := make([]string, len(it.pools))
	for i, idx := range it.index {
		combo[i] = it.pools[i][idx]
	}

	wrapped := 0
	for i := len(it.index) - 1; i >= 0; i-- {
		it.index[i]++
		if it.index[i] < len(it.pools[i]) {
			break
		}
		it.index[i] = 0
		wrapped++
	}
	if wrapped == len(it.index) {
		it.done = true
	}

	return combo, true
}

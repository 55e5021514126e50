package scheduler

import "time"

// solver searches for one combination per date such that no name repeats within a date and
// no name repeats within a position across the cycle.
type solver struct {
	tried    int
	deadEnds int
}

// solve takes the last remaining date, narrows its pools by what is already committed and tries
// every combination in turn, recursing on a deep copy of the remaining dates. committed holds the
// names used so far for each position index and is never modified in place.
func (s *solver) solve(pools []dayPool, committed [][]string) (map[time.Time][]string, bool) {
	if len(pools) == 0 {
		return map[time.Time][]string{}, true
	}

	day := pools[len(pools)-1]
	rest := pools[:len(pools)-1]

	candidates := make([][]string, len(day.candidates))
	for i, names := range day.candidates {
		candidates[i] = without(names, committed[i])
		if len(candidates[i]) == 0 {
			s.deadEnds++
			return nil, false
		}
	}

	it := newCombinationIterator(candidates)
	for combo, ok := it.Next(); ok; combo, ok = it.Next() {
		s.tried++
		if hasDuplicate(combo) {
			continue
		}

		chosen, found := s.solve(clonePools(rest), extend(committed, combo))
		if !found {
			continue
		}
		chosen[day.date] = combo
		return chosen, true
	}

	s.deadEnds++
	return nil, false
}

func without(names, used []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !contains(used, n) {
			out = append(out, n)
		}
	}
	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func hasDuplicate(combo []string) bool {
	seen := make(map[string]bool, len(combo))
	for _, n := range combo {
		if seen[n] {
			return true
		}
		seen[n] = true
	}
	return false
}

func extend(committed [][]string, combo []string) [][]string {
	next := make([][]string, len(committed))
	for i, names := range committed {
		next[i] = make([]string, len(names), len(names)+1)
		copy(next[i], names)
		next[i] = append(next[i], combo[i])
	}
	return next
}

package merge

import "sort"

// SortKeys approximates each row's place in the cohorts' original files. For
// every cohort, a row carries that cohort's own position when the cohort has
// the variant, and otherwise the position most recently carried by an earlier
// row (nothing, before the cohort's first variant). The key is the sum of the
// carried positions.
//
// This is a heuristic, not an exact k-way interleaving. When one cohort
// dominates the sum its file order is recovered; rows of the other cohorts
// can still land out of their own order where merge order and file order
// disagree.
func SortKeys(t *Table) []int64 {
	keys := make([]int64, t.Len())

	for _, cols := range t.Cohorts {
		var carried int64
		for row, pos := range cols.Position {
			if pos != Absent {
				carried = int64(pos)
			}
			keys[row] += carried
		}
	}

	return keys
}

// SortByOriginalOrder stably sorts the table ascending by SortKeys, so ties
// keep merge order.
func (t *Table) SortByOriginalOrder() {
	keys := SortKeys(t)

	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return keys[order[i]] < keys[order[j]]
	})

	t.Permute(order)
}

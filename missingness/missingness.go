// Package missingness decides which unified variants are usable across
// cohorts.
package missingness

import (
	"fmt"
	"math"

	"github.com/carbocation/infomerge/infotable"
	"github.com/carbocation/infomerge/merge"
	"gopkg.in/guregu/null.v3"
)

type Label uint8

const (
	Excluded Label = iota
	Kept
)

func (l Label) String() string {
	if l == Kept {
		return "kept"
	}
	return "excluded"
}

// Policy controls classification. MissingAllowed is the number of cohorts a
// variant may lack r2 in and still be kept. R2Threshold, when positive, is the
// minimum r2 required in every cohort; it only applies when MissingAllowed is
// zero.
type Policy struct {
	MissingAllowed int
	R2Threshold    float64
}

// Result labels every row of the table it was computed from. Kept and
// Excluded list row numbers in table order; together they cover every row
// exactly once.
type Result struct {
	Labels   []Label
	Kept     []int
	Excluded []int
}

// IndexEntry gives a kept variant's original position in each cohort, for
// consumers that seek into per-cohort files by row.
type IndexEntry struct {
	infotable.Key
	Positions []null.Int
}

// Classify labels each row of t under p. A cohort counts as having a variant
// when its r2 is present.
func Classify(t *merge.Table, p Policy) (*Result, error) {
	if t.NCohorts() == 0 {
		return nil, merge.ErrNoCohorts
	}
	if p.MissingAllowed < 0 {
		return nil, fmt.Errorf("missing allowance must not be negative (got %d)", p.MissingAllowed)
	}

	n := t.Len()
	present := make([]int, n)
	below := make([]bool, n)

	for _, cols := range t.Cohorts {
		for row, r2 := range cols.R2 {
			if math.IsNaN(r2) {
				continue
			}
			present[row]++
			if r2 < p.R2Threshold {
				below[row] = true
			}
		}
	}

	need := t.NCohorts() - p.MissingAllowed
	useThreshold := p.MissingAllowed == 0 && p.R2Threshold > 0

	res := &Result{
		Labels: make([]Label, n),
	}
	for row := 0; row < n; row++ {
		keep := present[row] >= need
		if useThreshold && below[row] {
			keep = false
		}

		if keep {
			res.Labels[row] = Kept
			res.Kept = append(res.Kept, row)
		} else {
			res.Labels[row] = Excluded
			res.Excluded = append(res.Excluded, row)
		}
	}

	return res, nil
}

// Index returns the per-cohort original positions of every kept row of t.
func (r *Result) Index(t *merge.Table) []IndexEntry {
	out := make([]IndexEntry, 0, len(r.Kept))

	for _, row := range r.Kept {
		entry := IndexEntry{
			Key:       t.Keys[row],
			Positions: make([]null.Int, t.NCohorts()),
		}
		for c, cols := range t.Cohorts {
			if t.Present(c, row) {
				entry.Positions[c] = null.IntFrom(int64(cols.Position[row]))
			}
		}
		out = append(out, entry)
	}

	return out
}

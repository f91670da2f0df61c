// Package merge unifies per-cohort quality tables into one table keyed by
// variant, and reconstructs an approximation of the cohorts' original row
// order.
package merge

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/infomerge/infotable"
	"github.com/carbocation/pfx"
	"gopkg.in/guregu/null.v3"
)

// Absent marks a cohort position for a variant the cohort does not contain.
const Absent = -1

// ErrNoCohorts is returned when there is nothing to merge or classify.
var ErrNoCohorts = errors.New("no cohort tables to merge")

// Columns holds one cohort's values for every unified row. Statistics are NaN
// and Position is Absent where the cohort lacks the variant.
type Columns struct {
	Path     string
	AltFreq  []float64
	MAF      []float64
	R2       []float64
	Position []int
}

// Table is the outer join of all cohort tables on infotable.Key. Cohort i
// (0-based) is reported as group i+1.
type Table struct {
	Keys    []infotable.Key
	Cohorts []Columns
}

// Len is the number of unified variants.
func (t *Table) Len() int {
	return len(t.Keys)
}

// NCohorts is the number of groups that were merged.
func (t *Table) NCohorts() int {
	return len(t.Cohorts)
}

// Present reports whether cohort c contains the variant at row.
func (t *Table) Present(c, row int) bool {
	return t.Cohorts[c].Position[row] != Absent
}

// Merge performs a full outer join of tables on variant identity in a single
// pass. Rows come out in key order, as a chained pairwise outer join would
// produce them. A variant listed twice by the same cohort is an error.
func Merge(tables []*infotable.Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, ErrNoCohorts
	}

	// Union of keys
	capacity := 0
	for _, tab := range tables {
		if tab.Len() > capacity {
			capacity = tab.Len()
		}
	}
	rowOf := make(map[infotable.Key]int, capacity)
	keys := make([]infotable.Key, 0, capacity)
	for _, tab := range tables {
		for _, k := range tab.Keys {
			if _, exists := rowOf[k]; !exists {
				rowOf[k] = 0
				keys = append(keys, k)
			}
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	for row, k := range keys {
		rowOf[k] = row
	}

	out := &Table{
		Keys:    keys,
		Cohorts: make([]Columns, len(tables)),
	}

	for c, tab := range tables {
		out.Cohorts[c] = newColumns(len(keys))
		cols := &out.Cohorts[c]
		cols.Path = tab.Path

		for i := 0; i < tab.Len(); i++ {
			rec := tab.Record(i)
			row := rowOf[rec.Key]
			if out.Present(c, row) {
				return nil, pfx.Err(fmt.Errorf("%w: group %d lists %s at rows %d and %d", infotable.ErrDuplicateVariant, c+1, rec.Key, cols.Position[row], rec.Position))
			}
			cols.Position[row] = rec.Position
			cols.AltFreq[row] = orNaN(rec.AltFreq)
			cols.MAF[row] = orNaN(rec.MAF)
			cols.R2[row] = orNaN(rec.R2)
		}
	}

	return out, nil
}

func orNaN(v null.Float) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func newColumns(n int) Columns {
	cols := Columns{
		AltFreq:  make([]float64, n),
		MAF:      make([]float64, n),
		R2:       make([]float64, n),
		Position: make([]int, n),
	}
	nan := math.NaN()
	for i := 0; i < n; i++ {
		cols.AltFreq[i] = nan
		cols.MAF[i] = nan
		cols.R2[i] = nan
		cols.Position[i] = Absent
	}

	return cols
}

// Permute reorders every column so that new row i is old row order[i].
func (t *Table) Permute(order []int) {
	keys := make([]infotable.Key, len(order))
	for i, from := range order {
		keys[i] = t.Keys[from]
	}
	t.Keys = keys

	for c := range t.Cohorts {
		cols := &t.Cohorts[c]
		cols.AltFreq = permuteFloats(cols.AltFreq, order)
		cols.MAF = permuteFloats(cols.MAF, order)
		cols.R2 = permuteFloats(cols.R2, order)

		pos := make([]int, len(order))
		for i, from := range order {
			pos[i] = cols.Position[from]
		}
		cols.Position = pos
	}
}

func permuteFloats(src []float64, order []int) []float64 {
	dst := make([]float64, len(order))
	for i, from := range order {
		dst[i] = src[from]
	}
	return dst
}

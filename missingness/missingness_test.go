package missingness

import (
	"math"
	"testing"

	"github.com/carbocation/infomerge/infotable"
	"github.com/carbocation/infomerge/merge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

// build merges cohorts given as snp->r2 maps, listed in the order given.
func build(t *testing.T, cohorts ...[][2]interface{}) *merge.Table {
	tables := make([]*infotable.Table, 0, len(cohorts))
	for _, rows := range cohorts {
		tab := &infotable.Table{}
		for _, r := range rows {
			tab.Append(infotable.Key{SNP: r[0].(string), Ref: "A", Alt: "G", Genotyped: "Imputed"}, 0.5, 0.5, r[1].(float64))
		}
		tables = append(tables, tab)
	}

	m, err := merge.Merge(tables)
	require.NoError(t, err)
	return m
}

func snpsOf(m *merge.Table, rows []int) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, m.Keys[row].SNP)
	}
	return out
}

func assertPartition(t *testing.T, m *merge.Table, res *Result) {
	t.Helper()

	require.Len(t, res.Labels, m.Len())
	assert.Equal(t, m.Len(), len(res.Kept)+len(res.Excluded))

	seen := make(map[int]Label)
	for _, row := range res.Kept {
		seen[row] = Kept
		assert.Equal(t, Kept, res.Labels[row])
	}
	for _, row := range res.Excluded {
		_, dup := seen[row]
		assert.False(t, dup, "row %d is both kept and excluded", row)
		seen[row] = Excluded
		assert.Equal(t, Excluded, res.Labels[row])
	}
	assert.Len(t, seen, m.Len())
}

func threeCohorts(t *testing.T) *merge.Table {
	return build(t,
		[][2]interface{}{{"all3", 0.9}, {"two", 0.9}, {"one", 0.9}, {"low", 0.2}},
		[][2]interface{}{{"all3", 0.8}, {"two", 0.7}, {"low", 0.9}},
		[][2]interface{}{{"all3", 0.4}, {"low", 0.9}, {"nanr2", math.NaN()}},
	)
}

func TestMissingZeroNoThreshold(t *testing.T) {
	m := threeCohorts(t)

	res, err := Classify(m, Policy{})
	require.NoError(t, err)
	assertPartition(t, m, res)

	assert.ElementsMatch(t, []string{"all3", "low"}, snpsOf(m, res.Kept))
	assert.ElementsMatch(t, []string{"two", "one", "nanr2"}, snpsOf(m, res.Excluded))
}

func TestMissingZeroWithThreshold(t *testing.T) {
	m := threeCohorts(t)

	res, err := Classify(m, Policy{R2Threshold: 0.3})
	require.NoError(t, err)
	assertPartition(t, m, res)

	// "low" has r2 0.2 in the first cohort
	assert.Equal(t, []string{"all3"}, snpsOf(m, res.Kept))

	res, err = Classify(m, Policy{R2Threshold: 0.5})
	require.NoError(t, err)
	assertPartition(t, m, res)
	assert.Empty(t, res.Kept)
}

func TestThresholdIsInclusive(t *testing.T) {
	m := build(t, [][2]interface{}{{"x", 0.3}}, [][2]interface{}{{"x", 0.4}})

	res, err := Classify(m, Policy{R2Threshold: 0.3})
	require.NoError(t, err)
	assert.Equal(t, []Label{Kept}, res.Labels)
}

func TestMissingOneOfThree(t *testing.T) {
	m := threeCohorts(t)

	res, err := Classify(m, Policy{MissingAllowed: 1, R2Threshold: 0.95})
	require.NoError(t, err)
	assertPartition(t, m, res)

	// The threshold is not applied when missingness is allowed
	assert.ElementsMatch(t, []string{"all3", "two", "low"}, snpsOf(m, res.Kept))
	assert.ElementsMatch(t, []string{"one", "nanr2"}, snpsOf(m, res.Excluded))
}

func TestMissingAll(t *testing.T) {
	m := threeCohorts(t)

	res, err := Classify(m, Policy{MissingAllowed: 3})
	require.NoError(t, err)
	assertPartition(t, m, res)
	assert.Len(t, res.Kept, m.Len())
}

func TestKeptPreservesTableOrder(t *testing.T) {
	m := threeCohorts(t)
	m.SortByOriginalOrder()

	res, err := Classify(m, Policy{MissingAllowed: 2})
	require.NoError(t, err)

	for i := 1; i < len(res.Kept); i++ {
		assert.Less(t, res.Kept[i-1], res.Kept[i])
	}
}

func TestNegativeAllowance(t *testing.T) {
	_, err := Classify(threeCohorts(t), Policy{MissingAllowed: -1})
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	m := build(t,
		[][2]interface{}{{"a", 0.9}, {"b", 0.9}},
		[][2]interface{}{{"c", 0.9}, {"b", 0.9}},
	)

	res, err := Classify(m, Policy{MissingAllowed: 1})
	require.NoError(t, err)

	idx := res.Index(m)
	require.Len(t, idx, 3)

	// Key order: a, b, c
	assert.Equal(t, "a", idx[0].SNP)
	assert.Equal(t, []null.Int{null.IntFrom(0), {}}, idx[0].Positions)
	assert.Equal(t, "b", idx[1].SNP)
	assert.Equal(t, []null.Int{null.IntFrom(1), null.IntFrom(1)}, idx[1].Positions)
	assert.Equal(t, "c", idx[2].SNP)
	assert.False(t, idx[2].Positions[0].Valid)
	assert.Equal(t, int64(0), idx[2].Positions[1].Int64)
}

func TestLabelString(t *testing.T) {
	assert.Equal(t, "kept", Kept.String())
	assert.Equal(t, "excluded", Excluded.String())
}

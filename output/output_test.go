package output

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/carbocation/infomerge/combine"
	"github.com/carbocation/infomerge/infotable"
	"github.com/carbocation/infomerge/merge"
	"github.com/carbocation/infomerge/missingness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"
)

func fixture(t *testing.T) *merge.Table {
	c1 := &infotable.Table{}
	c1.Append(infotable.Key{SNP: "X", Ref: "A", Alt: "G", Genotyped: "Imputed"}, 0.25, 0.25, 0.9)
	c2 := &infotable.Table{}
	c2.Append(infotable.Key{SNP: "X", Ref: "A", Alt: "G", Genotyped: "Imputed"}, 0.5, 0.5, 0.8)
	c2.Append(infotable.Key{SNP: "Y", Ref: "C", Alt: "T", Genotyped: "Genotyped"}, 0.1, 0.1, math.NaN())

	m, err := merge.Merge([]*infotable.Table{c1, c2})
	require.NoError(t, err)
	return m
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestWriteVariantsWeighted(t *testing.T) {
	m := fixture(t)
	stats, err := combine.Combine(m, combine.WeightedAverage, []int{100, 50})
	require.NoError(t, err)

	var buf bytes.Buffer
	w := Writer{NA: "NA", Precision: 6}
	require.NoError(t, w.WriteVariants(&buf, m, stats, []int{0, 1}))

	got := lines(buf.String())
	require.Len(t, got, 3)
	assert.Equal(t, "SNP\tREF(0)\tALT(1)\tGenotyped\t"+
		"ALT_Frq_group1\tMAF_group1\tRsq_group1\t"+
		"ALT_Frq_group2\tMAF_group2\tRsq_group2\t"+
		"ALT_Frq_combined\tMAF_combined\tRsq_combined", got[0])
	assert.Equal(t, "X\tA\tG\tImputed\t"+
		"0.250000\t0.250000\t0.900000\t"+
		"0.500000\t0.500000\t0.800000\t"+
		"0.333333\t0.333333\t0.866667", got[1])
	assert.Equal(t, "Y\tC\tT\tGenotyped\t"+
		"NA\tNA\tNA\t"+
		"0.100000\t0.100000\tNA\t"+
		"0.033333\t0.033333\tNA", got[2])
}

func TestWriteVariantsFirst(t *testing.T) {
	m := fixture(t)
	stats, err := combine.Combine(m, combine.First, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := Writer{NA: ".", Precision: 6}
	require.NoError(t, w.WriteVariants(&buf, m, stats, []int{1}))

	got := lines(buf.String())
	require.Len(t, got, 2)
	assert.True(t, strings.HasSuffix(got[0], "Rsq_group2\tRsq_combined"))
	assert.Equal(t, "Y\tC\tT\tGenotyped\t.\t.\t.\t0.100000\t0.100000\t.\t.", got[1])
}

func TestWriteVariantsHeaderOnly(t *testing.T) {
	m := fixture(t)
	stats, err := combine.Combine(m, combine.Mean, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Writer{NA: "NA", Precision: 6}.WriteVariants(&buf, m, stats, nil))
	assert.Len(t, lines(buf.String()), 1)
}

func TestWriteIndex(t *testing.T) {
	entries := []missingness.IndexEntry{
		{Key: infotable.Key{SNP: "X", Ref: "A", Alt: "G", Genotyped: "Imputed"}, Positions: []null.Int{null.IntFrom(0), null.IntFrom(12)}},
		{Key: infotable.Key{SNP: "Y", Ref: "C", Alt: "T", Genotyped: "Imputed"}, Positions: []null.Int{{}, null.IntFrom(13)}},
	}

	var buf bytes.Buffer
	require.NoError(t, Writer{NA: "NA", Precision: 6}.WriteIndex(&buf, entries, 2))

	assert.Equal(t, []string{
		"SNP\tREF(0)\tALT(1)\tGenotyped\tindex_group1\tindex_group2",
		"X\tA\tG\tImputed\t0\t12",
		"Y\tC\tT\tImputed\tNA\t13",
	}, lines(buf.String()))
}

func TestWriteIndexWrongWidth(t *testing.T) {
	entries := []missingness.IndexEntry{{Positions: []null.Int{null.IntFrom(0)}}}

	var buf bytes.Buffer
	assert.Error(t, Writer{NA: "NA"}.WriteIndex(&buf, entries, 2))
}

func TestWriteCohorts(t *testing.T) {
	w := Writer{NA: "NA"}
	cohorts := []CohortSummary{
		{Group: 1, InfoPath: "a.info.gz", GenotypePath: "a.dose.vcf.gz", NVariants: 10, NIndividuals: w.Individuals(100)},
		{Group: 2, InfoPath: "b.info.gz", GenotypePath: "b.dose.vcf.gz", NVariants: 7, NIndividuals: w.Individuals(-1)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCohorts(&buf, cohorts))

	assert.Equal(t, []string{
		"group\tinfo_path\tgenotype_path\tn_variants\tn_individuals",
		"1\ta.info.gz\ta.dose.vcf.gz\t10\t100",
		"2\tb.info.gz\tb.dose.vcf.gz\t7\tNA",
	}, lines(buf.String()))
}

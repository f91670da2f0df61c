// Package combine reduces the per-cohort statistics of each unified variant
// to one cross-cohort value.
package combine

import (
	"fmt"
	"math"
	"strings"

	"github.com/carbocation/infomerge/merge"
	"gonum.org/v1/gonum/floats"
)

// Mode selects how per-cohort statistics are reduced.
type Mode int

const (
	// First reports the first cohort's r2 verbatim.
	First Mode = iota
	// WeightedAverage weights each cohort by its number of individuals.
	WeightedAverage
	// Mean averages r2 over the cohorts that have it.
	Mean
)

var modeNames = map[Mode]string{
	First:           "first",
	WeightedAverage: "weighted_average",
	Mean:            "mean",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts a mode name in any case.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return First, fmt.Errorf("unknown combination mode %q (valid: first, weighted_average, mean)", s)
}

// UnmarshalText lets a Mode be decoded straight from a config file.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Stats holds one combined value per unified row. A nil column was not
// computed under the chosen mode. NaN means no cohort contributed.
type Stats struct {
	Mode    Mode
	AltFreq []float64
	MAF     []float64
	R2      []float64
}

// Combine computes the combined statistics for every row of t. sampleCounts
// (individuals per cohort, in cohort order) is required for WeightedAverage
// and ignored otherwise.
func Combine(t *merge.Table, mode Mode, sampleCounts []int) (*Stats, error) {
	if t.NCohorts() == 0 {
		return nil, merge.ErrNoCohorts
	}

	switch mode {
	case First:
		r2 := make([]float64, t.Len())
		copy(r2, t.Cohorts[0].R2)
		return &Stats{Mode: mode, R2: r2}, nil
	case Mean:
		return &Stats{Mode: mode, R2: meanR2(t)}, nil
	case WeightedAverage:
		return weighted(t, sampleCounts)
	}

	return nil, fmt.Errorf("unknown combination mode %v", mode)
}

func meanR2(t *merge.Table) []float64 {
	n := t.Len()
	sum := make([]float64, n)
	count := make([]float64, n)
	values := make([]float64, n)
	mask := make([]float64, n)

	for _, cols := range t.Cohorts {
		presence(values, mask, cols.R2)
		floats.Add(sum, values)
		floats.Add(count, mask)
	}

	return maskedDiv(sum, count)
}

func weighted(t *merge.Table, sampleCounts []int) (*Stats, error) {
	if len(sampleCounts) != t.NCohorts() {
		return nil, fmt.Errorf("weighted_average needs one sample count per cohort: have %d counts for %d cohorts", len(sampleCounts), t.NCohorts())
	}

	total := 0.0
	for i, c := range sampleCounts {
		if c < 0 {
			return nil, fmt.Errorf("group %d has a negative sample count (%d)", i+1, c)
		}
		total += float64(c)
	}
	if total == 0 {
		return nil, fmt.Errorf("weighted_average needs at least one individual across all cohorts")
	}

	n := t.Len()
	r2Sum := make([]float64, n)
	r2Weight := make([]float64, n)
	mafSum := make([]float64, n)
	altFreqSum := make([]float64, n)
	values := make([]float64, n)
	mask := make([]float64, n)

	for i, cols := range t.Cohorts {
		w := float64(sampleCounts[i])

		// r2 weights only count cohorts where r2 is present
		presence(values, mask, cols.R2)
		floats.AddScaled(r2Sum, w, values)
		floats.AddScaled(r2Weight, w, mask)

		// Missing frequencies add nothing to the numerator
		presence(values, mask, cols.MAF)
		floats.AddScaled(mafSum, w, values)

		presence(values, mask, cols.AltFreq)
		floats.AddScaled(altFreqSum, w, values)
	}

	// The frequency denominator is every individual, whether or not their
	// cohort has the variant.
	floats.Scale(1/total, mafSum)
	floats.Scale(1/total, altFreqSum)

	return &Stats{
		Mode:    WeightedAverage,
		AltFreq: altFreqSum,
		MAF:     mafSum,
		R2:      maskedDiv(r2Sum, r2Weight),
	}, nil
}

// presence fills values with src where src is a number and 0 elsewhere, and
// mask with 1 where src is a number and 0 elsewhere.
func presence(values, mask, src []float64) {
	for i, v := range src {
		if math.IsNaN(v) {
			values[i] = 0
			mask[i] = 0
			continue
		}
		values[i] = v
		mask[i] = 1
	}
}

// maskedDiv returns num/den, with NaN wherever den is zero.
func maskedDiv(num, den []float64) []float64 {
	out := make([]float64, len(num))
	floats.DivTo(out, num, den)

	nan := math.NaN()
	for i, d := range den {
		if d == 0 {
			out[i] = nan
		}
	}
	return out
}

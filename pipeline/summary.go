package pipeline

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// Summary condenses a run for logging.
type Summary struct {
	Total    int
	Kept     int
	Excluded int

	// Combined r2 over kept variants that have one
	R2N      int
	R2Mean   float64
	R2Median float64
	R2P05    float64
}

func (s Summary) String() string {
	if s.R2N == 0 {
		return fmt.Sprintf("%d variants: %d kept, %d excluded; no kept variant has a combined r2", s.Total, s.Kept, s.Excluded)
	}
	return fmt.Sprintf("%d variants: %d kept, %d excluded; combined r2 of kept variants: mean %.4f, median %.4f, 5th percentile %.4f (n=%d)",
		s.Total, s.Kept, s.Excluded, s.R2Mean, s.R2Median, s.R2P05, s.R2N)
}

// Summarize counts the classification and describes the distribution of the
// combined r2 among kept variants.
func Summarize(res *Result) Summary {
	s := Summary{
		Total:    res.Table.Len(),
		Kept:     len(res.Classification.Kept),
		Excluded: len(res.Classification.Excluded),
	}

	r2 := make(stats.Float64Data, 0, len(res.Classification.Kept))
	for _, row := range res.Classification.Kept {
		if v := res.Stats.R2[row]; !math.IsNaN(v) {
			r2 = append(r2, v)
		}
	}
	s.R2N = r2.Len()
	if s.R2N == 0 {
		return s
	}

	// These only fail on empty input
	s.R2Mean, _ = stats.Mean(r2)
	s.R2Median, _ = stats.Median(r2)
	s.R2P05, _ = stats.Percentile(r2, 5)

	return s
}

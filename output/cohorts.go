package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// CohortSummary describes one input group.
type CohortSummary struct {
	Group        int    `csv:"group"`
	InfoPath     string `csv:"info_path"`
	GenotypePath string `csv:"genotype_path"`
	NVariants    int    `csv:"n_variants"`
	NIndividuals string `csv:"n_individuals"`
}

// Individuals formats a sample count, using na when it was not measured
// (count < 0).
func (w Writer) Individuals(count int) string {
	if count < 0 {
		return w.NA
	}
	return strconv.Itoa(count)
}

// WriteCohorts writes one tab-delimited row per cohort.
func WriteCohorts(out io.Writer, cohorts []CohortSummary) error {
	cw := csv.NewWriter(out)
	cw.Comma = '\t'

	safe := gocsv.NewSafeCSVWriter(cw)
	if err := gocsv.MarshalCSV(&cohorts, safe); err != nil {
		return pfx.Err(err)
	}

	safe.Flush()
	if err := safe.Error(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

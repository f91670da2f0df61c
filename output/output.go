// Package output writes the kept, excluded and index tables.
package output

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/carbocation/infomerge/combine"
	"github.com/carbocation/infomerge/merge"
	"github.com/carbocation/infomerge/missingness"
	"github.com/carbocation/pfx"
)

// Column names of the identity fields, shared by every table we write.
var KeyHeader = []string{"SNP", "REF(0)", "ALT(1)", "Genotyped"}

// Writer formats numbers with a fixed number of decimals and writes NA for
// missing values.
type Writer struct {
	NA        string
	Precision int
}

func (w Writer) float(v float64) string {
	if math.IsNaN(v) {
		return w.NA
	}
	return strconv.FormatFloat(v, 'f', w.Precision, 64)
}

func newTSV(out io.Writer) (*csv.Writer, *bufio.Writer) {
	buf := bufio.NewWriterSize(out, 64*1024)
	cw := csv.NewWriter(buf)
	cw.Comma = '\t'
	return cw, buf
}

func flush(cw *csv.Writer, buf *bufio.Writer) error {
	cw.Flush()
	if err := cw.Error(); err != nil {
		return pfx.Err(err)
	}
	if err := buf.Flush(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// VariantHeader lists the columns of a kept or excluded table for n cohorts.
// Combined columns appear only when stats computed them.
func VariantHeader(n int, stats *combine.Stats) []string {
	header := append([]string{}, KeyHeader...)
	for g := 1; g <= n; g++ {
		header = append(header,
			fmt.Sprintf("ALT_Frq_group%d", g),
			fmt.Sprintf("MAF_group%d", g),
			fmt.Sprintf("Rsq_group%d", g),
		)
	}

	if stats.AltFreq != nil {
		header = append(header, "ALT_Frq_combined")
	}
	if stats.MAF != nil {
		header = append(header, "MAF_combined")
	}
	if stats.R2 != nil {
		header = append(header, "Rsq_combined")
	}

	return header
}

// WriteVariants writes the given rows of t, in the order given, with their
// per-cohort and combined statistics. Positions are not written.
func (w Writer) WriteVariants(out io.Writer, t *merge.Table, stats *combine.Stats, rows []int) error {
	cw, buf := newTSV(out)

	header := VariantHeader(t.NCohorts(), stats)
	if err := cw.Write(header); err != nil {
		return pfx.Err(err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		k := t.Keys[row]
		record[0], record[1], record[2], record[3] = k.SNP, k.Ref, k.Alt, k.Genotyped

		col := len(KeyHeader)
		for _, cols := range t.Cohorts {
			record[col] = w.float(cols.AltFreq[row])
			record[col+1] = w.float(cols.MAF[row])
			record[col+2] = w.float(cols.R2[row])
			col += 3
		}

		for _, combined := range [][]float64{stats.AltFreq, stats.MAF, stats.R2} {
			if combined == nil {
				continue
			}
			record[col] = w.float(combined[row])
			col++
		}

		if err := cw.Write(record); err != nil {
			return pfx.Err(err)
		}
	}

	return flush(cw, buf)
}

// WriteIndex writes each entry's identity and its 0-based row in each of the n
// cohort tables.
func (w Writer) WriteIndex(out io.Writer, entries []missingness.IndexEntry, n int) error {
	cw, buf := newTSV(out)

	header := append([]string{}, KeyHeader...)
	for g := 1; g <= n; g++ {
		header = append(header, fmt.Sprintf("index_group%d", g))
	}
	if err := cw.Write(header); err != nil {
		return pfx.Err(err)
	}

	record := make([]string, len(header))
	for _, entry := range entries {
		if len(entry.Positions) != n {
			return fmt.Errorf("%s has %d positions, expected %d", entry.Key, len(entry.Positions), n)
		}

		record[0], record[1], record[2], record[3] = entry.SNP, entry.Ref, entry.Alt, entry.Genotyped
		for c, pos := range entry.Positions {
			if pos.Valid {
				record[len(KeyHeader)+c] = strconv.FormatInt(pos.Int64, 10)
			} else {
				record[len(KeyHeader)+c] = w.NA
			}
		}

		if err := cw.Write(record); err != nil {
			return pfx.Err(err)
		}
	}

	return flush(cw, buf)
}

package infotable

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/infomerge"
	"github.com/carbocation/pfx"
	"gopkg.in/guregu/null.v3"
)

// ErrDuplicateVariant is returned when one cohort lists the same variant more
// than once. How such rows would merge is undefined, so we refuse them.
var ErrDuplicateVariant = errors.New("duplicate variant")

// Record is one row of a cohort's quality table.
type Record struct {
	Key
	AltFreq  null.Float
	MAF      null.Float
	R2       null.Float
	Position int // 0-based data row within the cohort's table
}

// Table holds one cohort's quality table column by column. Missing or
// unparsable numbers are NaN. Row i has original position i.
type Table struct {
	Path    string
	Keys    []Key
	AltFreq []float64
	MAF     []float64
	R2      []float64
}

func (t *Table) Len() int {
	return len(t.Keys)
}

// Record returns the row view of row i.
func (t *Table) Record(i int) Record {
	return Record{
		Key:      t.Keys[i],
		AltFreq:  nullable(t.AltFreq[i]),
		MAF:      nullable(t.MAF[i]),
		R2:       nullable(t.R2[i]),
		Position: i,
	}
}

// Append adds a row at the next position.
func (t *Table) Append(k Key, altFreq, maf, r2 float64) {
	t.Keys = append(t.Keys, k)
	t.AltFreq = append(t.AltFreq, altFreq)
	t.MAF = append(t.MAF, maf)
	t.R2 = append(t.R2, r2)
}

func nullable(v float64) null.Float {
	return null.NewFloat(v, !math.IsNaN(v))
}

// ParseFloat coerces a text field to a number. Anything that is not a number
// becomes NaN.
func ParseFloat(field string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Load reads the cohort table at path, which may be compressed and may live
// in Google Storage.
func Load(ctx context.Context, path string, layout Layout, client *storage.Client) (*Table, error) {
	rc, err := infomerge.Open(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	t, err := Read(rc, layout)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}
	t.Path = path

	return t, nil
}

// Read parses a quality table with a header line. Every variant must be
// unique within the table.
func Read(r io.Reader, layout Layout) (*Table, error) {
	br := bufio.NewReaderSize(r, infomerge.BufferSize)

	delim := layout.Delimiter
	if delim == 0 {
		head, _ := br.Peek(infomerge.BufferSize)
		delim = infomerge.DetermineDelimiter(bytes.NewReader(head), '\t')
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("no header line")
	} else if err != nil {
		return nil, pfx.Err(err)
	}

	cols, err := mapHeader(header, layout)
	if err != nil {
		return nil, err
	}

	t := &Table{}
	seen := make(map[Key]int)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		if len(row) <= cols.max {
			return nil, fmt.Errorf("line %d: expected at least %d columns, found %d", line, cols.max+1, len(row))
		}

		k := Key{
			SNP:       row[cols.snp],
			Ref:       row[cols.ref],
			Alt:       row[cols.alt],
			Genotyped: row[cols.genotyped],
		}
		if prior, exists := seen[k]; exists {
			return nil, fmt.Errorf("%w: %s at rows %d and %d", ErrDuplicateVariant, k, prior, t.Len())
		}
		seen[k] = t.Len()

		t.Append(k, ParseFloat(row[cols.altFreq]), ParseFloat(row[cols.maf]), ParseFloat(row[cols.r2]))
	}

	return t, nil
}

type columns struct {
	snp, ref, alt, genotyped, altFreq, maf, r2 int
	max                                        int
}

func mapHeader(header []string, layout Layout) (columns, error) {
	lookup := make(map[string]int, len(header))
	for i, name := range header {
		lookup[strings.TrimSpace(name)] = i
	}

	idx := make([]int, 0, 7)
	for _, name := range layout.required() {
		i, exists := lookup[name]
		if !exists {
			return columns{}, fmt.Errorf("header is missing column %q (found %v)", name, header)
		}
		idx = append(idx, i)
	}

	c := columns{
		snp:       idx[0],
		ref:       idx[1],
		alt:       idx[2],
		genotyped: idx[3],
		altFreq:   idx[4],
		maf:       idx[5],
		r2:        idx[6],
	}
	for _, i := range idx {
		if i > c.max {
			c.max = i
		}
	}

	return c, nil
}

// Package pipeline runs the whole consolidation: load every cohort's quality
// table, merge, order, combine, classify and write.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"cloud.google.com/go/storage"
	"github.com/carbocation/infomerge/combine"
	"github.com/carbocation/infomerge/genotype"
	"github.com/carbocation/infomerge/indexdb"
	"github.com/carbocation/infomerge/infotable"
	"github.com/carbocation/infomerge/merge"
	"github.com/carbocation/infomerge/missingness"
	"github.com/carbocation/infomerge/output"
	"github.com/carbocation/pfx"
)

// Result is what a run produced, kept in memory for callers that want more
// than the files.
type Result struct {
	Table          *merge.Table
	Stats          *combine.Stats
	Classification *missingness.Result
	Index          []missingness.IndexEntry

	// SampleCounts is populated in weighted_average mode only.
	SampleCounts []int

	Summary Summary
}

// Cohort pairs one input's genotype file with its quality table.
type Cohort struct {
	GenotypePath string
	InfoPath     string
}

func (c *Config) Cohorts() []Cohort {
	out := make([]Cohort, 0, len(c.Inputs))
	for _, in := range c.Inputs {
		out = append(out, Cohort{GenotypePath: in, InfoPath: genotype.InfoPath(in)})
	}
	return out
}

// Run executes the pipeline described by cfg. client may be nil when no input
// lives in Google Storage.
func Run(ctx context.Context, cfg *Config, client *storage.Client) (*Result, error) {
	if cfg.IndexDB != "" {
		if _, err := os.Stat(cfg.IndexDB); err == nil {
			return nil, fmt.Errorf("index database %s already exists; refusing to overwrite it", cfg.IndexDB)
		}
	}

	cohorts := cfg.Cohorts()

	log.Println("Below .info.gz files will be used:")
	for _, c := range cohorts {
		log.Println("\t" + c.InfoPath)
	}

	tables := make([]*infotable.Table, 0, len(cohorts))
	for _, c := range cohorts {
		tab, err := infotable.Load(ctx, c.InfoPath, cfg.Layout, client)
		if err != nil {
			return nil, pfx.Err(err)
		}
		tables = append(tables, tab)
	}

	var sampleCounts []int
	if cfg.Mode == combine.WeightedAverage {
		sampleCounts = make([]int, 0, len(cohorts))
		for _, c := range cohorts {
			n, err := genotype.CountSamples(ctx, c.GenotypePath, client)
			if err != nil {
				return nil, pfx.Err(err)
			}
			sampleCounts = append(sampleCounts, n)
		}
	}

	unified, err := merge.Merge(tables)
	if err != nil {
		return nil, pfx.Err(err)
	}
	log.Println("Total number of variants from all input files:", unified.Len())

	unified.SortByOriginalOrder()

	stats, err := combine.Combine(unified, cfg.Mode, sampleCounts)
	if err != nil {
		return nil, pfx.Err(err)
	}

	class, err := missingness.Classify(unified, missingness.Policy{
		MissingAllowed: cfg.Missing,
		R2Threshold:    cfg.R2Threshold,
	})
	if err != nil {
		return nil, pfx.Err(err)
	}

	res := &Result{
		Table:          unified,
		Stats:          stats,
		Classification: class,
		Index:          class.Index(unified),
		SampleCounts:   sampleCounts,
	}
	res.Summary = Summarize(res)

	if err := write(cfg, cohorts, tables, res); err != nil {
		return nil, err
	}

	log.Println("Number of saved variants:", len(class.Kept))
	log.Println("Number of excluded variants:", len(class.Excluded))
	log.Println("Numbers of individuals in each input file:", sampleCounts)
	log.Println(res.Summary)

	return res, nil
}

func write(cfg *Config, cohorts []Cohort, tables []*infotable.Table, res *Result) error {
	w := output.Writer{NA: cfg.NARep, Precision: Precision}
	n := res.Table.NCohorts()

	if err := writeFile(cfg.KeptPath(), func(f io.Writer) error {
		return w.WriteVariants(f, res.Table, res.Stats, res.Classification.Kept)
	}); err != nil {
		return err
	}

	if err := writeFile(cfg.ExcludedPath(), func(f io.Writer) error {
		return w.WriteVariants(f, res.Table, res.Stats, res.Classification.Excluded)
	}); err != nil {
		return err
	}

	if err := writeFile(cfg.IndexPath(), func(f io.Writer) error {
		return w.WriteIndex(f, res.Index, n)
	}); err != nil {
		return err
	}

	summaries := make([]output.CohortSummary, 0, len(cohorts))
	for i, c := range cohorts {
		count := -1
		if res.SampleCounts != nil {
			count = res.SampleCounts[i]
		}
		summaries = append(summaries, output.CohortSummary{
			Group:        i + 1,
			InfoPath:     c.InfoPath,
			GenotypePath: c.GenotypePath,
			NVariants:    tables[i].Len(),
			NIndividuals: w.Individuals(count),
		})
	}
	if err := writeFile(cfg.CohortsPath(), func(f io.Writer) error {
		return output.WriteCohorts(f, summaries)
	}); err != nil {
		return err
	}

	if cfg.IndexDB == "" {
		return nil
	}

	db, err := indexdb.Create(cfg.IndexDB)
	if err != nil {
		return pfx.Err(err)
	}
	defer db.Close()

	dbCohorts := make([]indexdb.Cohort, 0, len(cohorts))
	for i, c := range cohorts {
		dbCohorts = append(dbCohorts, indexdb.Cohort{GroupID: i + 1, InfoPath: c.InfoPath})
	}

	if err := db.Insert(dbCohorts, res.Index); err != nil {
		return pfx.Err(err)
	}
	log.Println("Wrote position index database", cfg.IndexDB)

	return nil
}

func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	if err := fill(f); err != nil {
		f.Close()
		return pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	if err := f.Close(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

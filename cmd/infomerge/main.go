// infomerge consolidates per-cohort Minimac .info tables into one table of
// variants with combined imputation quality, then splits the variants into
// kept and excluded sets by missingness.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/infomerge/combine"
	"github.com/carbocation/infomerge/compileinfo"
	"github.com/carbocation/infomerge/infotable"
	"github.com/carbocation/infomerge/pipeline"
)

func main() {
	fmt.Fprintf(os.Stderr, "%q\n", os.Args)

	var input, output, r2Output, naRep, layout, delimiter, indexDB, configPath string
	var missing int
	var r2Threshold float64
	var version bool

	defaults := pipeline.DefaultOptions()

	flag.StringVar(&configPath, "config", "", "(Optional) TOML file with any of the options below. Command line flags take precedence.")
	flag.StringVar(&input, "input", "", "Comma-separated list of genotype (dose) files, one per group. The .info.gz file is expected next to each one.")
	flag.StringVar(&output, "output", "", "Output prefix. Writes <prefix>.variants_kept.txt, .variants_excluded.txt, .index.txt and .cohorts.txt")
	flag.IntVar(&missing, "missing", 0, "Number of groups in which a variant may be absent and still be kept. 0 requires the variant in every group.")
	flag.Float64Var(&r2Threshold, "r2_threshold", 0, "Minimum r2 required in every group. Only applied when -missing is 0.")
	flag.StringVar(&r2Output, "r2_output", defaults.R2Output, fmt.Sprintf("How to combine statistics across groups. One of: %s, %s, %s", combine.First, combine.WeightedAverage, combine.Mean))
	flag.StringVar(&naRep, "na_rep", defaults.NARep, "Representation of missing values in the output")
	flag.StringVar(&layout, "layout", defaults.Layout, fmt.Sprintf("Column layout of the .info files. One of: %s", infotable.LayoutNames()))
	flag.StringVar(&delimiter, "delimiter", defaults.Delimiter, fmt.Sprintf("Field separator of the .info files. One of: %s", infotable.DelimiterNames()))
	flag.StringVar(&indexDB, "index_db", "", "(Optional) SQLite file to receive the variant position index. Must not exist yet.")
	flag.BoolVar(&version, "version", false, "Print build information and exit")
	flag.Parse()

	if version {
		fmt.Println(compileinfo.Get())
		return
	}
	compileinfo.Log()

	opts := defaults
	if configPath != "" {
		var err error
		if opts, err = pipeline.LoadOptions(configPath, defaults); err != nil {
			log.Fatalln(err)
		}
	}

	// Only flags the user actually set override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			opts.Input = splitList(input)
		case "output":
			opts.Output = output
		case "missing":
			opts.Missing = missing
		case "r2_threshold":
			opts.R2Threshold = r2Threshold
		case "r2_output":
			opts.R2Output = r2Output
		case "na_rep":
			opts.NARep = naRep
		case "layout":
			opts.Layout = layout
		case "delimiter":
			opts.Delimiter = delimiter
		case "index_db":
			opts.IndexDB = indexDB
		}
	})

	cfg, err := pipeline.NewConfig(opts)
	if err != nil {
		flag.PrintDefaults()
		log.Fatalln(err)
	}

	ctx := context.Background()

	var client *storage.Client
	if cfg.NeedsGoogleStorage() {
		client, err = storage.NewClient(ctx)
		if err != nil {
			log.Fatalln(err)
		}
		defer client.Close()
	}

	if _, err := pipeline.Run(ctx, cfg, client); err != nil {
		log.Fatalln(err)
	}

	log.Println("Done")
}

func splitList(list string) []string {
	var out []string
	for _, v := range strings.Split(list, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

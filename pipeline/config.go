package pipeline

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/carbocation/infomerge"
	"github.com/carbocation/infomerge/combine"
	"github.com/carbocation/infomerge/infotable"
	"github.com/carbocation/pfx"
)

// Precision is the number of decimals written for every statistic.
const Precision = 6

// Options is the mutable, file- or flag-shaped form of the configuration.
// Turn it into a Config with NewConfig.
type Options struct {
	Input       []string `toml:"input"`
	Output      string   `toml:"output"`
	Missing     int      `toml:"missing"`
	R2Threshold float64  `toml:"r2_threshold"`
	R2Output    string   `toml:"r2_output"`
	NARep       string   `toml:"na_rep"`
	Layout      string   `toml:"layout"`
	Delimiter   string   `toml:"delimiter"`
	IndexDB     string   `toml:"index_db"`
}

// DefaultOptions are used for anything neither the config file nor the command
// line sets.
func DefaultOptions() Options {
	return Options{
		R2Output:  combine.First.String(),
		NARep:     "NA",
		Layout:    infotable.DefaultLayout,
		Delimiter: infotable.DefaultDelimiter,
	}
}

// LoadOptions overlays the TOML file at path onto defaults.
func LoadOptions(path string, defaults Options) (Options, error) {
	opts := defaults
	if _, err := toml.DecodeFile(infomerge.ExpandHome(path), &opts); err != nil {
		return defaults, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}
	return opts, nil
}

// Config is the validated run configuration. It is built once and not
// modified afterwards.
type Config struct {
	Inputs      []string // genotype (dose) files, in group order
	Output      string
	Missing     int
	R2Threshold float64
	Mode        combine.Mode
	NARep       string
	Layout      infotable.Layout
	IndexDB     string
}

// NewConfig validates opts and resolves names (mode, layout, delimiter) to
// their values.
func NewConfig(opts Options) (*Config, error) {
	if len(opts.Input) < 1 {
		return nil, fmt.Errorf("at least one input file is required")
	}
	if opts.Output == "" {
		return nil, fmt.Errorf("an output prefix is required")
	}
	if opts.Missing < 0 || opts.Missing > len(opts.Input) {
		return nil, fmt.Errorf("missing must be between 0 and the number of inputs (%d), got %d", len(opts.Input), opts.Missing)
	}
	if opts.R2Threshold < 0 || opts.R2Threshold > 1 {
		return nil, fmt.Errorf("r2_threshold must be between 0 and 1, got %g", opts.R2Threshold)
	}

	mode, err := combine.ParseMode(opts.R2Output)
	if err != nil {
		return nil, err
	}

	layout, exists := infotable.Layouts[opts.Layout]
	if !exists {
		return nil, fmt.Errorf("layout %s is not found. Valid layout names include: %s", opts.Layout, infotable.LayoutNames())
	}
	layout, err = layout.WithDelimiter(opts.Delimiter)
	if err != nil {
		return nil, err
	}

	inputs := make([]string, 0, len(opts.Input))
	for _, in := range opts.Input {
		inputs = append(inputs, infomerge.ExpandHome(in))
	}

	return &Config{
		Inputs:      inputs,
		Output:      infomerge.ExpandHome(opts.Output),
		Missing:     opts.Missing,
		R2Threshold: opts.R2Threshold,
		Mode:        mode,
		NARep:       opts.NARep,
		Layout:      layout,
		IndexDB:     infomerge.ExpandHome(opts.IndexDB),
	}, nil
}

// NeedsGoogleStorage reports whether any input lives in Google Storage.
func (c *Config) NeedsGoogleStorage() bool {
	for _, in := range c.Inputs {
		if infomerge.IsGoogleStoragePath(in) {
			return true
		}
	}
	return false
}

func (c *Config) KeptPath() string     { return c.Output + ".variants_kept.txt" }
func (c *Config) ExcludedPath() string { return c.Output + ".variants_excluded.txt" }
func (c *Config) IndexPath() string    { return c.Output + ".index.txt" }
func (c *Config) CohortsPath() string  { return c.Output + ".cohorts.txt" }

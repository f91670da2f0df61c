package infotable

import (
	"fmt"
	"sort"
	"strings"
)

// Layout maps the fields we need to the header names used by a given
// imputation tool.
type Layout struct {
	Delimiter    rune // 0 means sniff it from the file
	ColSNP       string
	ColRef       string
	ColAlt       string
	ColGenotyped string
	ColAltFreq   string
	ColMAF       string
	ColR2        string
}

// DefaultLayout is the layout written by current Minimac releases.
const DefaultLayout = "MINIMAC4"

// DefaultDelimiter is the separator Minimac writes.
const DefaultDelimiter = "tab"

// Delimiters maps separator names to the rune placed in Layout.Delimiter.
// "auto" sniffs each file.
var Delimiters = map[string]rune{
	"tab":   '\t',
	"comma": ',',
	"space": ' ',
	"auto":  0,
}

var Layouts = map[string]Layout{
	"MINIMAC4": {
		Delimiter:    '\t',
		ColSNP:       "SNP",
		ColRef:       "REF(0)",
		ColAlt:       "ALT(1)",
		ColGenotyped: "Genotyped",
		ColAltFreq:   "ALT_Frq",
		ColMAF:       "MAF",
		ColR2:        "Rsq",
	},
	"MINIMAC3": {
		Delimiter:    '\t',
		ColSNP:       "SNP",
		ColRef:       "Al1",
		ColAlt:       "Al2",
		ColGenotyped: "Genotyped",
		ColAltFreq:   "Freq1",
		ColMAF:       "MAF",
		ColR2:        "Rsq",
	},
}

// LayoutNames lists the registered layouts for error and usage text.
func LayoutNames() string {
	names := make([]string, 0, len(Layouts))
	for m := range Layouts {
		names = append(names, m)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

func DelimiterNames() string {
	names := make([]string, 0, len(Delimiters))
	for m := range Delimiters {
		names = append(names, m)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

// WithDelimiter returns a copy of l that splits fields on the named
// separator.
func (l Layout) WithDelimiter(name string) (Layout, error) {
	delim, exists := Delimiters[name]
	if !exists {
		return l, fmt.Errorf("delimiter %s is not found. Valid delimiters include: %s", name, DelimiterNames())
	}
	l.Delimiter = delim

	return l, nil
}

func (l Layout) required() []string {
	return []string{l.ColSNP, l.ColRef, l.ColAlt, l.ColGenotyped, l.ColAltFreq, l.ColMAF, l.ColR2}
}

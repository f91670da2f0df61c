// Package genotype reads just enough of a cohort's imputed genotype (dose VCF)
// file to learn how many individuals it describes.
package genotype

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/infomerge"
	"github.com/carbocation/pfx"
)

// FormatMarker is the last fixed column of a VCF header line. Every token
// after it names a sample.
const FormatMarker = "FORMAT"

// InfoPath returns the quality table that accompanies a dose file:
// "chr21.dose.vcf.gz" pairs with "chr21.info.gz".
func InfoPath(dosePath string) string {
	return strings.SplitN(dosePath, ".dose", 2)[0] + ".info.gz"
}

// CountSamples opens the genotype file at path and counts the sample columns
// on its header line.
func CountSamples(ctx context.Context, path string, client *storage.Client) (int, error) {
	rc, err := infomerge.Open(ctx, path, client)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	n, err := ReadSampleCount(rc)
	if err != nil {
		return 0, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return n, nil
}

// ReadSampleCount skips "##" meta lines and counts the tokens that follow
// FORMAT on the first remaining line.
func ReadSampleCount(r io.Reader) (int, error) {
	br := bufio.NewReaderSize(r, infomerge.BufferSize)

	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return 0, err
		}

		if strings.HasPrefix(line, "##") {
			if err == io.EOF {
				break
			}
			continue
		}

		tokens := strings.Fields(line)
		for i, token := range tokens {
			if token == FormatMarker {
				return len(tokens) - (i + 1), nil
			}
		}

		return 0, fmt.Errorf("header line has no %s column", FormatMarker)
	}

	return 0, fmt.Errorf("no header line found")
}

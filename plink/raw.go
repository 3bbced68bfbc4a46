package plink

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/carbocation/pfx"
	"gopkg.in/guregu/null.v3"
)

// DefaultPhenotype names the single phenotype column embedded in a PLINK
// additive-recoded dosage file. It is used as the outcome when no separate
// phenotype file is supplied.
const DefaultPhenotype = "PHENOTYPE"

// labelPrefix is prepended to variant column names that begin with a digit,
// so that downstream tools treating the name as an identifier don't choke.
// SplitSNPName strips it again.
const labelPrefix = 'X'

// rawLeaders are the mandatory leading columns of a dosage file produced by
// `plink --recode A` (or `--recode AD`).
var rawLeaders = []string{"FID", "IID", "PAT", "MAT", "SEX", "PHENOTYPE"}

// RawTable parses a PLINK recode-A dosage file: single-space delimited, with
// the six standard leading columns followed by one dosage column per variant
// (two per variant under additive+dominant coding). The parental and sex
// columns are dropped; the returned table holds the embedded phenotype
// column and the variant columns, keyed by FID_IID. The variant names are
// returned in file order.
func RawTable(path string) (*Table, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, pfx.Err(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ' '

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: reading header: %w", path, err)
	}
	if len(header) < len(rawLeaders)+1 {
		return nil, nil, fmt.Errorf("%s: genotype file has %d columns; expected the %d PLINK leading columns plus at least one variant column", path, len(header), len(rawLeaders))
	}
	for i, want := range rawLeaders {
		if header[i] != want {
			return nil, nil, fmt.Errorf("%s: malformed header: column %d is %q, expected %q", path, i+1, header[i], want)
		}
	}

	snps := make([]string, 0, len(header)-len(rawLeaders))
	for _, name := range header[len(rawLeaders):] {
		snps = append(snps, prefixLabel(name))
	}

	table, err := NewTable(append([]string{DefaultPhenotype}, snps...))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}

		cells := make([]null.Float, 0, len(record)-len(rawLeaders)+1)
		for i, raw := range record[len(rawLeaders)-1:] {
			v, err := parseCell(raw)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: line %d, column %q: %w", path, line, table.Columns[i].Name, err)
			}
			cells = append(cells, v)
		}

		if err := table.AppendRow(SampleID(record[0], record[1]), cells); err != nil {
			return nil, nil, fmt.Errorf("%s: line %d: %w", path, line, err)
		}
	}

	return table, snps, nil
}

// SampleID builds the composite key that joins a sample across the
// genotype, phenotype, and covariate tables.
func SampleID(fid, iid string) string {
	return fid + "_" + iid
}

func prefixLabel(name string) string {
	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		return string(labelPrefix) + name
	}

	return name
}

// parseCell converts one text cell to a nullable float. Blank and NA cells
// are missing; anything else must parse as a number.
func parseCell(raw string) (null.Float, error) {
	if raw == "" || raw == "NA" || raw == "nan" || raw == "NaN" {
		return null.FloatFromPtr(nil), nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return null.FloatFromPtr(nil), fmt.Errorf("cell %q is not numeric", raw)
	}

	return null.FloatFrom(v), nil
}

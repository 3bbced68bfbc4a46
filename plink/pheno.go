package plink

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/carbocation/pfx"
	"gopkg.in/guregu/null.v3"
)

// phenoLeaders are the mandatory leading columns of a phenotype or
// covariate file.
var phenoLeaders = []string{"FID", "IID"}

// PhenoTable parses a phenotype or covariate file: whitespace-delimited
// (spaces or tabs, runs collapsed), header `FID IID <data columns...>`,
// keyed by FID_IID. Covariate files share this shape, so this loader serves
// both.
func PhenoTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, fmt.Errorf("%s: empty file", path)
	}

	header := strings.Fields(scanner.Text())
	if len(header) < len(phenoLeaders)+1 {
		return nil, fmt.Errorf("%s: header has %d columns; expected FID, IID, and at least one data column", path, len(header))
	}
	for i, want := range phenoLeaders {
		if header[i] != want {
			return nil, fmt.Errorf("%s: malformed header: column %d is %q, expected %q", path, i+1, header[i], want)
		}
	}

	table, err := NewTable(header[len(phenoLeaders):])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for line := 2; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != len(header) {
			return nil, fmt.Errorf("%s: line %d has %d columns; the header has %d", path, line, len(fields), len(header))
		}

		cells := make([]null.Float, 0, len(fields)-len(phenoLeaders))
		for i, raw := range fields[len(phenoLeaders):] {
			v, err := parseCell(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: line %d, column %q: %w", path, line, table.Columns[i].Name, err)
			}
			cells = append(cells, v)
		}

		if err := table.AppendRow(SampleID(fields[0], fields[1]), cells); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return table, nil
}

package scan

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
	"github.com/carlsonlab/ordscan/plink"
)

// ModelAdditive and ModelDominant label the genetic model a decomposed
// result row belongs to.
const (
	ModelAdditive = "Additive"
	ModelDominant = "Dominant"
)

// SplitResult is a Result whose encoded SNP label has been decomposed into
// a bare variant identifier, a counted allele, and (for additive+dominant
// scans) a genetic-model tag.
type SplitResult struct {
	Phenotype string
	SNP       string
	A1        string
	Model     string
	BETA      Stat
	SE        Stat
	Tvalue    Stat
	P         Stat
	OR        Stat
	L95       Stat
	U95       Stat
}

// Decompose splits every result row's variant label. If no row carries the
// heterozygote tag the scan was additive: every row keeps its own allele
// and the model column is dropped by the writer. Otherwise the scan was
// additive+dominant: a HET row takes its allele from the paired additive
// row of the same variant and phenotype, and every row is labeled
// Additive or Dominant. The returned flag reports which case applied.
func Decompose(results []Result) ([]SplitResult, bool, error) {
	names := make([]plink.SNPName, len(results))
	hasDominant := false
	for i, r := range results {
		name, err := plink.SplitSNPName(r.SNP)
		if err != nil {
			return nil, false, err
		}
		names[i] = name
		if name.Dominant() {
			hasDominant = true
		}
	}

	// Allele lookup for HET rows, from their additive partners.
	additiveAllele := make(map[string]string)
	if hasDominant {
		for i, r := range results {
			if !names[i].Dominant() {
				additiveAllele[r.Phenotype+"\x00"+names[i].SNP] = names[i].Tag
			}
		}
	}

	out := make([]SplitResult, 0, len(results))
	for i, r := range results {
		s := SplitResult{
			Phenotype: r.Phenotype,
			SNP:       names[i].SNP,
			A1:        names[i].Tag,
			BETA:      r.BETA,
			SE:        r.SE,
			Tvalue:    r.Tvalue,
			P:         r.P,
			OR:        r.OR,
			L95:       r.L95,
			U95:       r.U95,
		}

		if hasDominant {
			s.Model = ModelAdditive
			if names[i].Dominant() {
				s.Model = ModelDominant
				allele, ok := additiveAllele[r.Phenotype+"\x00"+names[i].SNP]
				if !ok {
					return nil, false, fmt.Errorf("scan: heterozygote term %q has no additive partner row", r.SNP)
				}
				s.A1 = allele
			}
		}

		out = append(out, s)
	}

	return out, hasDominant, nil
}

// WriteDecomposed emits the decomposed result table, tab-delimited. The
// Model column appears only for additive+dominant results.
func WriteDecomposed(w io.Writer, results []SplitResult, hasDominant bool) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'

	header := []string{"Phenotype", "SNP", "A1", "BETA", "SE", "Tvalue", "P", "OR", "L95", "U95"}
	if hasDominant {
		header = append(header, "Model")
	}
	if err := writer.Write(header); err != nil {
		return pfx.Err(err)
	}

	for _, r := range results {
		cells := []string{r.Phenotype, r.SNP, r.A1}
		for _, s := range []Stat{r.BETA, r.SE, r.Tvalue, r.P, r.OR, r.L95, r.U95} {
			cell, err := s.MarshalCSV()
			if err != nil {
				return pfx.Err(err)
			}
			cells = append(cells, cell)
		}
		if hasDominant {
			cells = append(cells, r.Model)
		}

		if err := writer.Write(cells); err != nil {
			return pfx.Err(err)
		}
	}
	writer.Flush()

	return pfx.Err(writer.Error())
}

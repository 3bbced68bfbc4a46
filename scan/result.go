package scan

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// Stat is one numeric result cell. Failed fits carry NaN, which renders as
// NA so that a scan of thousands of variants stays greppable.
type Stat float64

func (s Stat) MarshalCSV() (string, error) {
	if math.IsNaN(float64(s)) {
		return "NA", nil
	}

	return strconv.FormatFloat(float64(s), 'g', 6, 64), nil
}

func (s *Stat) UnmarshalCSV(cell string) error {
	if cell == "" || cell == "NA" {
		*s = Stat(math.NaN())
		return nil
	}

	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return err
	}
	*s = Stat(v)

	return nil
}

// Result is one (phenotype, SNP) regression outcome. All statistics
// describe the SNP dosage term, never a covariate.
type Result struct {
	Phenotype string `csv:"Phenotype"`
	SNP       string `csv:"SNP"`
	BETA      Stat   `csv:"BETA"`
	SE        Stat   `csv:"SE"`
	Tvalue    Stat   `csv:"Tvalue"`
	P         Stat   `csv:"P"`
	OR        Stat   `csv:"OR"`
	L95       Stat   `csv:"L95"`
	U95       Stat   `csv:"U95"`

	// Err records why a fit produced no statistics. Failed fits are part
	// of the output, not fatal to the batch.
	Err error `csv:"-"`
}

func failedResult(pheno, snp string, err error) Result {
	nan := Stat(math.NaN())

	return Result{
		Phenotype: pheno,
		SNP:       snp,
		BETA:      nan,
		SE:        nan,
		Tvalue:    nan,
		P:         nan,
		OR:        nan,
		L95:       nan,
		U95:       nan,
		Err:       err,
	}
}

// WriteResults emits the combined result table, tab-delimited with a
// header row.
func WriteResults(w io.Writer, results []Result) error {
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		writer := csv.NewWriter(out)
		writer.Comma = '\t'

		return gocsv.NewSafeCSVWriter(writer)
	})

	if err := gocsv.Marshal(&results, w); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// ReadResults loads a previously written result table with the given
// delimiter, so that SNP-label decomposition can run as a standalone step
// over an existing file.
func ReadResults(r io.Reader, delimiter rune) ([]Result, error) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		reader := csv.NewReader(in)
		reader.Comma = delimiter

		return reader
	})

	var results []Result
	if err := gocsv.Unmarshal(r, &results); err != nil {
		return nil, pfx.Err(err)
	}

	return results, nil
}

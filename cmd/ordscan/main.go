// ordscan runs batch proportional-odds ordinal logistic regression of one
// or more ordinal phenotypes on every variant in a PLINK recode-A dosage
// file, optionally adjusting for covariates, and reports per-variant
// effect sizes, Wald tests, and odds ratios.
package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/carlsonlab/ordscan"
	_ "github.com/carlsonlab/ordscan/compileinfoprint"
	"github.com/carlsonlab/ordscan/scan"
)

var (
	BufferSize = 4096
	STDOUT     = bufio.NewWriterSize(os.Stdout, BufferSize)
)

func main() {
	defer STDOUT.Flush()

	var (
		genoPath    string
		phenoPath   string
		covarPath   string
		samePheno   bool
		phenoNames  string
		allPhenos   bool
		covarNames  string
		allCovars   bool
		outPath     string
		split       bool
		workers     int
		resultsPath string
	)
	flag.StringVar(&genoPath, "geno", "", "Path to the PLINK recode-A (or recode-AD) dosage file")
	flag.StringVar(&phenoPath, "pheno", "", "Optional: path to a phenotype file (FID IID <phenotypes...>); without it, the dosage file's embedded PHENOTYPE column is the outcome")
	flag.StringVar(&covarPath, "covar", "", "Optional: path to a covariate file (FID IID <covariates...>)")
	flag.BoolVar(&samePheno, "same-pheno-covar", false, "Draw covariate columns from the phenotype file instead of a separate covariate file")
	flag.StringVar(&phenoNames, "pheno-names", "", "Comma-delimited phenotype column names (mutually exclusive with -all-phenos)")
	flag.BoolVar(&allPhenos, "all-phenos", false, "Use every column of the phenotype file as an outcome")
	flag.StringVar(&covarNames, "covar-names", "", "Comma-delimited covariate column names (mutually exclusive with -all-covars)")
	flag.BoolVar(&allCovars, "all-covars", false, "Adjust for every column of the covariate source")
	flag.StringVar(&outPath, "out", "", "Output path; stdout when empty")
	flag.BoolVar(&split, "split", false, "Decompose variant labels into SNP and A1 (and Model, for additive+dominant scans)")
	flag.IntVar(&workers, "workers", scan.DefaultWorkers, "Number of concurrent model fits")
	flag.StringVar(&resultsPath, "results", "", "Decompose an existing result table instead of running a scan")
	flag.Parse()

	if resultsPath != "" {
		if err := splitExisting(resultsPath, outPath); err != nil {
			log.Fatalln(err)
		}

		return
	}

	if genoPath == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide -geno")
	}

	config := scan.Config{
		SamePhenoCovar: samePheno,
		PhenoNames:     splitList(phenoNames),
		AllPhenos:      allPhenos,
		CovarNames:     splitList(covarNames),
		AllCovars:      allCovars,
	}

	var err error
	if config.GenoPath, err = ordscan.ExpandHome(genoPath); err != nil {
		log.Fatalln(err)
	}
	if config.PhenoPath, err = ordscan.ExpandHome(phenoPath); err != nil {
		log.Fatalln(err)
	}
	if config.CovarPath, err = ordscan.ExpandHome(covarPath); err != nil {
		log.Fatalln(err)
	}

	analysis, err := scan.Merge(config)
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("Scanning %d variants against %d phenotype(s) with %d covariate(s) across %d samples",
		len(analysis.SNPs), len(analysis.Phenotypes), len(analysis.Covariates), analysis.Table.NRows())

	results := analysis.Run(workers)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Printf("%s %s: skipped: %v", r.Phenotype, r.SNP, r.Err)
		}
	}
	log.Printf("Fitted %d of %d models", len(results)-failed, len(results))

	out, closer, err := openOutput(outPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer closer()

	if split {
		decomposed, hasDominant, err := scan.Decompose(results)
		if err != nil {
			log.Fatalln(err)
		}
		if err := scan.WriteDecomposed(out, decomposed, hasDominant); err != nil {
			log.Fatalln(err)
		}

		return
	}

	if err := scan.WriteResults(out, results); err != nil {
		log.Fatalln(err)
	}
}

// splitExisting decomposes the SNP labels of a previously written result
// table, detecting its delimiter rather than assuming one.
func splitExisting(path, outPath string) error {
	path, err := ordscan.ExpandHome(path)
	if err != nil {
		return err
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	delimiter := ordscan.DetermineDelimiter(bytes.NewReader(contents))
	results, err := scan.ReadResults(bytes.NewReader(contents), delimiter)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	decomposed, hasDominant, err := scan.Decompose(results)
	if err != nil {
		return err
	}

	out, closer, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer closer()

	return scan.WriteDecomposed(out, decomposed, hasDominant)
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return STDOUT, STDOUT.Flush, nil
	}

	expanded, err := ordscan.ExpandHome(path)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Create(expanded)
	if err != nil {
		return nil, nil, err
	}

	return f, f.Close, nil
}

func splitList(joined string) []string {
	if joined == "" {
		return nil
	}

	var out []string
	for _, v := range strings.Split(joined, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}

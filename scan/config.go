// Package scan merges genotype, phenotype, and covariate tables into one
// sample-aligned working table and runs a proportional-odds ordinal
// logistic regression of every resolved phenotype on every variant.
package scan

import (
	"errors"
	"fmt"
)

var (
	// ErrPhenoSelection means both an explicit phenotype list and the
	// all-phenotypes flag were supplied.
	ErrPhenoSelection = errors.New("scan: explicit phenotype names and all-phenotypes are mutually exclusive")

	// ErrCovarSelection means both an explicit covariate list and the
	// all-covariates flag were supplied.
	ErrCovarSelection = errors.New("scan: explicit covariate names and all-covariates are mutually exclusive")

	// ErrNoPhenoSource means a phenotype selection was made but no file
	// provides phenotype columns.
	ErrNoPhenoSource = errors.New("scan: phenotype selection requires a phenotype file")

	// ErrNoCovarSource means a covariate selection was made but no file
	// provides covariate columns.
	ErrNoCovarSource = errors.New("scan: covariate selection requires a covariate file or combined phenotype-covariate mode")
)

// Config names the input files and the outcome/adjustment columns to use.
// Optional inputs are absent when their path is empty; there are no
// sentinel values.
type Config struct {
	// GenoPath is the PLINK recode-A dosage file. Required.
	GenoPath string

	// PhenoPath optionally provides ordinal phenotype columns. When empty,
	// the single phenotype column embedded in the genotype file is the
	// outcome.
	PhenoPath string

	// CovarPath optionally provides covariate columns.
	CovarPath string

	// SamePhenoCovar draws covariate columns from the phenotype file
	// instead of a separate covariate file.
	SamePhenoCovar bool

	PhenoNames []string
	AllPhenos  bool

	CovarNames []string
	AllCovars  bool
}

// validate enforces the mutual-exclusion rules that can be checked before
// any file is read. Violations are configuration errors: the caller gets a
// diagnostic and no analysis.
func (c Config) validate() error {
	if len(c.PhenoNames) > 0 && c.AllPhenos {
		return ErrPhenoSelection
	}
	if len(c.CovarNames) > 0 && c.AllCovars {
		return ErrCovarSelection
	}

	if c.PhenoPath == "" && (len(c.PhenoNames) > 0 || c.AllPhenos) {
		return ErrNoPhenoSource
	}
	if c.PhenoPath != "" && len(c.PhenoNames) == 0 && !c.AllPhenos {
		return fmt.Errorf("scan: a phenotype file was given but no phenotype selection; name phenotypes or select all")
	}

	if c.SamePhenoCovar && c.PhenoPath == "" {
		return fmt.Errorf("scan: combined phenotype-covariate mode requires a phenotype file")
	}
	if c.SamePhenoCovar && c.CovarPath != "" {
		return fmt.Errorf("scan: combined phenotype-covariate mode excludes a separate covariate file")
	}

	hasCovarSource := c.CovarPath != "" || c.SamePhenoCovar
	if !hasCovarSource && (len(c.CovarNames) > 0 || c.AllCovars) {
		return ErrNoCovarSource
	}
	if hasCovarSource && len(c.CovarNames) == 0 && !c.AllCovars {
		return fmt.Errorf("scan: a covariate source was given but no covariate selection; name covariates or select all")
	}

	return nil
}

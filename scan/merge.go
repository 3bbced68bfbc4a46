package scan

import (
	"fmt"
	"log"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/carlsonlab/ordscan/plink"
	"gopkg.in/guregu/null.v3"
)

// MissingSentinel is the conventional missing-value marker in PLINK-style
// phenotype and covariate files. It is recoded to a true null before any
// modeling.
const MissingSentinel = -9

// Analysis is the merged, validated input to the regression loop: one
// sample-aligned working table plus the resolved column lists. Nothing in
// it is mutated after Merge returns.
type Analysis struct {
	// SNPs holds every variant column, in genotype-file order.
	SNPs []string

	// Phenotypes and Covariates are the resolved column names. Covariates
	// is empty when no covariates were requested.
	Phenotypes []string
	Covariates []string

	// Table is the inner join of all inputs on sample identifier.
	Table *plink.Table

	// levels maps each phenotype to its ordered distinct non-missing
	// values, ascending.
	levels map[string][]float64
}

// Merge loads and joins the configured tables, resolves the phenotype and
// covariate selections, recodes sentinel missing values, and validates
// that every phenotype is usable as an ordered outcome. Any violation is a
// configuration error: a diagnostic is returned and no Analysis.
func Merge(c Config) (*Analysis, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	working, snps, err := plink.RawTable(c.GenoPath)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d samples and %d variant columns from %s", working.NRows(), len(snps), c.GenoPath)

	phenoNames := []string{plink.DefaultPhenotype}
	var covarNames []string

	if c.PhenoPath != "" {
		pheno, err := plink.PhenoTable(c.PhenoPath)
		if err != nil {
			return nil, err
		}

		// An external phenotype file replaces the embedded outcome column.
		working.DropColumn(plink.DefaultPhenotype)

		phenoNames, err = resolveNames(pheno, c.PhenoNames, c.AllPhenos, nil, "phenotype", c.PhenoPath)
		if err != nil {
			return nil, err
		}

		joinCols := phenoNames
		if c.SamePhenoCovar {
			covarNames, err = resolveNames(pheno, c.CovarNames, c.AllCovars, phenoNames, "covariate", c.PhenoPath)
			if err != nil {
				return nil, err
			}
			joinCols = append(append([]string{}, phenoNames...), covarNames...)
		}

		working, err = join(working, pheno, joinCols, c.PhenoPath)
		if err != nil {
			return nil, err
		}
	}

	if c.CovarPath != "" {
		covar, err := plink.PhenoTable(c.CovarPath)
		if err != nil {
			return nil, err
		}

		covarNames, err = resolveNames(covar, c.CovarNames, c.AllCovars, nil, "covariate", c.CovarPath)
		if err != nil {
			return nil, err
		}

		working, err = join(working, covar, covarNames, c.CovarPath)
		if err != nil {
			return nil, err
		}
	}

	// A variable cannot be both outcome and adjustment term in one fit.
	if err := checkOverlap(phenoNames, covarNames); err != nil {
		return nil, err
	}

	out := &Analysis{
		SNPs:       snps,
		Phenotypes: phenoNames,
		Covariates: covarNames,
		Table:      working,
		levels:     make(map[string][]float64),
	}

	for _, name := range append(append([]string{}, phenoNames...), covarNames...) {
		recodeSentinel(working.Column(name))
	}

	for _, name := range phenoNames {
		levels := distinctLevels(working.Column(name))
		if len(levels) < 3 {
			return nil, fmt.Errorf("scan: phenotype %q has %d distinct levels after missing-value recoding; an ordinal outcome needs at least 3", name, len(levels))
		}
		out.levels[name] = levels
	}

	return out, nil
}

// resolveNames turns a selection (explicit list or select-all) into
// concrete column names, schema-checked against the source table. exclude
// is removed from a select-all resolution, so that combined
// phenotype-covariate files can select "all remaining columns" as
// covariates.
func resolveNames(table *plink.Table, names []string, all bool, exclude []string, kind, path string) ([]string, error) {
	if all {
		excluded := make(map[string]bool)
		for _, name := range exclude {
			excluded[name] = true
		}

		var out []string
		for _, name := range table.ColumnNames() {
			if !excluded[name] {
				out = append(out, name)
			}
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("scan: %s selected all columns of %s, but none remain", kind, path)
		}

		return out, nil
	}

	for _, name := range names {
		if !table.HasColumn(name) {
			return nil, fmt.Errorf("scan: %s column %q not found in %s (columns: %v)", kind, name, path, table.ColumnNames())
		}
	}

	return append([]string{}, names...), nil
}

func join(left, right *plink.Table, cols []string, path string) (*plink.Table, error) {
	out, dropped, err := plink.InnerJoin(left, right, cols)
	if err != nil {
		return nil, pfx.Err(err)
	}

	// Inner joins silently shrink the sample; say so.
	if dropped > 0 {
		log.Printf("Dropped %d samples absent from %s; %d remain", dropped, path, out.NRows())
	}

	return out, nil
}

func checkOverlap(phenoNames, covarNames []string) error {
	phenos := make(map[string]bool)
	for _, name := range phenoNames {
		phenos[name] = true
	}
	for _, name := range covarNames {
		if phenos[name] {
			return fmt.Errorf("scan: %q is selected as both phenotype and covariate", name)
		}
	}

	return nil
}

func recodeSentinel(col *plink.Column) {
	for i, v := range col.Values {
		if v.Valid && v.Float64 == MissingSentinel {
			col.Values[i] = null.FloatFromPtr(nil)
		}
	}
}

// distinctLevels returns the sorted distinct non-missing values of a
// column; this ordering defines the ordinal outcome's categories.
func distinctLevels(col *plink.Column) []float64 {
	seen := make(map[float64]bool)
	var out []float64
	for _, v := range col.Values {
		if v.Valid && !seen[v.Float64] {
			seen[v.Float64] = true
			out = append(out, v.Float64)
		}
	}
	sort.Float64s(out)

	return out
}

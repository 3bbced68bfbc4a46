package scan

import (
	"fmt"
	"runtime"

	"github.com/carlsonlab/ordscan/ordinal"
	"github.com/montanaflynn/stats"
)

// DefaultWorkers sizes the fit worker pool. Fits are independent and
// CPU-bound.
var DefaultWorkers = 4 * runtime.NumCPU()

// Run fits every (phenotype, SNP) pair and returns one Result per pair:
// phenotype blocks in resolution order, SNPs in genotype-file order within
// each block. A failed fit never stops the scan; its Result carries the
// error and NA statistics.
func (a *Analysis) Run(workers int) []Result {
	if workers < 1 {
		workers = DefaultWorkers
	}

	results := make([]Result, len(a.Phenotypes)*len(a.SNPs))

	sem := make(chan bool, workers)
	for pi, pheno := range a.Phenotypes {
		for si, snp := range a.SNPs {
			sem <- true
			go func(idx int, pheno, snp string) {
				results[idx] = a.fitOne(pheno, snp)
				<-sem
			}(pi*len(a.SNPs)+si, pheno, snp)
		}
	}
	for i := 0; i < cap(sem); i++ {
		sem <- true
	}

	return results
}

// fitOne regresses one phenotype on one SNP dosage column plus the
// resolved covariates, complete-case: a row missing the phenotype, the
// dosage, or any covariate is dropped for this fit only.
func (a *Analysis) fitOne(pheno, snp string) Result {
	phenoCol := a.Table.Column(pheno)
	snpCol := a.Table.Column(snp)

	levelIndex := make(map[float64]int)
	for i, v := range a.levels[pheno] {
		levelIndex[v] = i
	}

	var y []int
	var x [][]float64
	var dosages []float64

rows:
	for row := 0; row < a.Table.NRows(); row++ {
		pv := phenoCol.Values[row]
		sv := snpCol.Values[row]
		if !pv.Valid || !sv.Valid {
			continue
		}

		predictors := make([]float64, 0, 1+len(a.Covariates))
		predictors = append(predictors, sv.Float64)
		for _, name := range a.Covariates {
			cv := a.Table.Cell(name, row)
			if !cv.Valid {
				continue rows
			}
			predictors = append(predictors, cv.Float64)
		}

		y = append(y, levelIndex[pv.Float64])
		x = append(x, predictors)
		dosages = append(dosages, sv.Float64)
	}

	// Complete-case filtering may have emptied a category; the likelihood
	// needs contiguous level offsets.
	y = compactLevels(y)

	if variance, err := stats.Variance(dosages); err != nil || variance == 0 {
		return failedResult(pheno, snp, fmt.Errorf("scan: %s has zero dosage variance among %d usable samples", snp, len(dosages)))
	}

	m, err := ordinal.NewModel(y, x)
	if err != nil {
		return failedResult(pheno, snp, err)
	}

	fit, err := m.Fit()
	if err != nil {
		return failedResult(pheno, snp, err)
	}

	beta := fit.Coefficients[0]
	se := fit.StdErrs[0]
	z := ordinal.WaldZ(beta, se)
	lower, upper := ordinal.ORInterval(beta, se)

	return Result{
		Phenotype: pheno,
		SNP:       snp,
		BETA:      Stat(beta),
		SE:        Stat(se),
		Tvalue:    Stat(z),
		P:         Stat(ordinal.WaldP(z)),
		OR:        Stat(ordinal.OddsRatio(beta)),
		L95:       Stat(lower),
		U95:       Stat(upper),
	}
}

// compactLevels renumbers level offsets to be contiguous from zero while
// preserving order.
func compactLevels(y []int) []int {
	seen := make(map[int]bool)
	for _, v := range y {
		seen[v] = true
	}

	remap := make(map[int]int)
	next := 0
	for v := 0; next < len(seen); v++ {
		if seen[v] {
			remap[v] = next
			next++
		}
	}

	out := make([]int, len(y))
	for i, v := range y {
		out[i] = remap[v]
	}

	return out
}

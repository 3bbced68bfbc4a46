package ordinal

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// CI95Z is the two-sided 95% standard normal quantile used for
// Wald confidence intervals.
const CI95Z = 1.959964

// WaldZ is the Wald test statistic for a coefficient.
func WaldZ(beta, se float64) float64 {
	return beta / se
}

// WaldP is the two-sided p-value for a Wald statistic under the standard
// normal distribution.
func WaldP(z float64) float64 {
	return 2 * distuv.UnitNormal.CDF(-math.Abs(z))
}

// OddsRatio exponentiates a coefficient.
func OddsRatio(beta float64) float64 {
	return math.Exp(beta)
}

// ORInterval returns the 95% confidence bounds on the odds ratio, from the
// asymptotic normal interval on the coefficient.
func ORInterval(beta, se float64) (lower, upper float64) {
	return math.Exp(beta - CI95Z*se), math.Exp(beta + CI95Z*se)
}

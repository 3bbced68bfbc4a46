// Package ordinal fits proportional-odds ordinal logistic regression models:
// P(Y <= j | x) = logistic(alpha_j - x*beta), so a positive coefficient
// shifts probability toward higher outcome categories.
package ordinal

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrTooFewLevels means the response has fewer than three distinct
	// levels, which leaves nothing ordinal to model.
	ErrTooFewLevels = errors.New("ordinal: response has fewer than 3 levels")

	// ErrTooFewObservations means the data cannot identify the requested
	// number of parameters.
	ErrTooFewObservations = errors.New("ordinal: more parameters than observations")

	// ErrNotConverged means the likelihood maximization did not reach a
	// stationary point.
	ErrNotConverged = errors.New("ordinal: fit did not converge")

	// ErrSingular means the observed information matrix is not positive
	// definite, so standard errors are unavailable (rank-deficient design,
	// separation, or an otherwise degenerate fit).
	ErrSingular = errors.New("ordinal: singular information matrix")
)

// Model bundles an ordered categorical response with its design matrix.
// There is no intercept column; the per-cutpoint thresholds play that role.
type Model struct {
	// Y holds the response as level offsets 0..K-1.
	Y []int
	// X holds one row of predictor values per observation. The column of
	// interest should come first; Fit reports standard errors for every
	// column, in order.
	X [][]float64

	// K is the number of response levels.
	K int
}

// NewModel validates the response coding and design shape.
func NewModel(y []int, x [][]float64) (*Model, error) {
	if len(y) != len(x) {
		return nil, fmt.Errorf("ordinal: %d responses but %d design rows", len(y), len(x))
	}
	if len(y) == 0 {
		return nil, ErrTooFewObservations
	}

	p := len(x[0])
	k := 0
	seen := make(map[int]bool)
	for i, yi := range y {
		if yi < 0 {
			return nil, fmt.Errorf("ordinal: response offset %d at observation %d", yi, i)
		}
		if len(x[i]) != p {
			return nil, fmt.Errorf("ordinal: design row %d has %d columns, expected %d", i, len(x[i]), p)
		}
		for _, v := range x[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("ordinal: non-finite predictor at observation %d", i)
			}
		}
		seen[yi] = true
		if yi+1 > k {
			k = yi + 1
		}
	}

	if k < 3 {
		return nil, ErrTooFewLevels
	}
	for j := 0; j < k; j++ {
		if !seen[j] {
			return nil, fmt.Errorf("ordinal: response level %d of %d is unobserved", j, k)
		}
	}

	// p coefficients plus K-1 thresholds, and at least one residual
	// degree of freedom.
	if len(y) <= p+k-1 {
		return nil, ErrTooFewObservations
	}

	return &Model{Y: y, X: x, K: k}, nil
}

func (m *Model) nParams() int {
	return len(m.X[0]) + m.K - 1
}

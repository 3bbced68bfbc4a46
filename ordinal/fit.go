package ordinal

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// floor for category probabilities inside the likelihood, so that a step
// into an infeasible region (unordered thresholds) stays finite and the
// line search can back off.
const probFloor = 1e-12

// Fit holds the maximum-likelihood estimate of a proportional-odds model.
type Fit struct {
	// Coefficients and StdErrs are per predictor column, in design order.
	Coefficients []float64
	StdErrs      []float64
	// Thresholds are the fitted cutpoints alpha_1 < ... < alpha_{K-1}.
	Thresholds []float64

	LogLikelihood float64
	N             int
}

// Fit maximizes the model likelihood by BFGS with an analytic gradient,
// then derives standard errors from the inverse observed information.
func (m *Model) Fit() (*Fit, error) {
	p := len(m.X[0])
	n := m.nParams()

	problem := optimize.Problem{
		Func: m.negLogLikelihood,
		Grad: m.negLogLikelihoodGrad,
	}

	settings := &optimize.Settings{
		GradientThreshold: 1e-6,
		MajorIterations:   500,
	}

	// A linesearch failure near the optimum still yields a usable point,
	// so convergence is judged below on the gradient itself rather than
	// on the optimizer's exit status.
	result, _ := optimize.Minimize(problem, m.startingValues(), settings, &optimize.BFGS{})
	if result == nil || len(result.X) != n {
		return nil, ErrNotConverged
	}

	theta := result.X
	for _, v := range theta {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNotConverged
		}
	}

	// Confirm stationarity independently of the optimizer's exit status.
	grad := make([]float64, n)
	m.negLogLikelihoodGrad(grad, theta)
	for _, g := range grad {
		if math.Abs(g) > 1e-3 {
			return nil, ErrNotConverged
		}
	}

	// The cutpoints must come out ordered or the fit is meaningless.
	for j := p + 1; j < n; j++ {
		if theta[j] <= theta[j-1] {
			return nil, ErrNotConverged
		}
	}

	stderrs, err := m.stdErrs(theta)
	if err != nil {
		return nil, err
	}

	out := &Fit{
		Coefficients:  append([]float64{}, theta[:p]...),
		StdErrs:       stderrs[:p],
		Thresholds:    append([]float64{}, theta[p:]...),
		LogLikelihood: -m.negLogLikelihood(theta),
		N:             len(m.Y),
	}

	return out, nil
}

// startingValues uses zero coefficients and the pooled empirical cumulative
// logits as thresholds, which are strictly increasing because every level
// is observed.
func (m *Model) startingValues() []float64 {
	p := len(m.X[0])
	theta := make([]float64, m.nParams())

	counts := make([]float64, m.K)
	for _, yi := range m.Y {
		counts[yi]++
	}

	n := float64(len(m.Y))
	cum := 0.0
	for j := 0; j < m.K-1; j++ {
		cum += counts[j]
		theta[p+j] = math.Log(cum / (n - cum))
	}

	return theta
}

// cellBounds returns the cumulative probabilities bracketing observation
// i's response level under parameters theta.
func (m *Model) cellBounds(theta []float64, i int) (lo, hi float64) {
	p := len(m.X[0])

	eta := 0.0
	for k, v := range m.X[i] {
		eta += theta[k] * v
	}

	lo, hi = 0, 1
	if yi := m.Y[i]; yi > 0 {
		lo = sigmoid(theta[p+yi-1] - eta)
	}
	if yi := m.Y[i]; yi < m.K-1 {
		hi = sigmoid(theta[p+yi] - eta)
	}

	return lo, hi
}

func (m *Model) negLogLikelihood(theta []float64) float64 {
	nll := 0.0
	for i := range m.Y {
		lo, hi := m.cellBounds(theta, i)
		nll -= math.Log(math.Max(hi-lo, probFloor))
	}

	return nll
}

func (m *Model) negLogLikelihoodGrad(grad, theta []float64) {
	p := len(m.X[0])
	for j := range grad {
		grad[j] = 0
	}

	for i, yi := range m.Y {
		lo, hi := m.cellBounds(theta, i)
		cell := math.Max(hi-lo, probFloor)

		// Logistic density at each bracketing cutpoint; zero at the
		// unbounded ends.
		loD, hiD := 0.0, 0.0
		if yi > 0 {
			loD = lo * (1 - lo)
		}
		if yi < m.K-1 {
			hiD = hi * (1 - hi)
		}

		for k, v := range m.X[i] {
			grad[k] += v * (hiD - loD) / cell
		}
		if yi < m.K-1 {
			grad[p+yi] -= hiD / cell
		}
		if yi > 0 {
			grad[p+yi-1] += loD / cell
		}
	}
}

// stdErrs inverts the observed information (the Hessian of the negative
// log-likelihood at the optimum) and takes square roots of its diagonal.
func (m *Model) stdErrs(theta []float64) ([]float64, error) {
	n := m.nParams()

	hessian := mat.NewSymDense(n, nil)
	fd.Hessian(hessian, m.negLogLikelihood, theta, nil)

	var chol mat.Cholesky
	if ok := chol.Factorize(hessian); !ok {
		return nil, ErrSingular
	}

	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return nil, ErrSingular
	}

	out := make([]float64, n)
	for j := 0; j < n; j++ {
		v := cov.At(j, j)
		if v <= 0 || math.IsNaN(v) {
			return nil, ErrSingular
		}
		out[j] = math.Sqrt(v)
	}

	return out, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

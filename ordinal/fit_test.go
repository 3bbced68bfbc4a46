package ordinal

import (
	"errors"
	"math"
	"testing"
)

// appendGroup adds count observations at response level y with a single
// binary predictor value x.
func appendGroup(y []int, x [][]float64, level int, xval float64, count int) ([]int, [][]float64) {
	for i := 0; i < count; i++ {
		y = append(y, level)
		x = append(x, []float64{xval})
	}

	return y, x
}

// The cumulative log-odds of this two-group dataset differ by exactly
// log(3) at both cutpoints, so the proportional-odds MLE is beta = log(3),
// alpha = (-log(3), 0): group x=0 has cumulative proportions (0.25, 0.50),
// group x=1 has (0.10, 0.25).
func TestFitRecoversExactLogOdds(t *testing.T) {
	var y []int
	var x [][]float64
	y, x = appendGroup(y, x, 0, 0, 10)
	y, x = appendGroup(y, x, 1, 0, 10)
	y, x = appendGroup(y, x, 2, 0, 20)
	y, x = appendGroup(y, x, 0, 1, 4)
	y, x = appendGroup(y, x, 1, 1, 6)
	y, x = appendGroup(y, x, 2, 1, 30)

	m, err := NewModel(y, x)
	if err != nil {
		t.Fatal(err)
	}

	fit, err := m.Fit()
	if err != nil {
		t.Fatal(err)
	}

	log3 := math.Log(3)
	if got := fit.Coefficients[0]; math.Abs(got-log3) > 1e-3 {
		t.Errorf("beta: got %.6f, expected %.6f", got, log3)
	}
	if got := fit.Thresholds[0]; math.Abs(got-(-log3)) > 1e-3 {
		t.Errorf("alpha1: got %.6f, expected %.6f", got, -log3)
	}
	if got := fit.Thresholds[1]; math.Abs(got) > 1e-3 {
		t.Errorf("alpha2: got %.6f, expected 0", got)
	}

	se := fit.StdErrs[0]
	if !(se > 0) || math.IsInf(se, 0) {
		t.Fatalf("standard error: got %v", se)
	}

	if got := OddsRatio(fit.Coefficients[0]); math.Abs(got-3) > 1e-2 {
		t.Errorf("odds ratio: got %.6f, expected 3", got)
	}

	lower, upper := ORInterval(fit.Coefficients[0], se)
	if wantL := math.Exp(fit.Coefficients[0] - CI95Z*se); math.Abs(lower-wantL) > 1e-12 {
		t.Errorf("L95: got %v, expected %v", lower, wantL)
	}
	if wantU := math.Exp(fit.Coefficients[0] + CI95Z*se); math.Abs(upper-wantU) > 1e-12 {
		t.Errorf("U95: got %v, expected %v", upper, wantU)
	}
	if !(lower < OddsRatio(fit.Coefficients[0])) || !(OddsRatio(fit.Coefficients[0]) < upper) {
		t.Errorf("interval (%v, %v) does not bracket the odds ratio", lower, upper)
	}

	if p := WaldP(WaldZ(fit.Coefficients[0], se)); !(p > 0 && p < 1) {
		t.Errorf("p-value out of range: %v", p)
	}
}

// Identical response distributions in both predictor groups make zero a
// stationary point of the likelihood, so the fitted effect must be null.
func TestFitNullEffect(t *testing.T) {
	var y []int
	var x [][]float64
	for _, xval := range []float64{0, 1} {
		y, x = appendGroup(y, x, 0, xval, 10)
		y, x = appendGroup(y, x, 1, xval, 15)
		y, x = appendGroup(y, x, 2, xval, 25)
	}

	m, err := NewModel(y, x)
	if err != nil {
		t.Fatal(err)
	}

	fit, err := m.Fit()
	if err != nil {
		t.Fatal(err)
	}

	if got := fit.Coefficients[0]; math.Abs(got) > 1e-3 {
		t.Errorf("beta: got %.6f, expected 0", got)
	}
	if got := OddsRatio(fit.Coefficients[0]); math.Abs(got-1) > 1e-2 {
		t.Errorf("odds ratio: got %.6f, expected 1", got)
	}
	if p := WaldP(WaldZ(fit.Coefficients[0], fit.StdErrs[0])); p < 0.99 {
		t.Errorf("null-effect p-value: got %v, expected ~1", p)
	}
}

func TestNewModelValidation(t *testing.T) {
	twoLevelY := []int{0, 1, 0, 1, 0, 1, 0, 1}
	x := make([][]float64, len(twoLevelY))
	for i := range x {
		x[i] = []float64{float64(i % 2)}
	}
	if _, err := NewModel(twoLevelY, x); !errors.Is(err, ErrTooFewLevels) {
		t.Errorf("two-level response: got %v, expected ErrTooFewLevels", err)
	}

	if _, err := NewModel([]int{0, 1, 2}, [][]float64{{0}, {1}}); err == nil {
		t.Error("mismatched lengths: expected an error")
	}

	if _, err := NewModel([]int{0, 1, 2}, [][]float64{{0}, {1}, {2}}); !errors.Is(err, ErrTooFewObservations) {
		t.Errorf("3 observations, 3 parameters: got %v, expected ErrTooFewObservations", err)
	}

	// Level 1 of 0..2 never observed.
	gapY := []int{0, 0, 2, 2, 0, 2, 0, 2}
	gapX := make([][]float64, len(gapY))
	for i := range gapX {
		gapX[i] = []float64{float64(i % 2)}
	}
	if _, err := NewModel(gapY, gapX); err == nil {
		t.Error("unobserved middle level: expected an error")
	}
}

func TestWaldP(t *testing.T) {
	for _, v := range []struct {
		z float64
		p float64
	}{
		{0, 1},
		{1.959964, 0.05},
		{-1.959964, 0.05},
		{3.290527, 0.001},
	} {
		if got := WaldP(v.z); math.Abs(got-v.p) > 1e-4 {
			t.Errorf("WaldP(%v): got %.6f, expected %.6f", v.z, got, v.p)
		}
	}
}

package powerlaw

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// OLSResult holds per-coefficient estimates from an ordinary least squares
// fit, along with the coefficient covariance needed for derived errors.
type OLSResult struct {
	Coef   []float64
	StdErr []float64
	TStat  []float64
	RSS    float64
	N      int
	Cov    *mat.SymDense
}

// olsFit solves y = X*beta by ordinary least squares and returns estimates,
// standard errors and t-statistics per coefficient.
//
// The coefficient covariance is s^2 (X'X)^-1 with s^2 = RSS/(n-p). A
// singular design or n <= p is a fatal condition. An exact fit reports
// zero standard errors; its vanishing coefficients get a zero t-statistic
// and its nonzero ones an infinite one.
func olsFit(x *mat.Dense, y []float64) (OLSResult, error) {
	n, p := x.Dims()
	if len(y) != n {
		return OLSResult{}, fmt.Errorf("powerlaw: response length %d does not match %d rows", len(y), n)
	}
	if n <= p {
		return OLSResult{}, fmt.Errorf("powerlaw: %d observations cannot identify %d coefficients", n, p)
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return OLSResult{}, fmt.Errorf("powerlaw: singular design matrix: %w", err)
	}

	yv := mat.NewVecDense(n, y)
	var xty mat.VecDense
	xty.MulVec(x.T(), yv)

	var beta mat.VecDense
	beta.MulVec(&inv, &xty)

	// Residual sum of squares.
	var fitted mat.VecDense
	fitted.MulVec(x, &beta)
	rss := 0.0
	sumYSq := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.AtVec(i)
		rss += r * r
		sumYSq += y[i] * y[i]
	}
	s2 := rss / float64(n-p)

	// An exact fit leaves the residuals at roundoff; they carry no error
	// information, and dividing coefficient noise by error noise would
	// produce an arbitrary t-statistic.
	if rss <= 1e-12*sumYSq {
		s2 = 0
	}

	res := OLSResult{
		Coef:   make([]float64, p),
		StdErr: make([]float64, p),
		TStat:  make([]float64, p),
		RSS:    rss,
		N:      n,
		Cov:    mat.NewSymDense(p, nil),
	}
	for i := 0; i < p; i++ {
		res.Coef[i] = beta.AtVec(i)
		for j := i; j < p; j++ {
			res.Cov.SetSym(i, j, s2*inv.At(i, j))
		}
	}
	coefScale := 0.0
	for i := 0; i < p; i++ {
		if a := math.Abs(res.Coef[i]); a > coefScale {
			coefScale = a
		}
	}
	for i := 0; i < p; i++ {
		res.StdErr[i] = math.Sqrt(res.Cov.At(i, i))
		if res.StdErr[i] > 0 {
			res.TStat[i] = res.Coef[i] / res.StdErr[i]
		} else if math.Abs(res.Coef[i]) > 1e-8*coefScale {
			// Zero standard error with a genuinely nonzero coefficient:
			// the effect is real, its error unresolvable.
			res.TStat[i] = math.Inf(sign(res.Coef[i]))
		}
	}
	return res, nil
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}

package powerlaw

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// Fit describes a fitted (possibly broken) power law. Slope is the
// low-frequency slope; for a broken fit Slope2 is the slope above the
// break and Break holds the break frequency.
type Fit struct {
	Slope        float64
	SlopeErr     float64
	Intercept    float64
	InterceptErr float64

	HasBreak  bool
	Break     float64
	Slope2    float64
	Slope2Err float64

	RSS float64
	N   int
}

// logPairs filters out pairs that cannot be used in log-log space and
// returns their base-10 logarithms.
func logPairs(freqs, values []float64) (logf, logv []float64, err error) {
	if len(freqs) != len(values) {
		return nil, nil, fmt.Errorf("powerlaw: %d frequencies but %d values", len(freqs), len(values))
	}
	for i := range freqs {
		if freqs[i] <= 0 || values[i] <= 0 ||
			math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			continue
		}
		logf = append(logf, math.Log10(freqs[i]))
		logv = append(logv, math.Log10(values[i]))
	}
	if len(logf) < 3 {
		return nil, nil, fmt.Errorf("powerlaw: only %d usable points, need at least 3", len(logf))
	}
	return logf, logv, nil
}

// FitPowerLaw fits value = A * freq^slope over the whole profile.
func FitPowerLaw(freqs, values []float64) (Fit, error) {
	logf, logv, err := logPairs(freqs, values)
	if err != nil {
		return Fit{}, err
	}

	n := len(logf)
	x := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		x.Set(i, 1, logf[i])
	}
	res, err := olsFit(x, logv)
	if err != nil {
		return Fit{}, err
	}
	return Fit{
		Slope:        res.Coef[1],
		SlopeErr:     res.StdErr[1],
		Intercept:    res.Coef[0],
		InterceptErr: res.StdErr[0],
		RSS:          res.RSS,
		N:            res.N,
	}, nil
}

// FitBroken fits a continuous two-segment power law with the break at brk:
//
//	log v = b0 + b1*log f + b2*max(0, log f - log brk)
//
// Slope below the break is b1, above it b1+b2. A non-positive brk requests
// automatic break location via [LocateBreak].
func FitBroken(freqs, values []float64, brk float64) (Fit, error) {
	if brk <= 0 {
		return LocateBreak(freqs, values)
	}
	logf, logv, err := logPairs(freqs, values)
	if err != nil {
		return Fit{}, err
	}
	return fitBrokenLog(logf, logv, math.Log10(brk))
}

func fitBrokenLog(logf, logv []float64, logBrk float64) (Fit, error) {
	n := len(logf)
	x := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		x.Set(i, 1, logf[i])
		x.Set(i, 2, math.Max(0, logf[i]-logBrk))
	}
	res, err := olsFit(x, logv)
	if err != nil {
		return Fit{}, err
	}

	// Var(b1 + b2) = Var(b1) + Var(b2) + 2 Cov(b1, b2).
	v := res.Cov.At(1, 1) + res.Cov.At(2, 2) + 2*res.Cov.At(1, 2)
	return Fit{
		Slope:        res.Coef[1],
		SlopeErr:     res.StdErr[1],
		Intercept:    res.Coef[0],
		InterceptErr: res.StdErr[0],
		HasBreak:     true,
		Break:        math.Pow(10, logBrk),
		Slope2:       res.Coef[1] + res.Coef[2],
		Slope2Err:    math.Sqrt(math.Max(0, v)),
		RSS:          res.RSS,
		N:            res.N,
	}, nil
}

// LocateBreak grid-searches candidate break points between the 25th and
// 75th percentile of log frequency and returns the broken fit with the
// smallest residual sum of squares.
func LocateBreak(freqs, values []float64) (Fit, error) {
	logf, logv, err := logPairs(freqs, values)
	if err != nil {
		return Fit{}, err
	}

	lo, err := stats.Percentile(stats.Float64Data(logf), 25)
	if err != nil {
		return Fit{}, fmt.Errorf("powerlaw: break search bounds: %w", err)
	}
	hi, err := stats.Percentile(stats.Float64Data(logf), 75)
	if err != nil {
		return Fit{}, fmt.Errorf("powerlaw: break search bounds: %w", err)
	}

	best := Fit{RSS: math.Inf(1)}
	found := false
	for _, cand := range logf {
		if cand < lo || cand > hi {
			continue
		}
		fit, err := fitBrokenLog(logf, logv, cand)
		if err != nil {
			continue
		}
		if fit.RSS < best.RSS {
			best = fit
			found = true
		}
	}
	if !found {
		return Fit{}, fmt.Errorf("powerlaw: no viable break point in [%g, %g]", lo, hi)
	}
	return best, nil
}

// SlopeDiffResult is the outcome of a joint slope-difference test.
type SlopeDiffResult struct {
	// TValue is the t-statistic of the slope interaction term. Its absolute
	// value measures how significantly the two power-law slopes differ.
	TValue float64
	OLS    OLSResult
}

// SlopeDifference stacks two profiles clipped to the open frequency window
// (lowCut, highCut) and fits
//
//	log v ~ dummy + log f + dummy*log f
//
// where dummy marks the second profile. The interaction t-statistic tests
// whether the two slopes differ, accounting for intercepts and sample
// sizes. A clip window that empties either profile is fatal.
func SlopeDifference(freqs1, values1, freqs2, values2 []float64, lowCut, highCut float64) (SlopeDiffResult, error) {
	if lowCut >= highCut {
		return SlopeDiffResult{}, fmt.Errorf("powerlaw: empty clip window (%g, %g)", lowCut, highCut)
	}
	f1, v1 := clip(freqs1, values1, lowCut, highCut)
	f2, v2 := clip(freqs2, values2, lowCut, highCut)
	if len(f1) == 0 || len(f2) == 0 {
		return SlopeDiffResult{}, fmt.Errorf("powerlaw: clip window (%g, %g) leaves %d and %d points", lowCut, highCut, len(f1), len(f2))
	}

	n := len(f1) + len(f2)
	x := mat.NewDense(n, 4, nil)
	y := make([]float64, n)
	row := 0
	add := func(freqs, values []float64, dummy float64) {
		for i := range freqs {
			lf := math.Log10(freqs[i])
			x.Set(row, 0, 1)
			x.Set(row, 1, dummy)
			x.Set(row, 2, lf)
			x.Set(row, 3, dummy*lf)
			y[row] = math.Log10(values[i])
			row++
		}
	}
	add(f1, v1, 0)
	add(f2, v2, 1)

	res, err := olsFit(x, y)
	if err != nil {
		return SlopeDiffResult{}, err
	}
	return SlopeDiffResult{TValue: res.TStat[3], OLS: res}, nil
}

// clip keeps pairs with lowCut < freq < highCut and a positive value.
func clip(freqs, values []float64, lowCut, highCut float64) ([]float64, []float64) {
	var f, v []float64
	for i := range freqs {
		if freqs[i] > lowCut && freqs[i] < highCut && values[i] > 0 {
			f = append(f, freqs[i])
			v = append(v, values[i])
		}
	}
	return f, v
}

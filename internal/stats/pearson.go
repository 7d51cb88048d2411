package stats

import (
	"errors"
	"math"
)

// ErrUndefinedCorrelation means the inputs cannot produce a meaningful
// coefficient: fewer than two paired values, or zero variance on either
// side. Callers treat it as "no correlation", not as a failure.
var ErrUndefinedCorrelation = errors.New("pearson correlation undefined for input sequences")

// Pearson computes the correlation coefficient of two paired score
// sequences. The sequences must have equal length.
func Pearson(xs, ys []float64) (float64, error) {
	if len(xs) != len(ys) {
		return 0, errors.New("pearson: sequence lengths differ")
	}
	n := len(xs)
	if n < 2 {
		return 0, ErrUndefinedCorrelation
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, ErrUndefinedCorrelation
	}

	r := cov / math.Sqrt(varX*varY)
	// Guard against float drift pushing the result out of [-1, 1].
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, nil
}

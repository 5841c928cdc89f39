// Package analysis computes per-day statistics over an inflammation grid.
//
// A grid holds one row per patient and one column per day. Missing readings
// are NaN. Aggregates collapse the patient axis and return a fresh slice with
// one value per day; nothing here mutates its input.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/inflammation-cli/internal/errors"
)

// perDay applies fn to each day's column of readings.
func perDay(g mat.Matrix, fn func(col []float64) float64) []float64 {
	r, c := g.Dims()
	out := make([]float64, c)
	if r == 0 {
		return out
	}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		out[j] = fn(mat.Col(col, j, g))
	}
	return out
}

// DailyMean returns the arithmetic mean across patients for each day.
func DailyMean(g mat.Matrix) []float64 {
	return perDay(g, func(col []float64) float64 { return stat.Mean(col, nil) })
}

// DailyStd returns the population standard deviation across patients for each day.
func DailyStd(g mat.Matrix) []float64 {
	return perDay(g, func(col []float64) float64 { return math.Sqrt(stat.PopVariance(col, nil)) })
}

// DailyMax returns the maximum reading across patients for each day. A
// missing reading on a day makes that day's maximum NaN.
func DailyMax(g mat.Matrix) []float64 {
	return perDay(g, func(col []float64) float64 {
		if floats.HasNaN(col) {
			return math.NaN()
		}
		return floats.Max(col)
	})
}

// DailyMin returns the minimum reading across patients for each day. A
// missing reading on a day makes that day's minimum NaN.
func DailyMin(g mat.Matrix) []float64 {
	return perDay(g, func(col []float64) float64 {
		if floats.HasNaN(col) {
			return math.NaN()
		}
		return floats.Min(col)
	})
}

// DailyAboveThreshold counts the days on which the given patient's reading
// strictly exceeds threshold. Missing readings never count.
func DailyAboveThreshold(g mat.Matrix, patient int, threshold float64) (int, error) {
	r, c := g.Dims()
	if patient < 0 || patient >= r {
		return 0, errors.Wrapf(errors.ErrIndex, "patient %d not in [0, %d)", patient, r)
	}
	n := 0
	for j := 0; j < c; j++ {
		if g.At(patient, j) > threshold {
			n++
		}
	}
	return n, nil
}

// NormalisePatient scales each patient's readings by that patient's maximum,
// giving values in [0, 1]. The maximum ignores missing readings. Cells whose
// division is undefined (missing reading, all-zero or all-missing row) are
// set to 0 rather than left as NaN.
func NormalisePatient(g mat.Matrix) (*mat.Dense, error) {
	r, c := g.Dims()
	if r == 0 || c == 0 {
		return nil, errors.Wrap(errors.ErrShape, "grid should have two non-empty dimensions")
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if g.At(i, j) < 0 {
				return nil, errors.WithHint(
					errors.Wrapf(errors.ErrDomain, "negative reading %g at patient %d, day %d", g.At(i, j), i, j),
					"inflammation values should not be negative")
			}
		}
	}

	out := mat.NewDense(r, c, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, g)
		peak := nanMax(row)
		if math.IsNaN(peak) || math.IsInf(peak, 0) {
			continue
		}
		for j, v := range row {
			x := v / peak
			if math.IsNaN(x) || x < 0 {
				x = 0
			}
			out.Set(i, j, x)
		}
	}
	return out, nil
}

// nanMax returns the largest non-NaN value, or NaN when every value is NaN.
func nanMax(s []float64) float64 {
	peak := math.NaN()
	for _, v := range s {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(peak) || v > peak {
			peak = v
		}
	}
	return peak
}

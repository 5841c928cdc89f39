package analysis

import (
	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/inflammation-cli/internal/errors"
)

// NewGrid coerces a dynamically typed value into a patients x days grid.
// It is the boundary check for callers that do not already hold a
// mat.Matrix: non-numeric element types fail with ErrTypeMismatch, and
// anything that is not exactly two-dimensional and rectangular fails with
// ErrShape. The returned grid is always a fresh copy.
func NewGrid(v any) (*mat.Dense, error) {
	switch x := v.(type) {
	case *mat.Dense:
		if x == nil || x.IsEmpty() {
			return nil, errors.Wrap(errors.ErrShape, "grid is empty")
		}
		return mat.DenseCopyOf(x), nil
	case mat.Matrix:
		if r, c := x.Dims(); r == 0 || c == 0 {
			return nil, errors.Wrap(errors.ErrShape, "grid is empty")
		}
		return mat.DenseCopyOf(x), nil
	case [][]float64:
		return fromRows(x)
	case [][]int:
		return fromRows(x)
	case []float64, []int:
		return nil, errors.Wrap(errors.ErrShape, "grid should have two dimensions; 1 given")
	case [][][]float64, [][][]int:
		return nil, errors.Wrap(errors.ErrShape, "grid should have two dimensions; 3 given")
	default:
		return nil, errors.Wrapf(errors.ErrTypeMismatch, "grid must be a numeric 2-D matrix; %T given", v)
	}
}

func fromRows[T int | float64](rows [][]T) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.Wrap(errors.ErrShape, "grid is empty")
	}
	ncol := len(rows[0])
	data := make([]float64, 0, len(rows)*ncol)
	for i, row := range rows {
		if len(row) != ncol {
			return nil, errors.Wrapf(errors.ErrShape, "row %d has %d values, want %d", i, len(row), ncol)
		}
		for _, v := range row {
			data = append(data, float64(v))
		}
	}
	return mat.NewDense(len(rows), ncol, data), nil
}

package analysis

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/inflammation-cli/internal/errors"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func grid(t *testing.T, rows [][]float64) *mat.Dense {
	t.Helper()
	g, err := NewGrid(rows)
	require.NoError(t, err)
	return g
}

func TestDailyAggregates(t *testing.T) {
	zeros := [][]float64{{0, 0}, {0, 0}, {0, 0}}
	seq := [][]float64{{1, 2}, {3, 4}, {5, 6}}

	tests := []struct {
		name string
		fn   func(mat.Matrix) []float64
		in   [][]float64
		want []float64
	}{
		{"mean zeros", DailyMean, zeros, []float64{0, 0}},
		{"mean seq", DailyMean, seq, []float64{3, 4}},
		{"max zeros", DailyMax, zeros, []float64{0, 0}},
		{"max seq", DailyMax, seq, []float64{5, 6}},
		{"min zeros", DailyMin, zeros, []float64{0, 0}},
		{"min seq", DailyMin, seq, []float64{1, 2}},
		{"std zeros", DailyStd, zeros, []float64{0, 0}},
		{"std seq", DailyStd, seq, []float64{math.Sqrt(8.0 / 3), math.Sqrt(8.0 / 3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(grid(t, tt.in))
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDailyAggregatesLengthMatchesDays(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 20; trial++ {
		r, c := 1+rng.IntN(10), 1+rng.IntN(40)
		data := make([]float64, r*c)
		for i := range data {
			data[i] = rng.Float64() * 20
		}
		g := mat.NewDense(r, c, data)
		for _, fn := range []func(mat.Matrix) []float64{DailyMean, DailyMax, DailyMin, DailyStd} {
			assert.Len(t, fn(g), c)
		}
	}
}

func TestDailyAggregatesPropagateMissing(t *testing.T) {
	g := grid(t, [][]float64{{math.NaN(), 1}, {2, 3}})
	nan := math.NaN()
	opts := cmp.Options{approx, cmpopts.EquateNaNs()}

	if diff := cmp.Diff([]float64{nan, 2}, DailyMean(g), opts); diff != "" {
		t.Errorf("mean (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{nan, 3}, DailyMax(g), opts); diff != "" {
		t.Errorf("max (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{nan, 1}, DailyMin(g), opts); diff != "" {
		t.Errorf("min (-want +got):\n%s", diff)
	}
}

func TestDailyAggregatesEmptyGrid(t *testing.T) {
	var g mat.Dense
	assert.Empty(t, DailyMean(&g))
	assert.Empty(t, DailyMin(&g))
}

func TestNewGridRejectsNonNumeric(t *testing.T) {
	_, err := NewGrid([][]string{{"Hello", "there"}, {"General", "Kenobi"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTypeMismatch), "got %v", err)

	_, err = NewGrid(nil)
	assert.True(t, errors.Is(err, errors.ErrTypeMismatch), "got %v", err)
}

func TestNewGridShapeErrors(t *testing.T) {
	cases := map[string]any{
		"one dimension":    []float64{1, 2, 3},
		"three dimensions": [][][]float64{{{1}}},
		"empty":            [][]float64{},
		"ragged":           [][]int{{1, 2}, {3}},
		"empty dense":      &mat.Dense{},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewGrid(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrShape), "got %v", err)
		})
	}
}

func TestNewGridCopies(t *testing.T) {
	src := mat.NewDense(1, 2, []float64{1, 2})
	g, err := NewGrid(src)
	require.NoError(t, err)
	src.Set(0, 0, 99)
	assert.Equal(t, 1.0, g.At(0, 0))

	g, err = NewGrid([][]int{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, 4.0, g.At(1, 1))
}

func TestDailyAboveThreshold(t *testing.T) {
	g := grid(t, [][]float64{{1, 5, 3, 2}, {0, 0, 9, math.NaN()}})

	n, err := DailyAboveThreshold(g, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = DailyAboveThreshold(g, 1, -1)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "missing reading must not count")

	for _, idx := range []int{-1, 2, 10} {
		_, err := DailyAboveThreshold(g, idx, 0)
		assert.True(t, errors.Is(err, errors.ErrIndex), "patient %d: got %v", idx, err)
	}
}

func TestNormalisePatient(t *testing.T) {
	tests := []struct {
		name string
		in   [][]float64
		want [][]float64
	}{
		{
			name: "scales by row max",
			in:   [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
			want: [][]float64{{1.0 / 3, 2.0 / 3, 1}, {4.0 / 6, 5.0 / 6, 1}, {7.0 / 9, 8.0 / 9, 1}},
		},
		{
			name: "missing ignored in max and clamped to zero",
			in:   [][]float64{{math.NaN(), 1, 1}, {1, 1, 1}, {1, 1, 1}},
			want: [][]float64{{0, 1, 1}, {1, 1, 1}, {1, 1, 1}},
		},
		{
			name: "all zero row",
			in:   [][]float64{{0, 0, 0}, {1, 2, 4}},
			want: [][]float64{{0, 0, 0}, {0.25, 0.5, 1}},
		},
		{
			name: "all missing row",
			in:   [][]float64{{math.NaN(), math.NaN()}, {2, 1}},
			want: [][]float64{{0, 0}, {1, 0.5}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalisePatient(grid(t, tt.in))
			require.NoError(t, err)
			assert.True(t, mat.EqualApprox(grid(t, tt.want), got, 1e-9), "got %v", mat.Formatted(got))
		})
	}
}

func TestNormalisePatientIdempotent(t *testing.T) {
	g := grid(t, [][]float64{{0, 2, 7}, {1, 1, 3}, {5, 0, 0}, {0, 0, 0}})
	once, err := NormalisePatient(g)
	require.NoError(t, err)
	twice, err := NormalisePatient(once)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(once, twice, 1e-12))
}

func TestNormalisePatientRowInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	r, c := 12, 30
	data := make([]float64, r*c)
	for i := range data {
		data[i] = float64(rng.IntN(20))
	}
	// force one all-zero patient
	for j := 0; j < c; j++ {
		data[j] = 0
	}
	out, err := NormalisePatient(mat.NewDense(r, c, data))
	require.NoError(t, err)

	for i := 0; i < r; i++ {
		row := mat.Row(nil, i, out)
		peak := 0.0
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.0)
			peak = math.Max(peak, v)
		}
		if i == 0 {
			assert.Equal(t, 0.0, peak)
		} else {
			assert.InDelta(t, 1.0, peak, 1e-12)
		}
	}
}

func TestNormalisePatientDoesNotMutateInput(t *testing.T) {
	g := grid(t, [][]float64{{2, 4}})
	_, err := NormalisePatient(g)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, mat.Row(nil, 0, g))
}

func TestNormalisePatientErrors(t *testing.T) {
	_, err := NormalisePatient(grid(t, [][]float64{{-1, 2, 3}, {4, 5, 6}}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDomain), "got %v", err)

	_, err = NormalisePatient(&mat.Dense{})
	assert.True(t, errors.Is(err, errors.ErrShape), "got %v", err)
}

func TestSummariseOrder(t *testing.T) {
	s := Summarise("inflammation-01.csv", grid(t, [][]float64{{1, 2, 3}, {3, 4, 5}}))
	assert.Equal(t, []string{"average", "std", "max", "min"}, s.Names())
	assert.Equal(t, 3, s.Days())
	assert.Equal(t, []float64{2, 3, 4}, s.Series[0].Values)
	assert.Equal(t, "inflammation-01.csv", s.Source)
}

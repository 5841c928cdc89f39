package analysis

import "gonum.org/v1/gonum/mat"

// Series is one named statistic with a value per day.
type Series struct {
	Name   string
	Values []float64
}

// Summary is the ordered set of per-day statistics for one input.
type Summary struct {
	Source string
	Series []Series
}

// Summarise computes the statistics shown by the text and chart views, in
// display order.
func Summarise(source string, g mat.Matrix) Summary {
	return Summary{
		Source: source,
		Series: []Series{
			{Name: "average", Values: DailyMean(g)},
			{Name: "std", Values: DailyStd(g)},
			{Name: "max", Values: DailyMax(g)},
			{Name: "min", Values: DailyMin(g)},
		},
	}
}

// Names returns the statistic names in display order.
func (s Summary) Names() []string {
	names := make([]string, len(s.Series))
	for i, sr := range s.Series {
		names[i] = sr.Name
	}
	return names
}

// Days returns the length of the shortest series.
func (s Summary) Days() int {
	if len(s.Series) == 0 {
		return 0
	}
	n := len(s.Series[0].Values)
	for _, sr := range s.Series[1:] {
		if len(sr.Values) < n {
			n = len(sr.Values)
		}
	}
	return n
}

// Package views renders analysis summaries and patient records.
package views

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/inflammation-cli/internal/analysis"
	"github.com/KaramelBytes/inflammation-cli/internal/models"
)

// DefaultPrecision is the number of decimal places in text output.
const DefaultPrecision = 4

// OnScreen writes the summary as a tab-separated table: a header of
// statistic names, then one line per day.
func OnScreen(w io.Writer, s analysis.Summary) error {
	return WriteTable(w, s, DefaultPrecision)
}

// WriteTable is OnScreen with a configurable number of decimal places.
func WriteTable(w io.Writer, s analysis.Summary, precision int) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(s.Names(), "\t"))
	bw.WriteByte('\n')
	cells := make([]string, len(s.Series))
	for day := 0; day < s.Days(); day++ {
		for i, sr := range s.Series {
			cells[i] = formatValue(sr.Values[day], precision)
		}
		bw.WriteString(strings.Join(cells, "\t"))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// DisplayPatient writes the patient's name followed by one day/value line per
// observation in insertion order.
func DisplayPatient(w io.Writer, p *models.Patient) error {
	if p == nil {
		return fmt.Errorf("display patient: nil patient")
	}
	bw := bufio.NewWriter(w)
	bw.WriteString(p.Name)
	bw.WriteByte('\n')
	for _, o := range p.Observations() {
		fmt.Fprintf(bw, "%d\t%s\n", o.Day(), formatValue(o.Value(), DefaultPrecision))
	}
	return bw.Flush()
}

// formatValue rounds half to even and prints the shortest representation.
func formatValue(v float64, precision int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	scale := math.Pow10(precision)
	r := math.RoundToEven(v*scale) / scale
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

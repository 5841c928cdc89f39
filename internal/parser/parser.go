package parser

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/inflammation-cli/internal/errors"
)

// Options tunes how a table is read.
type Options struct {
	// Sheet selects the XLSX worksheet; empty means the first sheet.
	Sheet string
}

// Loader reads one file format into a patients x days grid.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) (*mat.Dense, error)
}

var registry []Loader

// Register adds a loader implementation to the registry. Loaders registered
// earlier take precedence.
func Register(l Loader) {
	registry = append(registry, l)
}

// LoadFile selects a loader based on filename and returns the parsed grid.
// Files with an unrecognised extension are read as comma-delimited text.
func LoadFile(path string, opt Options) (*mat.Dense, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return csvLoader{}.Load(path, opt)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

// buildGrid converts rectangular string records into a dense grid. Empty
// fields become NaN, the missing-value sentinel.
func buildGrid(source string, rows [][]string) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrParse, "%s: no data rows", source),
			"expected one line per patient with one value per day")
	}
	ncol := len(rows[0])
	data := make([]float64, 0, len(rows)*ncol)
	for i, row := range rows {
		if len(row) != ncol {
			return nil, errors.Wrapf(errors.ErrParse, "%s: row %d has %d fields, want %d", source, i+1, len(row), ncol)
		}
		for j, field := range row {
			x, ok := parseField(field)
			if !ok {
				return nil, errors.WithHint(
					errors.Wrapf(errors.ErrParse, "%s: row %d, column %d: %q is not numeric", source, i+1, j+1, field),
					"the table must not have a header row")
			}
			data = append(data, x)
		}
	}
	return mat.NewDense(len(rows), ncol, data), nil
}

func parseField(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return math.NaN(), true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

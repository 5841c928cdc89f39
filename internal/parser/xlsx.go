package parser

import (
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/inflammation-cli/internal/errors"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".xlsx")
}

// Load reads the selected worksheet. excelize trims trailing empty cells from
// each row, so short rows are padded to the widest row and the gap reads as
// missing. A blank row inside the table is a patient with no readings, the
// same as a row of empty fields in CSV; trailing blank rows are dropped.
func (xlsxLoader) Load(path string, opt Options) (*mat.Dense, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "open xlsx"), errors.ErrParse)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Wrapf(errors.ErrParse, "%s: workbook has no sheets", filepath.Base(path))
	}
	sheet := sheets[0]
	if opt.Sheet != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, errors.WithHintf(
				errors.Wrapf(errors.ErrParse, "sheet '%s' not found in workbook '%s'", opt.Sheet, filepath.Base(path)),
				"available sheets: %s", strings.Join(sheets, ", "))
		}
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read sheet %s", sheet), errors.ErrParse)
	}
	end := len(raw)
	for end > 0 && isBlank(raw[end-1]) {
		end--
	}
	rows := raw[:end]
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return buildGrid(filepath.Base(path)+"#"+sheet, rows)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Package excel converts a result set into an XLSX workbook with a single
// sheet named after the target table. Numbers and booleans are written as
// native cell values, timestamps get a date-formatted style, documents are
// stored as compact JSON text.
package excel

import (
	"fmt"
	"io"

	"pgconvert/converters"
	"pgconvert/converters/common"

	"github.com/xuri/excelize/v2"
)

func init() {
	converters.Register("xlsx", &Converter{})
}

// Converter implements the XLSX output format.
type Converter struct{}

var _ common.Converter = (*Converter)(nil)

// Preprocess is the identity: spreadsheet headers can hold any column name.
func (c *Converter) Preprocess(rs *common.ResultSet, req *common.Request) *common.ResultSet {
	return rs
}

func (c *Converter) Convert(rs *common.ResultSet, req *common.Request) (common.Artifact, error) {
	f := excelize.NewFile()
	sheet := req.TargetTable()
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("excel: failed to create header style: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	if err != nil {
		return nil, fmt.Errorf("excel: failed to create date style: %w", err)
	}

	for i, name := range rs.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("excel: invalid header coordinate: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, fmt.Errorf("excel: failed to write header %q: %w", name, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("excel: failed to style header %q: %w", name, err)
		}
	}

	for r, row := range rs.Rows {
		for i := range rs.Columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("excel: invalid cell coordinate: %w", err)
			}
			if i >= len(row) || row[i].IsNull() {
				continue
			}
			v := row[i]
			if err := f.SetCellValue(sheet, cell, cellValue(v)); err != nil {
				return nil, fmt.Errorf("excel: failed to write cell %s: %w", cell, err)
			}
			if v.Kind == common.KindTimestamp {
				if err := f.SetCellStyle(sheet, cell, cell, dateStyle); err != nil {
					return nil, fmt.Errorf("excel: failed to style cell %s: %w", cell, err)
				}
			}
		}
	}

	return &artifact{f: f}, nil
}

// artifact adapts the workbook to the shared artifact contract; excelize's
// WriteTo carries variadic options and cannot be used directly.
type artifact struct {
	f *excelize.File
}

func (a *artifact) WriteTo(w io.Writer) (int64, error) {
	return a.f.WriteTo(w)
}

func cellValue(v common.Value) any {
	switch v.Kind {
	case common.KindInteger:
		return v.Int
	case common.KindFloat:
		return v.Float
	case common.KindText:
		return v.Text
	case common.KindBool:
		return v.Bool
	case common.KindTimestamp:
		return v.Time
	case common.KindDocument:
		return v.DocJSON()
	}
	return v.String()
}

// Package export writes result rows as delimited text, Excel workbooks or
// console tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/jmaanova/jmaanova/pkg/results"
)

// missing is written for NaN values in text formats.
const missing = "NA"

// DefaultSheet is the worksheet name used by WriteFile.
const DefaultSheet = "Results"

// FormatValue renders a value the way R prints it in delimited files.
func FormatValue(value float64) string {
	switch {
	case math.IsNaN(value):
		return missing
	case math.IsInf(value, 1):
		return "Inf"
	case math.IsInf(value, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// Records returns one record per row: the probeset id followed by its values.
func Records(rows []results.ProbesetRow) [][]string {
	records := make([][]string, len(rows))
	for i, row := range rows {
		values := row.Values()
		record := make([]string, 0, len(values)+1)
		record = append(record, row.ID())
		for _, value := range values {
			record = append(record, FormatValue(value))
		}
		records[i] = record
	}
	return records
}

// WriteDelimited writes header and rows separated by sep, ',' for CSV and
// '\t' for TSV.
func WriteDelimited(w io.Writer, sep rune, header []string, rows []results.ProbesetRow) error {
	writer := csv.NewWriter(w)
	writer.Comma = sep
	if len(header) > 0 {
		if err := writer.Write(header); err != nil {
			return errors.Wrap(err, "cannot write header")
		}
	}
	if err := writer.WriteAll(Records(rows)); err != nil {
		return errors.Wrap(err, "cannot write rows")
	}
	return nil
}

// WriteXLSX writes header and rows to a new workbook at path. Values are
// stored as numbers; NaN leaves the cell empty.
func WriteXLSX(path, sheet string, header []string, rows []results.ProbesetRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = DefaultSheet
	}
	index, err := f.NewSheet(sheet)
	if err != nil {
		return errors.Wrapf(err, "cannot create sheet %q", sheet)
	}
	f.SetActiveSheet(index)
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return errors.Wrap(err, "cannot remove default sheet")
		}
	}

	for c, title := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return errors.Wrapf(err, "cannot write %s", cell)
		}
	}

	first := 1
	if len(header) > 0 {
		first = 2
	}
	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, first+r)
		if err := f.SetCellValue(sheet, cell, row.ID()); err != nil {
			return errors.Wrapf(err, "cannot write %s", cell)
		}
		for c, value := range row.Values() {
			if math.IsNaN(value) || math.IsInf(value, 0) {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+2, first+r)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return errors.Wrapf(err, "cannot write %s", cell)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "cannot save %s", path)
	}
	return nil
}

// RenderTable draws header and at most limit rows as a console table. A
// limit of zero or less draws every row.
func RenderTable(w io.Writer, header []string, rows []results.ProbesetRow, limit int) {
	shown := rows
	if limit > 0 && len(rows) > limit {
		shown = rows[:limit]
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	for _, record := range Records(shown) {
		table.Append(record)
	}
	if len(shown) < len(rows) {
		table.SetCaption(true, fmt.Sprintf("%d of %d rows shown.", len(shown), len(rows)))
	}
	table.Render()
}

// WriteFile writes the rows to path in the format its extension names:
// .csv, .tsv or .txt (tab separated) and .xlsx.
func WriteFile(path string, header []string, rows []results.ProbesetRow) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return WriteXLSX(path, DefaultSheet, header, rows)
	case ".csv":
		return writeDelimitedFile(path, ',', header, rows)
	case ".tsv", ".txt":
		return writeDelimitedFile(path, '\t', header, rows)
	}
	return errors.Errorf("cannot tell the format of %q from its extension", path)
}

func writeDelimitedFile(path string, sep rune, header []string, rows []results.ProbesetRow) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create %s", path)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "cannot close %s", path)
		}
	}()
	return WriteDelimited(file, sep, header, rows)
}

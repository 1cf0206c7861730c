// Package render writes tabular query results in the supported output
// formats: aligned text, CSV, JSON, and XLSX.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/urbandatalab/udlai-go/pkg/udlai"
)

// Format is an output format name.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// Table writes t to w in the given format. XLSX output needs a file
// path, use XLSX directly for that.
func Table(w io.Writer, t *udlai.Table, format Format) error {
	switch format {
	case FormatText, "":
		return Text(w, t)
	case FormatCSV:
		return CSV(w, t)
	case FormatJSON:
		return JSON(w, t)
	default:
		return eris.Errorf("render: unsupported format %q", format)
	}
}

// Text writes an aligned plain-text table.
func Text(w io.Writer, t *udlai.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for i, col := range t.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)

	for _, row := range t.Rows {
		for i, col := range t.Columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cellString(row[col]))
		}
		fmt.Fprintln(tw)
	}

	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "render: flush text table")
	}
	return nil
}

// CSV writes the table with a header row.
func CSV(w io.Writer, t *udlai.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns); err != nil {
		return eris.Wrap(err, "render: write CSV header")
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = cellString(row[col])
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "render: write CSV row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "render: flush CSV")
	}
	return nil
}

// JSON writes the rows as an indented JSON array. Missing cells are
// explicit nulls so every row carries the full column set.
func JSON(w io.Writer, t *udlai.Table) error {
	rows := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		obj := make(map[string]any, len(t.Columns))
		for _, col := range t.Columns {
			obj[col] = row[col]
		}
		rows[i] = obj
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return eris.Wrap(err, "render: encode JSON")
	}
	return nil
}

// XLSX writes the table to a spreadsheet file with a header row.
func XLSX(path string, t *udlai.Table) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("results")
	if err != nil {
		return eris.Wrap(err, "render: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range t.Columns {
		header.AddCell().SetString(col)
	}

	for _, row := range t.Rows {
		r := sheet.AddRow()
		for _, col := range t.Columns {
			cell := r.AddCell()
			switch v := row[col].(type) {
			case nil:
				// leave the cell empty
			case float64:
				cell.SetFloat(v)
			case int:
				cell.SetInt(v)
			case bool:
				cell.SetBool(v)
			case string:
				cell.SetString(v)
			default:
				cell.SetString(cellString(v))
			}
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "render: save xlsx")
	}
	return nil
}

// cellString formats a cell for text output. Missing cells render empty.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

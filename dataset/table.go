// Package dataset loads heatmap points and rects from JSON, CSV and XLSX
// files and follows CSV files that are still being written.
package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/heatmap"
)

// ErrColumn is returned when a required column is missing from a table.
var ErrColumn = errors.New("dataset: column not found")

// Format is a dataset file format.
type Format uint8

const (
	FormatJSON Format = iota
	FormatCSV
	FormatXLSX
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// FormatOf returns the format implied by the file extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return 0, fmt.Errorf("dataset: unknown file type %q", filepath.Ext(path))
}

// Columns names the table columns holding each field. Names match headers
// case-insensitively. Empty names use the defaults "x", "y", "value",
// "sizeX" and "sizeY".
type Columns struct {
	X, Y, Value  string
	SizeX, SizeY string
}

func (c Columns) withDefaults() Columns {
	def := func(s, d string) string {
		if s == "" {
			return d
		}
		return s
	}
	return Columns{
		X:     def(c.X, "x"),
		Y:     def(c.Y, "y"),
		Value: def(c.Value, "value"),
		SizeX: def(c.SizeX, "sizeX"),
		SizeY: def(c.SizeY, "sizeY"),
	}
}

// Table is tabular data with a header row.
type Table struct {
	Header []string
	Rows   [][]string
}

// index returns the position of the named column.
func (t *Table) index(name string) (int, error) {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrColumn, name)
}

func (t *Table) indices(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		var err error
		if idx[i], err = t.index(n); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Points converts the rows to points. Empty rows are skipped; a cell that
// is not a number is an error naming its row (1-based, header excluded).
func (t *Table) Points(cols Columns) ([]heatmap.Point, error) {
	cols = cols.withDefaults()
	idx, err := t.indices(cols.X, cols.Y, cols.Value)
	if err != nil {
		return nil, err
	}
	points := make([]heatmap.Point, 0, len(t.Rows))
	for r, row := range t.Rows {
		if blank(row) {
			continue
		}
		v, err := numbers(row, idx)
		if err != nil {
			return nil, fmt.Errorf("dataset: row %d: %w", r+1, err)
		}
		points = append(points, heatmap.Point{X: v[0], Y: v[1], Value: v[2]})
	}
	return points, nil
}

// Rects converts the rows to horizontal-mode rects.
func (t *Table) Rects(cols Columns) ([]heatmap.Rect, error) {
	cols = cols.withDefaults()
	idx, err := t.indices(cols.X, cols.Y, cols.SizeX, cols.SizeY, cols.Value)
	if err != nil {
		return nil, err
	}
	rects := make([]heatmap.Rect, 0, len(t.Rows))
	for r, row := range t.Rows {
		if blank(row) {
			continue
		}
		v, err := numbers(row, idx)
		if err != nil {
			return nil, fmt.Errorf("dataset: row %d: %w", r+1, err)
		}
		rects = append(rects, heatmap.Rect{X: v[0], Y: v[1], SizeX: v[2], SizeY: v[3], Value: v[4]})
	}
	return rects, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func numbers(row []string, idx []int) ([]float64, error) {
	out := make([]float64, len(idx))
	for i, col := range idx {
		if col >= len(row) {
			return nil, fmt.Errorf("missing column %d", col+1)
		}
		cell := strings.TrimSpace(row[col])
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", col+1, err)
		}
		out[i] = v
	}
	return out, nil
}

package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/gogpu/heatmap"
)

// jsonPoint and jsonRect are the JSON shapes of a point and a rect.
type jsonPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
}

type jsonRect struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	SizeX float64 `json:"sizeX"`
	SizeY float64 `json:"sizeY"`
	Value float64 `json:"value"`
}

// ReadPointsJSON decodes an array of {"x", "y", "value"} objects.
func ReadPointsJSON(r io.Reader) ([]heatmap.Point, error) {
	var raw []jsonPoint
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("dataset: decode points: %w", err)
	}
	points := make([]heatmap.Point, len(raw))
	for i, p := range raw {
		points[i] = heatmap.Point{X: p.X, Y: p.Y, Value: p.Value}
	}
	return points, nil
}

// ReadRectsJSON decodes an array of {"x", "y", "sizeX", "sizeY", "value"}
// objects.
func ReadRectsJSON(r io.Reader) ([]heatmap.Rect, error) {
	var raw []jsonRect
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("dataset: decode rects: %w", err)
	}
	rects := make([]heatmap.Rect, len(raw))
	for i, q := range raw {
		rects[i] = heatmap.Rect{X: q.X, Y: q.Y, SizeX: q.SizeX, SizeY: q.SizeY, Value: q.Value}
	}
	return rects, nil
}

// ReadCSV reads a CSV table whose first record is the header.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset: read csv: %w", io.ErrUnexpectedEOF)
	}
	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// ReadXLSX reads a worksheet whose first row is the header. An empty sheet
// name selects the first sheet of the workbook.
func ReadXLSX(r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("dataset: open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("dataset: workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("dataset: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset: sheet %q is empty", sheet)
	}
	return &Table{Header: rows[0], Rows: rows[1:]}, nil
}

// Options control ReadFile.
type Options struct {
	Columns Columns
	Sheet   string // XLSX worksheet, default the first
}

// ReadPointsFile loads points from a JSON, CSV or XLSX file, chosen by
// extension.
func ReadPointsFile(path string, opts Options) ([]heatmap.Point, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if format == FormatJSON {
		return ReadPointsJSON(f)
	}
	t, err := readTable(f, format, opts.Sheet)
	if err != nil {
		return nil, err
	}
	return t.Points(opts.Columns)
}

// ReadRectsFile loads rects from a JSON, CSV or XLSX file, chosen by
// extension.
func ReadRectsFile(path string, opts Options) ([]heatmap.Rect, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if format == FormatJSON {
		return ReadRectsJSON(f)
	}
	t, err := readTable(f, format, opts.Sheet)
	if err != nil {
		return nil, err
	}
	return t.Rects(opts.Columns)
}

func readTable(r io.Reader, format Format, sheet string) (*Table, error) {
	if format == FormatXLSX {
		return ReadXLSX(r, sheet)
	}
	return ReadCSV(r)
}

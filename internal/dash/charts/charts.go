// Package charts turns one uploaded delimited-text table into the shared
// series structure that drives every chart view. The pipeline is stateless:
// it is recomputed from the stored bytes on every request.
package charts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Palette is the fixed fill palette, cycled per data point.
var Palette = [6]string{"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF", "#FF9F40"}

const (
	borderColor = "#ddd"
	borderWidth = 1

	// labelColumn and valueColumn are the designated table columns. A row
	// without a label gets a synthesized "Row N"; a value that does not
	// parse as a number coerces to 0.
	labelColumn = "Label"
	valueColumn = "Value"
)

// Views are the chart types rendered from one series. They all consume the
// identical structure; there is no per-view transformation.
var Views = []string{"bar", "pie", "line"}

// ErrEmptyTable reports input with no header row.
var ErrEmptyTable = errors.New("charts: table has no header row")

// Row maps header names to cell values for one table row.
type Row map[string]string

// Dataset is one data series over the table's value column.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
}

// Series is the shared labeled-value structure driving all chart views.
type Series struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// ParseTable reads delimited text with a header row into rows. Parsing is
// lenient: ragged rows keep whatever fields line up with the header, fully
// blank rows are skipped, and a malformed row is dropped rather than failing
// the table.
func ParseTable(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyTable
		}
		return nil, fmt.Errorf("charts: read header: %w", err)
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue // drop malformed row, keep the rest
		}
		if blank(record) {
			continue
		}

		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// BuildSeries projects rows to (label, value) pairs and assembles the single
// shared series. Labels fall back to "Row N" (1-based); values default to 0
// when missing or non-numeric.
func BuildSeries(rows []Row) Series {
	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	colors := make([]string, len(rows))

	for i, row := range rows {
		labels[i] = row[labelColumn]
		if labels[i] == "" {
			labels[i] = fmt.Sprintf("Row %d", i+1)
		}

		values[i] = parseNumber(row[valueColumn])

		colors[i] = Palette[i%len(Palette)]
	}

	return Series{
		Labels: labels,
		Datasets: []Dataset{{
			Label:           "Dataset",
			Data:            values,
			BackgroundColor: colors,
			BorderColor:     borderColor,
			BorderWidth:     borderWidth,
		}},
	}
}

// SeriesFromTable runs the full pipeline: parse then build.
func SeriesFromTable(r io.Reader) (Series, error) {
	rows, err := ParseTable(r)
	if err != nil {
		return Series{}, err
	}
	return BuildSeries(rows), nil
}

// parseNumber reads the longest numeric prefix of a cell, so "12abc" charts
// as 12. Cells with no numeric prefix, and non-finite values JSON cannot
// carry, chart as 0.
func parseNumber(cell string) float64 {
	cell = strings.TrimSpace(cell)
	for end := len(cell); end > 0; end-- {
		v, err := strconv.ParseFloat(cell[:end], 64)
		if err != nil {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	}
	return 0
}

func blank(record []string) bool {
	for _, cell := range record {
		if cell != "" {
			return false
		}
	}
	return true
}

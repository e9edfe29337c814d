// Copyright (c) 2023 The KBase Project and its Contributors
// Copyright (c) 2023 Cohere Consulting, LLC
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package readers

import (
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/frictionlessdata/tableschema-go/csv"

	"github.com/climind/climind/capabilities"
	"github.com/climind/climind/data"
	"github.com/climind/climind/metadata"
)

// default column names for CSV timeseries
const (
	defaultTimeColumn  = "year"
	defaultMonthColumn = "month"
	defaultValueColumn = "data"
)

// strings treated as missing values (in addition to any given by a dataset's
// "missing_value" attribute)
var missingValues = []string{"", "NA", "NaN", "nan", "---"}

// Reads an annual or monthly timeseries from a CSV file in inputDir. The file
// is named by the dataset's "filename" attribute, or else by its first URL.
// Columns are "year", an optional "month", and "data", unless the dataset's
// "time_column", "month_column", and "value_column" attributes say otherwise.
func ReadCSVTimeSeries(inputDir string, md metadata.Record,
	options capabilities.Options) (data.Data, error) {
	filename, err := dataFileName(md)
	if err != nil {
		return nil, err
	}

	table, err := csv.NewTable(csv.FromFile(filepath.Join(inputDir, filename)), csv.LoadHeaders())
	if err != nil {
		return nil, err
	}
	rows, err := table.ReadAll()
	if err != nil {
		return nil, err
	}

	headers := table.Headers()
	column := func(name string) int {
		return slices.Index(headers, name)
	}
	timeColumn := stringAttribute(md, "time_column", defaultTimeColumn)
	valueColumn := stringAttribute(md, "value_column", defaultValueColumn)
	yearIndex, valueIndex := column(timeColumn), column(valueColumn)
	if yearIndex == -1 {
		return nil, &MissingColumnError{File: filename, Column: timeColumn}
	}
	if valueIndex == -1 {
		return nil, &MissingColumnError{File: filename, Column: valueColumn}
	}
	monthIndex := column(stringAttribute(md, "month_column", defaultMonthColumn))

	missing := slices.Clone(missingValues)
	missing = append(missing, md.GetStrings("missing_value")...)

	times := make([]data.Time, 0, len(rows))
	values := make([]float64, 0, len(rows))
	for i, row := range rows {
		rowNumber := i + 2 // 1-based, after the header
		field := func(index int) string {
			if index < len(row) {
				return strings.TrimSpace(row[index])
			}
			return ""
		}
		year, err := parseInteger(field(yearIndex))
		if err != nil {
			return nil, &ValueError{File: filename, Row: rowNumber,
				Message: fmt.Sprintf("bad %s: %s", timeColumn, err.Error())}
		}
		t := data.Time{Year: year}
		if monthIndex != -1 {
			t.Month, err = parseInteger(field(monthIndex))
			if err != nil || t.Month < 1 || t.Month > 12 {
				return nil, &ValueError{File: filename, Row: rowNumber,
					Message: fmt.Sprintf("bad month '%s'", field(monthIndex))}
			}
		}
		value := math.NaN()
		if s := field(valueIndex); !slices.Contains(missing, s) {
			value, err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, &ValueError{File: filename, Row: rowNumber,
					Message: fmt.Sprintf("bad %s: %s", valueColumn, err.Error())}
			}
		}
		times = append(times, t)
		values = append(values, value)
	}
	return data.NewTimeSeries(times, values, md)
}

// parses an integer that may be written as a float ("1850.0")
func parseInteger(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s is not a whole number", s)
	}
	return int(f), nil
}

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
	"regexp"
	"strconv"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/climind/climind/capabilities"
	"github.com/climind/climind/data"
	"github.com/climind/climind/metadata"
)

// grid spacings closer than this (in degrees) are considered equal
const resolutionTolerance = 1e-6

// Reads a gridded field from a NetCDF file in inputDir. The file is named as
// for ReadCSVTimeSeries. The field is the variable named by the dataset's
// "netcdf_variable" attribute (or else its "variable" attribute), with
// dimensions (time, latitude, longitude). If the "resolution" option is given,
// the grid spacing must match it.
func ReadNetCDFGrid(inputDir string, md metadata.Record,
	options capabilities.Options) (data.Data, error) {
	filename, err := dataFileName(md)
	if err != nil {
		return nil, err
	}
	nc, err := netcdf.Open(filepath.Join(inputDir, filename))
	if err != nil {
		return nil, err
	}
	defer nc.Close()

	lats, err := axisValues(nc, filename, "latitude", "lat")
	if err != nil {
		return nil, err
	}
	lons, err := axisValues(nc, filename, "longitude", "lon")
	if err != nil {
		return nil, err
	}
	times, err := timeValues(nc, filename, md.GetString("time_resolution") == "annual")
	if err != nil {
		return nil, err
	}

	name := stringAttribute(md, "netcdf_variable", md.GetString("variable"))
	field, err := nc.GetVariable(name)
	if err != nil {
		return nil, &MissingColumnError{File: filename, Column: name}
	}
	values, err := fieldValues(field, filename, name)
	if err != nil {
		return nil, err
	}

	grid, err := data.NewGrid(times, lats, lons, values, md)
	if err != nil {
		return nil, err
	}
	if requested, found := options["resolution"]; found {
		resolution, ok := toFloat(requested)
		if !ok {
			return nil, fmt.Errorf("Invalid resolution option: %v", requested)
		}
		if err := checkResolution(grid, filename, resolution); err != nil {
			return nil, err
		}
	}
	return grid, nil
}

// returns a ResolutionError naming the first axis whose spacing differs from
// the given resolution
func checkResolution(grid *data.Grid, filename string, resolution float64) error {
	dlat, dlon := grid.Resolution()
	if math.Abs(dlat-resolution) > resolutionTolerance {
		return &ResolutionError{File: filename, Axis: "latitude", Requested: resolution, Actual: dlat}
	}
	if math.Abs(dlon-resolution) > resolutionTolerance {
		return &ResolutionError{File: filename, Axis: "longitude", Requested: resolution, Actual: dlon}
	}
	return nil
}

// reads the values of the first of the named coordinate variables present in
// the file
func axisValues(nc api.Group, filename string, names ...string) ([]float64, error) {
	for _, name := range names {
		v, err := nc.GetVariable(name)
		if err != nil {
			continue
		}
		values, ok := toFloats(v.Values)
		if !ok {
			return nil, &UnsupportedVariableError{File: filename, Variable: name,
				Message: fmt.Sprintf("values are %T, not a list of numbers", v.Values)}
		}
		return values, nil
	}
	return nil, &MissingColumnError{File: filename, Column: names[0]}
}

var timeUnitsPattern = regexp.MustCompile(`^\s*(days|hours|minutes|seconds|months|years)\s+since\s+(\d{1,4})-(\d{1,2})-(\d{1,2})`)

// reads the time coordinate, interpreting CF-style units ("days since
// 1850-01-01") and truncating each time to its month (or year, for annual
// data)
func timeValues(nc api.Group, filename string, annual bool) ([]data.Time, error) {
	v, err := nc.GetVariable("time")
	if err != nil {
		return nil, &MissingColumnError{File: filename, Column: "time"}
	}
	offsets, ok := toFloats(v.Values)
	if !ok {
		return nil, &UnsupportedVariableError{File: filename, Variable: "time",
			Message: fmt.Sprintf("values are %T, not a list of numbers", v.Values)}
	}
	var units string
	if v.Attributes != nil {
		if u, found := v.Attributes.Get("units"); found {
			units, _ = u.(string)
		}
	}
	match := timeUnitsPattern.FindStringSubmatch(units)
	if match == nil {
		return nil, &UnsupportedVariableError{File: filename, Variable: "time",
			Message: fmt.Sprintf("unsupported units '%s'", units)}
	}
	year, _ := strconv.Atoi(match[2])
	month, _ := strconv.Atoi(match[3])
	day, _ := strconv.Atoi(match[4])
	origin := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	times := make([]data.Time, len(offsets))
	for i, offset := range offsets {
		var t time.Time
		switch match[1] {
		case "years":
			t = origin.AddDate(int(offset), 0, 0)
		case "months":
			t = origin.AddDate(0, int(offset), 0)
		case "days":
			t = origin.Add(time.Duration(offset * float64(24*time.Hour)))
		case "hours":
			t = origin.Add(time.Duration(offset * float64(time.Hour)))
		case "minutes":
			t = origin.Add(time.Duration(offset * float64(time.Minute)))
		default:
			t = origin.Add(time.Duration(offset * float64(time.Second)))
		}
		times[i] = data.Time{Year: t.Year()}
		if !annual {
			times[i].Month = int(t.Month())
		}
	}
	return times, nil
}

// converts a (time, latitude, longitude) variable to float64s, applying any
// scale factor and offset and replacing fill values with NaN
func fieldValues(v *api.Variable, filename, name string) ([][][]float64, error) {
	var raw [][][]float64
	switch vals := v.Values.(type) {
	case [][][]float64:
		raw = convert3D(vals)
	case [][][]float32:
		raw = convert3D(vals)
	case [][][]int32:
		raw = convert3D(vals)
	case [][][]int16:
		raw = convert3D(vals)
	case [][][]int8:
		raw = convert3D(vals)
	default:
		return nil, &UnsupportedVariableError{File: filename, Variable: name,
			Message: fmt.Sprintf("values are %T, not a (time, latitude, longitude) field", v.Values)}
	}

	scale, offset, fill := 1.0, 0.0, math.NaN()
	if v.Attributes != nil {
		if s, found := v.Attributes.Get("scale_factor"); found {
			scale, _ = toFloat(s)
		}
		if o, found := v.Attributes.Get("add_offset"); found {
			offset, _ = toFloat(o)
		}
		if f, found := v.Attributes.Get("_FillValue"); found {
			fill, _ = toFloat(f)
		} else if f, found := v.Attributes.Get("missing_value"); found {
			fill, _ = toFloat(f)
		}
	}
	for _, field := range raw {
		for _, row := range field {
			for k, x := range row {
				if x == fill {
					row[k] = math.NaN()
				} else {
					row[k] = x*scale + offset
				}
			}
		}
	}
	return raw, nil
}

type number interface {
	~float64 | ~float32 | ~int64 | ~int32 | ~int16 | ~int8
}

func convert1D[T number](values []T) []float64 {
	converted := make([]float64, len(values))
	for i, x := range values {
		converted[i] = float64(x)
	}
	return converted
}

func convert3D[T number](values [][][]T) [][][]float64 {
	converted := make([][][]float64, len(values))
	for i, field := range values {
		converted[i] = make([][]float64, len(field))
		for j, row := range field {
			converted[i][j] = convert1D(row)
		}
	}
	return converted
}

// converts a list of numbers of any type to float64s
func toFloats(v any) ([]float64, bool) {
	switch vals := v.(type) {
	case []float64:
		return convert1D(vals), true
	case []float32:
		return convert1D(vals), true
	case []int64:
		return convert1D(vals), true
	case []int32:
		return convert1D(vals), true
	case []int16:
		return convert1D(vals), true
	case []int8:
		return convert1D(vals), true
	}
	return nil, false
}

// converts a number (or a single-element list of numbers, as attributes are
// sometimes stored) to a float64
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case int16:
		return float64(x), true
	case int8:
		return float64(x), true
	}
	if values, ok := toFloats(v); ok && len(values) == 1 {
		return values[0], true
	}
	return 0, false
}

// The data package holds the in-memory values produced by readers: annual
// or monthly timeseries and gridded fields, each tagged with the metadata of
// the dataset it was read from.
package data

import (
	"fmt"
	"math"

	"github.com/climind/climind/metadata"
)

// Kind distinguishes timeseries from gridded data.
type Kind string

const (
	TimeSeriesKind Kind = metadata.TimeSeriesType
	GridKind       Kind = metadata.GriddedType
)

// Data is the value returned by a reader.
type Data interface {
	// the kind of data (timeseries or gridded)
	Kind() Kind
	// a copy of the metadata of the dataset the data were read from
	Metadata() metadata.Record
}

// A Time is a point on a timeseries axis. Month is 0 for annual data.
type Time struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"`
}

func (t Time) String() string {
	if t.Month == 0 {
		return fmt.Sprintf("%04d", t.Year)
	}
	return fmt.Sprintf("%04d-%02d", t.Year, t.Month)
}

// returns true if t precedes u
func (t Time) Before(u Time) bool {
	if t.Year != u.Year {
		return t.Year < u.Year
	}
	return t.Month < u.Month
}

// A TimeSeries is a sequence of values with one value per time. Missing values
// are NaN.
type TimeSeries struct {
	Times  []Time
	Values []float64
	meta   metadata.Record
}

// creates a timeseries, checking that times and values line up, that months
// are 1-12 (or 0 for annual times), and that the times are strictly increasing
func NewTimeSeries(times []Time, values []float64, md metadata.Record) (*TimeSeries, error) {
	if len(times) != len(values) {
		return nil, &ShapeError{
			Message: fmt.Sprintf("%d times but %d values", len(times), len(values)),
		}
	}
	for _, t := range times {
		if t.Month < 0 || t.Month > 12 {
			return nil, &ShapeError{
				Message: fmt.Sprintf("time %d-%d has no valid month", t.Year, t.Month),
			}
		}
	}
	for i := 1; i < len(times); i++ {
		if !times[i-1].Before(times[i]) {
			return nil, &ShapeError{
				Message: fmt.Sprintf("time %s does not follow %s", times[i], times[i-1]),
			}
		}
		if (times[i].Month == 0) != (times[0].Month == 0) {
			return nil, &ShapeError{
				Message: "annual and monthly times are mixed",
			}
		}
	}
	return &TimeSeries{
		Times:  times,
		Values: values,
		meta:   md.Clone(),
	}, nil
}

func (ts *TimeSeries) Kind() Kind {
	return TimeSeriesKind
}

func (ts *TimeSeries) Metadata() metadata.Record {
	return ts.meta.Clone()
}

func (ts *TimeSeries) Len() int {
	return len(ts.Times)
}

// returns true if the series has monthly resolution
func (ts *TimeSeries) Monthly() bool {
	return len(ts.Times) > 0 && ts.Times[0].Month != 0
}

// returns the value at the given time, or false if there is none
func (ts *TimeSeries) At(t Time) (float64, bool) {
	for i, u := range ts.Times {
		if u == t {
			return ts.Values[i], true
		}
	}
	return math.NaN(), false
}

// A Grid is a sequence of latitude/longitude fields, indexed as
// Values[time][latitude][longitude]. Missing values are NaN.
type Grid struct {
	Times      []Time
	Latitudes  []float64
	Longitudes []float64
	Values     [][][]float64
	meta       metadata.Record
}

// creates a grid, checking that the field dimensions match the axes
func NewGrid(times []Time, lats, lons []float64, values [][][]float64, md metadata.Record) (*Grid, error) {
	if len(values) != len(times) {
		return nil, &ShapeError{
			Message: fmt.Sprintf("%d times but %d fields", len(times), len(values)),
		}
	}
	for t, field := range values {
		if len(field) != len(lats) {
			return nil, &ShapeError{
				Message: fmt.Sprintf("field %d has %d rows, expected %d latitudes",
					t, len(field), len(lats)),
			}
		}
		for i, row := range field {
			if len(row) != len(lons) {
				return nil, &ShapeError{
					Message: fmt.Sprintf("field %d row %d has %d columns, expected %d longitudes",
						t, i, len(row), len(lons)),
				}
			}
		}
	}
	return &Grid{
		Times:      times,
		Latitudes:  lats,
		Longitudes: lons,
		Values:     values,
		meta:       md.Clone(),
	}, nil
}

func (g *Grid) Kind() Kind {
	return GridKind
}

func (g *Grid) Metadata() metadata.Record {
	return g.meta.Clone()
}

// returns the latitude and longitude spacing of the grid in degrees, or zeros
// for axes with fewer than two points
func (g *Grid) Resolution() (float64, float64) {
	spacing := func(axis []float64) float64 {
		if len(axis) < 2 {
			return 0
		}
		return math.Abs(axis[1] - axis[0])
	}
	return spacing(g.Latitudes), spacing(g.Longitudes)
}

// indicates that the dimensions of a timeseries or grid are inconsistent
type ShapeError struct {
	Message string
}

func (e ShapeError) Error() string {
	return fmt.Sprintf("Inconsistent data shape: %s", e.Message)
}

// indicates that a timeseries has no values within a baseline period (or, for
// a monthly series, none for some month)
type BaselineError struct {
	Start, End int
	Month      int
}

func (e BaselineError) Error() string {
	if e.Month != 0 {
		return fmt.Sprintf("No values for month %d in the baseline period %d-%d", e.Month, e.Start, e.End)
	}
	return fmt.Sprintf("No values in the baseline period %d-%d", e.Start, e.End)
}

// Subtracts from each value the mean over the years start through end
// (inclusive), so that the series has a zero mean over that period. Monthly
// series are rebaselined month by month. Missing (NaN) values are skipped.
// The series is left unchanged if any of its months has no baseline values.
func (ts *TimeSeries) Rebaseline(start, end int) error {
	var sums, counts [13]float64 // indexed by month; 0 for annual series
	for _, t := range ts.Times {
		if t.Month < 0 || t.Month > 12 {
			return &ShapeError{
				Message: fmt.Sprintf("time %d-%d has no valid month", t.Year, t.Month),
			}
		}
	}
	for i, t := range ts.Times {
		if t.Year < start || t.Year > end || math.IsNaN(ts.Values[i]) {
			continue
		}
		sums[t.Month] += ts.Values[i]
		counts[t.Month]++
	}
	var means [13]float64
	for _, t := range ts.Times {
		if counts[t.Month] == 0 {
			return &BaselineError{Start: start, End: end, Month: t.Month}
		}
		means[t.Month] = sums[t.Month] / counts[t.Month]
	}
	for i, t := range ts.Times {
		ts.Values[i] -= means[t.Month]
	}
	return nil
}

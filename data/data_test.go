package data

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/climind/climind/metadata"
)

func TestNewTimeSeries(t *testing.T) {
	assert := assert.New(t)
	md := metadata.Record{"name": "HadCRUT5", "time_resolution": "monthly"}
	ts, err := NewTimeSeries(
		[]Time{{1850, 1}, {1850, 2}, {1850, 3}},
		[]float64{-0.67, -0.33, -0.59},
		md,
	)
	assert.Nil(err)
	assert.Equal(TimeSeriesKind, ts.Kind())
	assert.Equal(3, ts.Len())
	assert.True(ts.Monthly())
	v, found := ts.At(Time{1850, 2})
	assert.True(found)
	assert.Equal(-0.33, v)
	_, found = ts.At(Time{1851, 1})
	assert.False(found)

	// metadata is copied in and out
	md["name"] = "changed"
	assert.Equal("HadCRUT5", ts.Metadata()["name"])
	ts.Metadata()["name"] = "changed"
	assert.Equal("HadCRUT5", ts.Metadata()["name"])
}

func TestBadTimeSeriesIsRejected(t *testing.T) {
	for _, c := range []struct {
		times  []Time
		values []float64
	}{
		{[]Time{{1850, 0}, {1851, 0}}, []float64{1}},
		{[]Time{{1851, 0}, {1850, 0}}, []float64{1, 2}},
		{[]Time{{1850, 1}, {1850, 1}}, []float64{1, 2}},
		{[]Time{{1850, 0}, {1851, 1}}, []float64{1, 2}},
	} {
		_, err := NewTimeSeries(c.times, c.values, nil)
		var shapeErr *ShapeError
		assert.True(t, errors.As(err, &shapeErr), "%v accepted", c.times)
	}
}

func TestNewGrid(t *testing.T) {
	assert := assert.New(t)
	g, err := NewGrid(
		[]Time{{2000, 1}},
		[]float64{-2.5, 2.5},
		[]float64{0, 5, 10},
		[][][]float64{{{1, 2, 3}, {4, 5, 6}}},
		metadata.Record{"variable": "tas"},
	)
	assert.Nil(err)
	assert.Equal(GridKind, g.Kind())
	dlat, dlon := g.Resolution()
	assert.Equal(5.0, dlat)
	assert.Equal(5.0, dlon)

	_, err = NewGrid(
		[]Time{{2000, 1}},
		[]float64{-2.5, 2.5},
		[]float64{0, 5, 10},
		[][][]float64{{{1, 2, 3}, {4, 5}}},
		nil,
	)
	var shapeErr *ShapeError
	assert.True(errors.As(err, &shapeErr))
}

func TestTimeString(t *testing.T) {
	assert.Equal(t, "1850", Time{Year: 1850}.String())
	assert.Equal(t, "1850-07", Time{Year: 1850, Month: 7}.String())
}

func TestRebaselineAnnual(t *testing.T) {
	assert := assert.New(t)
	ts, err := NewTimeSeries(
		[]Time{{Year: 1980}, {Year: 1981}, {Year: 1982}, {Year: 1983}},
		[]float64{0.0, 0.2, math.NaN(), 0.4},
		nil,
	)
	assert.Nil(err)
	assert.Nil(ts.Rebaseline(1981, 1983))
	assert.InDelta(-0.3, ts.Values[0], 1e-12)
	assert.InDelta(-0.1, ts.Values[1], 1e-12)
	assert.True(math.IsNaN(ts.Values[2]))
	assert.InDelta(0.1, ts.Values[3], 1e-12)
}

func TestRebaselineMonthly(t *testing.T) {
	assert := assert.New(t)
	ts, err := NewTimeSeries(
		[]Time{{1990, 1}, {1990, 2}, {1991, 1}, {1991, 2}, {2020, 1}},
		[]float64{1, 10, 3, 20, 5},
		nil,
	)
	assert.Nil(err)
	assert.Nil(ts.Rebaseline(1981, 2010))
	assert.Equal([]float64{-1, -5, 1, 5, 3}, ts.Values)

	err = ts.Rebaseline(1850, 1900)
	var baselineErr *BaselineError
	assert.True(errors.As(err, &baselineErr))
	assert.Equal(1, baselineErr.Month)
	// unchanged by the failed rebaseline
	assert.Equal([]float64{-1, -5, 1, 5, 3}, ts.Values)
}

func TestMonthsOutOfRangeAreRejected(t *testing.T) {
	assert := assert.New(t)
	var shapeErr *ShapeError
	for _, month := range []int{13, -1} {
		_, err := NewTimeSeries([]Time{{Year: 1990, Month: month}}, []float64{1}, nil)
		assert.True(errors.As(err, &shapeErr), "month %d was accepted", month)
	}

	// a series assembled by hand can't crash rebaselining either
	ts := &TimeSeries{Times: []Time{{Year: 1990, Month: 13}}, Values: []float64{1}}
	err := ts.Rebaseline(1981, 2010)
	assert.True(errors.As(err, &shapeErr))
	assert.Equal([]float64{1}, ts.Values)
}

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

package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// a record like those found in a HadCRUT5 collection
func hadcrutRecord() Record {
	return Record{
		"name":            "HadCRUT5",
		"version":         "5.0.2.0",
		"url":             []any{"https://example.com/a.nc", "https://example.com/b.nc"},
		"type":            "timeseries",
		"reader":          "csv_timeseries",
		"fetcher":         "standard_url",
		"variable":        "tas",
		"time_resolution": "monthly",
		"climatology":     []any{1961, 1990},
		"priority":        1,
	}
}

func TestVacuousMatch(t *testing.T) {
	assert := assert.New(t)
	r := hadcrutRecord()
	assert.True(r.Matches(Record{}))
	assert.True(r.Matches(nil))
}

func TestScalarAndListCriteria(t *testing.T) {
	assert := assert.New(t)
	r := hadcrutRecord()
	assert.True(r.Matches(Record{"variable": "tas"}))
	assert.True(r.Matches(Record{"variable": []any{"tas", "sst"}}))
	assert.True(r.Matches(Record{"variable": []string{"sst", "tas"}}))
	assert.False(r.Matches(Record{"variable": []any{"sst", "lsat"}}))
	assert.False(r.Matches(Record{"variable": "sst"}))
	assert.False(r.Matches(Record{"variable": []any{}}))
}

func TestCriteriaKeysAbsentFromRecordAreIgnored(t *testing.T) {
	assert := assert.New(t)
	r := hadcrutRecord()
	assert.True(r.Matches(Record{"no_such_key": "whatever"}))
	assert.True(r.Matches(Record{"no_such_key": "whatever", "variable": "tas"}))
	assert.False(r.Matches(Record{"no_such_key": "whatever", "variable": "sst"}))
}

func TestAllCriteriaMustMatch(t *testing.T) {
	assert := assert.New(t)
	r := hadcrutRecord()
	assert.True(r.Matches(Record{"variable": "tas", "time_resolution": "monthly"}))
	assert.False(r.Matches(Record{"variable": "tas", "time_resolution": "annual"}))
}

func TestNumbersMatchAcrossTypes(t *testing.T) {
	assert := assert.New(t)
	r := hadcrutRecord()
	assert.True(r.Matches(Record{"priority": 1.0}))
	assert.True(r.Matches(Record{"priority": []any{int64(1), 2}}))
	assert.False(r.Matches(Record{"priority": "1"}))
	assert.True(r.Matches(Record{"climatology": []any{[]any{1961.0, 1990.0}}}))
}

// narrowing criteria can only shrink the set of matching records
func TestMatchMonotonicity(t *testing.T) {
	records := []Record{
		hadcrutRecord(),
		{"variable": "sst", "time_resolution": "monthly", "type": "gridded"},
		{"variable": "tas", "time_resolution": "annual", "type": "timeseries"},
		{"variable": "lsat", "type": "timeseries"},
	}
	narrow := []Record{
		{},
		{"variable": "tas"},
		{"variable": "tas", "time_resolution": "monthly"},
		{"variable": "tas", "time_resolution": "monthly", "type": []any{"timeseries"}},
	}
	for _, r := range records {
		for i := 1; i < len(narrow); i++ {
			if r.Matches(narrow[i]) {
				assert.True(t, r.Matches(narrow[i-1]),
					"record %v matches %v but not the looser %v", r, narrow[i], narrow[i-1])
			}
		}
	}
}

func TestMergeGivesLocalPrecedence(t *testing.T) {
	assert := assert.New(t)
	global := Record{"name": "HadCRUT5", "version": "5.0.2.0", "variable": "tas"}
	local := Record{"variable": "sst", "time_resolution": "monthly"}
	merged := Merge(global, local)
	assert.Equal("sst", merged["variable"])
	assert.Equal("HadCRUT5", merged["name"])
	assert.Equal("monthly", merged["time_resolution"])
	assert.Equal("tas", global["variable"], "Merge modified its input")
}

func TestStripRemovesOnlyDuplicatedValues(t *testing.T) {
	assert := assert.New(t)
	global := Record{"name": "HadCRUT5", "version": "5.0.2.0", "variable": "tas"}
	local := Record{"name": "HadCRUT5", "variable": "sst", "type": "timeseries"}
	stripped := Strip(local, global)
	assert.Equal(Record{"variable": "sst", "type": "timeseries"}, stripped)

	// merging the stripped record reproduces the original merge
	assert.True(Equal(Merge(global, local), Merge(global, stripped)))
}

func TestCloneIsDeep(t *testing.T) {
	assert := assert.New(t)
	r := hadcrutRecord()
	c := r.Clone()
	c["url"].([]any)[0] = "changed"
	c["variable"] = "sst"
	assert.Equal("https://example.com/a.nc", r["url"].([]any)[0])
	assert.Equal("tas", r["variable"])
}

func TestGetStrings(t *testing.T) {
	assert := assert.New(t)
	r := hadcrutRecord()
	assert.Equal([]string{"https://example.com/a.nc", "https://example.com/b.nc"}, r.GetStrings("url"))
	assert.Equal([]string{"tas"}, r.GetStrings("variable"))
	assert.Equal([]string{"1961", "1990"}, r.GetStrings("climatology"))
	assert.Nil(r.GetStrings("missing"))
	assert.Equal("tas", r.GetString("variable"))
	assert.Equal("", r.GetString("priority"))
}

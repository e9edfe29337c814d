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

package catalog

import (
	"fmt"

	"github.com/climind/climind/capabilities"
	"github.com/climind/climind/data"
	"github.com/climind/climind/metadata"
)

// A Dataset is a single downloadable, readable unit of climate data described
// by a validated metadata record. The record is never modified after
// construction, so datasets may be shared between filtered collections.
type Dataset struct {
	// display name, assigned by the owning collection (empty for a bare dataset)
	Name string

	env  *Env
	meta metadata.Record
}

// creates a dataset from the given metadata record, which must carry url,
// type, reader, and fetcher keys. Returns a *metadata.SchemaError if the
// record is invalid.
func NewDataset(env *Env, record metadata.Record) (*Dataset, error) {
	if err := env.Validator.ValidateDataset(record); err != nil {
		return nil, err
	}
	return &Dataset{
		env:  env,
		meta: record.Clone(),
	}, nil
}

// returns a copy of the dataset's metadata
func (ds *Dataset) Metadata() metadata.Record {
	return ds.meta.Clone()
}

// returns a copy of the value of the given metadata attribute and true, or nil
// and false if the dataset has no such attribute
func (ds *Dataset) Get(key string) (any, bool) {
	return ds.meta.Get(key)
}

// returns the URLs from which the dataset is downloaded
func (ds *Dataset) URLs() []string {
	return ds.meta.GetStrings(metadata.URLKey)
}

// returns the dataset's type ("timeseries" or "gridded")
func (ds *Dataset) Type() string {
	return ds.meta.GetString(metadata.TypeKey)
}

// returns the name of the dataset's fetcher
func (ds *Dataset) Fetcher() string {
	return ds.meta.GetString(metadata.FetcherKey)
}

// returns the name of the dataset's reader
func (ds *Dataset) Reader() string {
	return ds.meta.GetString(metadata.ReaderKey)
}

// returns true if the dataset's metadata satisfies the given criteria (see
// metadata.Record.Matches)
func (ds *Dataset) Matches(criteria metadata.Record) bool {
	return ds.meta.Matches(criteria)
}

// downloads the dataset into outputDir by calling its fetcher once for each of
// its URLs, in order. The first fetcher error is returned as is.
func (ds *Dataset) Download(outputDir string) error {
	fetch, err := ds.env.Registry.Fetcher(ds.Fetcher())
	if err != nil {
		return err
	}
	for _, url := range ds.URLs() {
		ds.env.logger().Debug(fmt.Sprintf("Fetching %s into %s (%s)", url, outputDir, ds.Fetcher()))
		if err := fetch(url, outputDir); err != nil {
			return err
		}
	}
	return nil
}

// a reader option which, when true, rebaselines timeseries to the
// environment's climatology after they are read
const RebaselineOption = "rebaseline"

// reads the dataset's files from inputDir with its reader, passing along the
// given reader options. Reader errors are returned as is.
func (ds *Dataset) Read(inputDir string, options capabilities.Options) (data.Data, error) {
	read, err := ds.env.Registry.Reader(ds.Reader())
	if err != nil {
		return nil, err
	}
	ds.env.logger().Debug(fmt.Sprintf("Reading %s from %s (%s)", ds.Name, inputDir, ds.Reader()))
	d, err := read(inputDir, ds.Metadata(), options)
	if err != nil {
		return nil, err
	}
	if rebaseline, _ := options[RebaselineOption].(bool); rebaseline {
		if ts, ok := d.(*data.TimeSeries); ok {
			baseline := ds.env.Climatology
			if err := ts.Rebaseline(baseline.Start, baseline.End); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

func (ds *Dataset) String() string {
	if ds.Name != "" {
		return fmt.Sprintf("%s (%s)", ds.Name, ds.Type())
	}
	return ds.Type()
}

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

// The readers package provides the built-in readers that turn downloaded
// files into timeseries and grids: a CSV timeseries reader and a NetCDF grid
// reader.
package readers

import (
	"net/url"
	"path"
	"path/filepath"

	"github.com/climind/climind/capabilities"
	"github.com/climind/climind/metadata"
)

// names of the built-in readers
const (
	CSVTimeSeries = "csv_timeseries"
	NetCDFGrid    = "netcdf_grid"
)

// registers the built-in readers
func Register(registry *capabilities.Registry) error {
	if err := registry.RegisterReader(CSVTimeSeries, ReadCSVTimeSeries); err != nil {
		return err
	}
	return registry.RegisterReader(NetCDFGrid, ReadNetCDFGrid)
}

// returns the name of the file holding a dataset's data: the "filename"
// attribute if present, or the last path element of its first URL
func dataFileName(md metadata.Record) (string, error) {
	if filename := md.GetString("filename"); filename != "" {
		if filename != filepath.Base(filename) || filename == ".." {
			return "", &NoFileError{Dataset: md.GetString(metadata.NameKey)}
		}
		return filename, nil
	}
	urls := md.GetStrings(metadata.URLKey)
	if len(urls) == 0 {
		return "", &NoFileError{Dataset: md.GetString(metadata.NameKey)}
	}
	name := urls[0]
	if u, err := url.Parse(urls[0]); err == nil {
		name = u.Path
	}
	name = path.Base(name)
	if name == "." || name == "/" {
		return "", &NoFileError{Dataset: md.GetString(metadata.NameKey)}
	}
	return name, nil
}

// returns the string value of the given attribute, or def if it's absent
func stringAttribute(md metadata.Record, key, def string) string {
	if s := md.GetString(key); s != "" {
		return s
	}
	return def
}

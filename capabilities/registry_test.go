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

package capabilities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/climind/climind/data"
	"github.com/climind/climind/metadata"
)

func noopFetch(url, outDir string) error { return nil }

func noopRead(inputDir string, md metadata.Record, options Options) (data.Data, error) {
	return nil, nil
}

func TestResolveRegisteredFetcher(t *testing.T) {
	assert := assert.New(t)
	r := NewRegistry()
	assert.Nil(r.RegisterFetcher("standard_url", noopFetch))

	fn, err := r.Resolve(Fetchers, "standard_url", FetchEntryPoint)
	assert.Nil(err)
	assert.NotNil(fn)

	fetch, err := r.Fetcher("standard_url")
	assert.Nil(err)
	assert.Nil(fetch("https://example.com/a.nc", "/tmp"))
}

func TestResolveUnknownCapability(t *testing.T) {
	assert := assert.New(t)
	r := NewRegistry()
	r.RegisterFetcher("standard_url", noopFetch)

	for _, c := range []struct {
		namespace        Namespace
		name, entryPoint string
	}{
		{Fetchers, "fetcher_cds", FetchEntryPoint},
		{Readers, "standard_url", ReadEntryPoint},
		{Fetchers, "standard_url", "fetch_all"},
	} {
		_, err := r.Resolve(c.namespace, c.name, c.entryPoint)
		var notFound *NotFoundError
		assert.True(errors.As(err, &notFound), "%v resolved", c)
	}

	_, err := r.Reader("reader_noaaglobaltemp")
	var notFound *NotFoundError
	assert.True(errors.As(err, &notFound))
	assert.Equal("The capability 'reader_noaaglobaltemp' (entry point 'read') was not found in readers",
		err.Error())
}

func TestDuplicateRegistrationFails(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.RegisterReader("csv_timeseries", noopRead))
	err := r.RegisterReader("csv_timeseries", noopRead)
	var already *AlreadyRegisteredError
	assert.True(t, errors.As(err, &already))

	// the same name in another namespace is fine
	assert.Nil(t, r.RegisterFetcher("csv_timeseries", noopFetch))
}

func TestNilFunctionsAreRejected(t *testing.T) {
	r := NewRegistry()
	var invalid *InvalidCapabilityError
	assert.True(t, errors.As(r.RegisterFetcher("nothing", nil), &invalid))
	assert.True(t, errors.As(r.RegisterReader("nothing", nil), &invalid))
}

func TestWrongTypedEntryIsInvalid(t *testing.T) {
	r := NewRegistry()
	r.Register(Fetchers, "odd", FetchEntryPoint, func() {})
	_, err := r.Fetcher("odd")
	var invalid *InvalidCapabilityError
	assert.True(t, errors.As(err, &invalid))

	// plain functions with the right signature are accepted
	r.Register(Readers, "plain", ReadEntryPoint,
		func(string, metadata.Record, Options) (data.Data, error) { return nil, nil })
	_, err = r.Reader("plain")
	assert.Nil(t, err)
}

func TestNames(t *testing.T) {
	r := NewRegistry()
	r.RegisterFetcher("standard_url", noopFetch)
	r.RegisterFetcher("local_copy", noopFetch)
	r.RegisterReader("netcdf_grid", noopRead)
	assert.Equal(t, []string{"local_copy", "standard_url"}, r.Names(Fetchers))
	assert.Equal(t, []string{"netcdf_grid"}, r.Names(Readers))
}

func TestMiddlewareWrapsResolvedFunctions(t *testing.T) {
	assert := assert.New(t)
	r := NewRegistry()
	r.RegisterFetcher("standard_url", noopFetch)
	r.RegisterReader("csv_timeseries", noopRead)

	var order []string
	r.UseFetchMiddleware(func(name string, next FetchFunc) FetchFunc {
		return func(url, outDir string) error {
			order = append(order, "outer:"+name)
			return next(url, outDir)
		}
	})
	r.UseFetchMiddleware(func(name string, next FetchFunc) FetchFunc {
		return func(url, outDir string) error {
			order = append(order, "inner:"+name)
			return next(url, outDir)
		}
	})
	reads := 0
	r.UseReadMiddleware(func(name string, next ReadFunc) ReadFunc {
		return func(inputDir string, md metadata.Record, options Options) (data.Data, error) {
			reads++
			return next(inputDir, md, options)
		}
	})

	fetch, _ := r.Fetcher("standard_url")
	fetch("https://example.com/a.nc", "/tmp")
	assert.Equal([]string{"outer:standard_url", "inner:standard_url"}, order)

	read, _ := r.Reader("csv_timeseries")
	read("/tmp", metadata.Record{}, nil)
	assert.Equal(1, reads)
}

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

// The catalog package implements the dataset catalog: datasets described by
// validated metadata records, collections of datasets sharing global
// attributes, and archives of collections loaded from a directory of metadata
// documents. Datasets are downloaded and read through fetchers and readers
// resolved by name from a capabilities.Registry.
package catalog

import (
	"log/slog"

	"github.com/climind/climind/capabilities"
	"github.com/climind/climind/metadata"
)

// An Env holds everything datasets, collections, and archives need from their
// surroundings. It is passed explicitly so that independent catalogs (in
// tests, say) can coexist in one process.
type Env struct {
	// resolves fetchers and readers by name
	Registry *capabilities.Registry
	// validates dataset records and collection documents
	Validator *metadata.Validator
	// receives catalog log messages
	Logger *slog.Logger
	// the baseline period used when reading with RebaselineOption
	Climatology Baseline
}

// a span of years, inclusive
type Baseline struct {
	Start, End int
}

// the default baseline period
var DefaultClimatology = Baseline{Start: 1981, End: 2010}

// creates an environment that resolves capabilities with the given registry,
// validates with the embedded schemas, and logs to the default logger
func NewEnv(registry *capabilities.Registry) (*Env, error) {
	validator, err := metadata.DefaultValidator()
	if err != nil {
		return nil, err
	}
	return &Env{
		Registry:    registry,
		Validator:   validator,
		Logger:      slog.Default(),
		Climatology: DefaultClimatology,
	}, nil
}

func (env *Env) logger() *slog.Logger {
	if env.Logger == nil {
		return slog.Default()
	}
	return env.Logger
}

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

// The capabilities package maps logical names to the fetchers and readers
// that download and parse provider data. Providers are registered at startup
// and looked up by name when a dataset is downloaded or read, so the catalog
// never depends on any particular provider.
package capabilities

import (
	"fmt"
	"sort"
	"sync"

	"github.com/climind/climind/data"
	"github.com/climind/climind/metadata"
)

// A Namespace groups capabilities of one kind.
type Namespace string

const (
	Fetchers Namespace = "fetchers"
	Readers  Namespace = "readers"
)

// entry points used by datasets
const (
	FetchEntryPoint = "fetch"
	ReadEntryPoint  = "read"
)

// A FetchFunc downloads the resource at url into the directory outDir.
type FetchFunc func(url, outDir string) error

// Options are caller-supplied reader settings (e.g. a desired grid
// resolution).
type Options map[string]any

// A ReadFunc parses the raw files in inputDir described by md into an
// in-memory timeseries or grid.
type ReadFunc func(inputDir string, md metadata.Record, options Options) (data.Data, error)

// FetchMiddleware decorates the fetcher registered under name.
type FetchMiddleware func(name string, next FetchFunc) FetchFunc

// ReadMiddleware decorates the reader registered under name.
type ReadMiddleware func(name string, next ReadFunc) ReadFunc

type key struct {
	namespace        Namespace
	name, entryPoint string
}

// A Registry resolves (namespace, name, entry point) triples to functions.
// It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	entries    map[key]any
	fetchChain []FetchMiddleware
	readChain  []ReadMiddleware
}

// creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[key]any),
	}
}

// registers fn under the given namespace, name, and entry point, returning an
// AlreadyRegisteredError if something is already registered there
func (r *Registry) Register(namespace Namespace, name, entryPoint string, fn any) error {
	if fn == nil {
		return &InvalidCapabilityError{
			Namespace: namespace, Name: name, EntryPoint: entryPoint,
			Message: "nil function",
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{namespace: namespace, name: name, entryPoint: entryPoint}
	if _, found := r.entries[k]; found {
		return &AlreadyRegisteredError{
			Namespace: namespace, Name: name, EntryPoint: entryPoint,
		}
	}
	r.entries[k] = fn
	return nil
}

// returns the function registered under the given namespace, name, and entry
// point, or a NotFoundError if there is none
func (r *Registry) Resolve(namespace Namespace, name, entryPoint string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, found := r.entries[key{namespace: namespace, name: name, entryPoint: entryPoint}]
	if !found {
		return nil, &NotFoundError{
			Namespace: namespace, Name: name, EntryPoint: entryPoint,
		}
	}
	return fn, nil
}

// returns the sorted names registered in the given namespace
func (r *Registry) Names(namespace Namespace) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	names := make([]string, 0)
	for k := range r.entries {
		if k.namespace == namespace && !seen[k.name] {
			seen[k.name] = true
			names = append(names, k.name)
		}
	}
	sort.Strings(names)
	return names
}

// registers a fetcher under the "fetch" entry point
func (r *Registry) RegisterFetcher(name string, fetch FetchFunc) error {
	if fetch == nil {
		return r.Register(Fetchers, name, FetchEntryPoint, nil)
	}
	return r.Register(Fetchers, name, FetchEntryPoint, fetch)
}

// registers a reader under the "read" entry point
func (r *Registry) RegisterReader(name string, read ReadFunc) error {
	if read == nil {
		return r.Register(Readers, name, ReadEntryPoint, nil)
	}
	return r.Register(Readers, name, ReadEntryPoint, read)
}

// adds middleware applied to every fetcher resolved after this call
// (the first middleware added is the outermost)
func (r *Registry) UseFetchMiddleware(mw FetchMiddleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchChain = append(r.fetchChain, mw)
}

// adds middleware applied to every reader resolved after this call
func (r *Registry) UseReadMiddleware(mw ReadMiddleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readChain = append(r.readChain, mw)
}

// resolves the named fetcher, wrapped in any registered middleware
func (r *Registry) Fetcher(name string) (FetchFunc, error) {
	fn, err := r.Resolve(Fetchers, name, FetchEntryPoint)
	if err != nil {
		return nil, err
	}
	fetch, ok := fn.(FetchFunc)
	if !ok {
		fetch, ok = fn.(func(string, string) error)
	}
	if !ok {
		return nil, &InvalidCapabilityError{
			Namespace: Fetchers, Name: name, EntryPoint: FetchEntryPoint,
			Message: fmt.Sprintf("has type %T, not a fetch function", fn),
		}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.fetchChain) - 1; i >= 0; i-- {
		fetch = r.fetchChain[i](name, fetch)
	}
	return fetch, nil
}

// resolves the named reader, wrapped in any registered middleware
func (r *Registry) Reader(name string) (ReadFunc, error) {
	fn, err := r.Resolve(Readers, name, ReadEntryPoint)
	if err != nil {
		return nil, err
	}
	read, ok := fn.(ReadFunc)
	if !ok {
		read, ok = fn.(func(string, metadata.Record, Options) (data.Data, error))
	}
	if !ok {
		return nil, &InvalidCapabilityError{
			Namespace: Readers, Name: name, EntryPoint: ReadEntryPoint,
			Message: fmt.Sprintf("has type %T, not a read function", fn),
		}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.readChain) - 1; i >= 0; i-- {
		read = r.readChain[i](name, read)
	}
	return read, nil
}

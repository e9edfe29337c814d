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
	"os"
	"path/filepath"
	"sort"

	"github.com/climind/climind/capabilities"
	"github.com/climind/climind/data"
	"github.com/climind/climind/metadata"
)

// An Archive is a set of collections keyed by name.
type Archive struct {
	env         *Env
	collections map[string]*Collection
}

// creates an empty archive
func NewArchive(env *Env) *Archive {
	return &Archive{
		env:         env,
		collections: make(map[string]*Collection),
	}
}

// Loads every metadata document (.json, .yaml, .yml) in the given directory
// (not its subdirectories) as a collection. If two documents hold collections
// with the same name, the one loaded later replaces the earlier one and a
// warning is logged. The first document that fails to load aborts the load.
func LoadArchive(env *Env, dir string) (*Archive, error) {
	entries, err := os.ReadDir(dir) // sorted by file name
	if err != nil {
		return nil, err
	}
	a := NewArchive(env)
	sources := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !metadata.IsDocumentFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		c, err := LoadCollection(env, path)
		if err != nil {
			return nil, err
		}
		if replaced := a.AddCollection(c); replaced != nil {
			env.logger().Warn(fmt.Sprintf("Collection '%s' from %s replaces the one loaded from %s",
				c.Name(), path, sources[c.Name()]))
		}
		sources[c.Name()] = path
	}
	env.logger().Info(fmt.Sprintf("Loaded %d collections from %s", a.Len(), dir))
	return a, nil
}

// adds a collection to the archive under its name, returning the collection it
// replaces, or nil if there was none
func (a *Archive) AddCollection(c *Collection) *Collection {
	replaced := a.collections[c.Name()]
	a.collections[c.Name()] = c
	return replaced
}

// Returns an archive holding, for each collection, only the datasets matching
// the given criteria. Collections without matching datasets are left out, so
// the result may be empty, but it is never nil.
func (a *Archive) Select(criteria metadata.Record) *Archive {
	selected := NewArchive(a.env)
	for name, c := range a.collections {
		if sub := c.MatchMetadata(criteria); sub != nil {
			selected.collections[name] = sub
		}
	}
	return selected
}

// downloads every collection in the archive into dataDir, stopping at the
// first failure
func (a *Archive) Download(dataDir string) error {
	for _, c := range a.collections {
		if err := c.Download(dataDir); err != nil {
			return err
		}
	}
	return nil
}

// reads every collection in the archive from dataDir. Data from each
// collection appear in dataset order, but collections appear in no particular
// order.
func (a *Archive) ReadDatasets(dataDir string, options capabilities.Options) ([]data.Data, error) {
	var results []data.Data
	for _, c := range a.collections {
		d, err := c.ReadDatasets(dataDir, options)
		if err != nil {
			return nil, err
		}
		results = append(results, d...)
	}
	return results, nil
}

// returns the archive's collections sorted by name
func (a *Archive) Collections() []*Collection {
	names := make([]string, 0, len(a.collections))
	for name := range a.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	collections := make([]*Collection, len(names))
	for i, name := range names {
		collections[i] = a.collections[name]
	}
	return collections
}

// returns the named collection, or nil if the archive has none by that name
func (a *Archive) Collection(name string) *Collection {
	return a.collections[name]
}

// returns the number of collections in the archive
func (a *Archive) Len() int {
	return len(a.collections)
}

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
	"net/url"
	"os"
	"path"
	"time"

	"github.com/frictionlessdata/datapackage-go/datapackage"

	"github.com/climind/climind/frictionless"
)

// the name of the manifest file written into a collection directory
const ManifestFile = "datapackage.json"

// Returns a Frictionless data package describing the files in the collection's
// directory within dataDir. Each resource lists as its sources the datasets
// whose URLs name the resource's file.
func (c *Collection) Manifest(dataDir string) (*datapackage.Package, error) {
	dir, err := c.CollectionDir(dataDir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	// map file names to the datasets and URLs that produce them
	sources := make(map[string][]frictionless.DataSource)
	for _, ds := range c.datasets {
		for _, rawURL := range ds.URLs() {
			file := sourceFileName(rawURL)
			sources[file] = append(sources[file], frictionless.DataSource{
				Title: ds.Name,
				Path:  rawURL,
			})
		}
	}

	pkg := frictionless.DataPackage{
		Name:        frictionless.ResourceName(c.Name()),
		Title:       c.Name(),
		Version:     c.Version(),
		Description: c.globals.GetString("description"),
		Homepage:    c.globals.GetString("homepage"),
		Created:     time.Now().Format(time.RFC3339),
		Profile:     "data-package",
		Keywords:    []string{"climind", c.Name()},
	}
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == ManifestFile {
			continue
		}
		resource, err := frictionless.NewDataResource(dir, entry.Name())
		if err != nil {
			return nil, err
		}
		resource.Sources = sources[entry.Name()]
		pkg.Resources = append(pkg.Resources, resource)
	}
	if len(pkg.Resources) == 0 {
		return nil, &EmptyCollectionDirError{Collection: c.Name(), Dir: dir}
	}
	c.env.logger().Debug(fmt.Sprintf("Built manifest for %s with %d resources",
		c, len(pkg.Resources)))
	return pkg.Package(dir)
}

// returns the name a fetcher gives the file downloaded from rawURL, ignoring
// any query string or fragment
func sourceFileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return path.Base(rawURL)
	}
	return path.Base(u.Path)
}

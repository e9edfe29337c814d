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
	"strings"

	"github.com/climind/climind/capabilities"
	"github.com/climind/climind/data"
	"github.com/climind/climind/metadata"
)

// A Collection is an ordered group of datasets sharing a set of global
// attributes, which include at least a name and a version.
type Collection struct {
	env      *Env
	globals  metadata.Record
	datasets []*Dataset
}

// creates a collection from a metadata document holding global attributes and
// a list of dataset entries under the "datasets" key. Each entry is merged with
// the global attributes (the entry's values taking precedence) and the merged
// record becomes a dataset.
func NewCollection(env *Env, document metadata.Record) (*Collection, error) {
	globals := make(metadata.Record, len(document))
	for k, v := range document {
		if k != metadata.DatasetsKey {
			globals[k] = v
		}
	}
	globals = globals.Clone()
	for _, key := range []string{metadata.NameKey, metadata.VersionKey} {
		if _, found := globals[key]; !found {
			return nil, &MissingAttributeError{Attribute: key}
		}
	}

	entries, err := documentEntries(document[metadata.DatasetsKey])
	if err != nil {
		return nil, err
	}

	c := &Collection{
		env:      env,
		globals:  globals,
		datasets: make([]*Dataset, 0, len(entries)),
	}
	for _, entry := range entries {
		ds, err := NewDataset(env, metadata.Merge(globals, entry))
		if err != nil {
			return nil, err
		}
		ds.Name = ds.meta.GetString(metadata.NameKey)
		c.datasets = append(c.datasets, ds)
	}
	return c, nil
}

// interprets the value of a document's "datasets" key as a list of records
func documentEntries(value any) ([]metadata.Record, error) {
	switch entries := value.(type) {
	case nil:
		return nil, nil
	case []metadata.Record:
		return entries, nil
	case []map[string]any:
		records := make([]metadata.Record, len(entries))
		for i, e := range entries {
			records[i] = metadata.Record(e)
		}
		return records, nil
	case []any:
		records := make([]metadata.Record, len(entries))
		for i, e := range entries {
			record, ok := metadata.AsRecord(e)
			if !ok {
				return nil, &InvalidDocumentError{
					Message: fmt.Sprintf("dataset entry %d is a %T, not a record", i, e),
				}
			}
			records[i] = record
		}
		return records, nil
	default:
		return nil, &InvalidDocumentError{
			Message: fmt.Sprintf("'%s' is a %T, not a list", metadata.DatasetsKey, value),
		}
	}
}

// loads a collection from the JSON or YAML metadata document at the given
// path, validating the whole document before constructing the collection
func LoadCollection(env *Env, path string) (*Collection, error) {
	document, err := metadata.ReadDocument(path)
	if err != nil {
		return nil, err
	}
	if err := env.Validator.ValidateDocument(document); err != nil {
		return nil, err
	}
	c, err := NewCollection(env, document)
	if err != nil {
		return nil, err
	}
	env.logger().Debug(fmt.Sprintf("Loaded collection %s (%d datasets) from %s",
		c, c.Len(), path))
	return c, nil
}

// returns the collection's metadata document: its global attributes, plus a
// "datasets" list holding each dataset's attributes less those duplicating a
// global attribute
func (c *Collection) Document() metadata.Record {
	document := c.globals.Clone()
	entries := make([]any, len(c.datasets))
	for i, ds := range c.datasets {
		entries[i] = map[string]any(metadata.Strip(ds.meta, c.globals))
	}
	document[metadata.DatasetsKey] = entries
	return document
}

// validates the collection's metadata document and writes it to the given path
// as JSON or YAML, according to the path's extension. The directory holding
// the file must exist.
func (c *Collection) Save(path string) error {
	document := c.Document()
	if err := c.env.Validator.ValidateDocument(document); err != nil {
		return err
	}
	if err := metadata.WriteDocument(path, document); err != nil {
		return err
	}
	c.env.logger().Debug(fmt.Sprintf("Saved collection %s to %s", c, path))
	return nil
}

// appends a dataset to the collection
func (c *Collection) AddDataset(ds *Dataset) {
	c.datasets = append(c.datasets, ds)
}

// Returns a collection holding only those datasets that match the given
// criteria, or nil if none do. If the collection's global attributes don't
// match the criteria, nil is returned without examining any dataset. The
// returned collection shares global attributes and datasets with the
// receiver.
func (c *Collection) MatchMetadata(criteria metadata.Record) *Collection {
	if !c.globals.Matches(criteria) {
		return nil
	}
	var matching []*Dataset
	for _, ds := range c.datasets {
		if ds.Matches(criteria) {
			matching = append(matching, ds)
		}
	}
	if len(matching) == 0 {
		return nil
	}
	return &Collection{
		env:      c.env,
		globals:  c.globals,
		datasets: matching,
	}
}

// returns the directory within dataDir that holds the collection's files,
// creating it if needed
func (c *Collection) CollectionDir(dataDir string) (string, error) {
	name := c.Name()
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", &InvalidNameError{Name: name}
	}
	dir := filepath.Join(dataDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// downloads every dataset in the collection into its collection directory
// within dataDir, stopping at the first failure
func (c *Collection) Download(dataDir string) error {
	dir, err := c.CollectionDir(dataDir)
	if err != nil {
		return err
	}
	for _, ds := range c.datasets {
		if err := ds.Download(dir); err != nil {
			return err
		}
	}
	return nil
}

// reads every dataset in the collection from its collection directory within
// dataDir, returning the data in dataset order. The first failure aborts the
// read.
func (c *Collection) ReadDatasets(dataDir string, options capabilities.Options) ([]data.Data, error) {
	dir, err := c.CollectionDir(dataDir)
	if err != nil {
		return nil, err
	}
	results := make([]data.Data, 0, len(c.datasets))
	for _, ds := range c.datasets {
		d, err := ds.Read(dir, options)
		if err != nil {
			return nil, err
		}
		results = append(results, d)
	}
	return results, nil
}

// returns a copy of the collection's global attributes
func (c *Collection) GlobalAttributes() metadata.Record {
	return c.globals.Clone()
}

func (c *Collection) Name() string {
	return c.globals.GetString(metadata.NameKey)
}

// returns the collection's version, formatted as a string
func (c *Collection) Version() string {
	if v, found := c.globals[metadata.VersionKey]; found {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// returns the collection's datasets (the slice is a copy; the datasets are not)
func (c *Collection) Datasets() []*Dataset {
	return append([]*Dataset(nil), c.datasets...)
}

func (c *Collection) Len() int {
	return len(c.datasets)
}

func (c *Collection) String() string {
	return fmt.Sprintf("%s %s", c.Name(), c.Version())
}

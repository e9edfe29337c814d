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

package frictionless

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"io"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/frictionlessdata/datapackage-go/datapackage"
	"github.com/frictionlessdata/datapackage-go/validator"
)

// a Frictionless data package describing the files downloaded for a
// collection (https://specs.frictionlessdata.io/data-package/)
type DataPackage struct {
	// list of contributors to the data package
	Contributors []Contributor `json:"contributors,omitempty"`
	// a timestamp indicated when the package was created
	Created string `json:"created,omitempty"`
	// a Markdown description of the data package
	Description string `json:"description,omitempty"`
	// a URL for a web address related to the data package
	Homepage string `json:"homepage,omitempty"`
	// an array of string keywords to assist users searching for the data package
	// in catalogs
	Keywords []string `json:"keywords,omitempty"`
	// a list identifying the license or licenses under which this resource is
	// managed (optional)
	Licenses []DataLicense `json:"licenses,omitempty"`
	// the name of the data package (lower case, see ResourceName)
	Name string `json:"name"`
	// the profile of this descriptor per the DataPackage profiles specification
	// (https://specs.frictionlessdata.io/profiles/#language)
	Profile string `json:"profile,omitempty"`
	// a list of resources that belong to the package
	Resources []DataResource `json:"resources"`
	// a title or one sentence description for the data package
	Title string `json:"title,omitempty"`
	// a version string identifying the version of the data package
	Version string `json:"version,omitempty"`
}

// a Frictionless data resource describing one downloaded file
// (https://specs.frictionlessdata.io/data-resource/)
type DataResource struct {
	// the size of the resource's file in bytes
	Bytes int `json:"bytes"`
	// a description of the resource (optional)
	Description string `json:"description,omitempty"`
	// indicates the format of the resource's file, often used as an extension
	Format string `json:"format,omitempty"`
	// the MD5 hash of the resource's file
	Hash string `json:"hash"`
	// the mediatype/mimetype of the resource (optional, e.g. "text/csv")
	MediaType string `json:"mediatype,omitempty"`
	// a unique name for the resource within its package
	Name string `json:"name"`
	// a relative path to the resource's file within a data package directory
	Path string `json:"path"`
	// a list identifying the sources for this resource (optional)
	Sources []DataSource `json:"sources,omitempty"`
	// a title or label for the resource (optional)
	Title string `json:"title,omitempty"`
}

// information about the source of a DataResource
type DataSource struct {
	// an email address identifying a contact associated with the source (optional)
	Email string `json:"email,omitempty"`
	// a URI or relative path pointing to the source (optional)
	Path string `json:"path,omitempty"`
	// a descriptive title for the source
	Title string `json:"title"`
}

// information about a license associated with a DataResource
type DataLicense struct {
	// the abbreviated name of the license
	Name string `json:"name"`
	// a URI or relative path at which the license text may be retrieved
	Path string `json:"path,omitempty"`
	// the descriptive title of the license (optional)
	Title string `json:"title,omitempty"`
}

// information about a contributor to a DataPackage
type Contributor struct {
	// the contributor's email address
	Email string `json:"email,omitempty"`
	// a string describing the contributor's organization
	Organization string `json:"organization,omitempty"`
	// a fully qualified http URL pointing to a relevant location online for the
	// contributor
	Path string `json:"path,omitempty"`
	// the role of the contributor ("author", "publisher", "maintainer",
	// "wrangler", "contributor")
	Role string `json:"role,omitempty"`
	// name/title of the contributor (name for person, name/title of organization)
	Title string `json:"title"`
}

var invalidNameChars = regexp.MustCompile(`[^-a-z0-9._]+`)

// converts the given string to a valid package or resource name (lower case
// letters, digits, '-', '_', and '.')
func ResourceName(s string) string {
	name := invalidNameChars.ReplaceAllString(strings.ToLower(s), "_")
	if name == "" {
		return "_"
	}
	return name
}

// creates a data resource describing the file at the given path relative to
// dir, computing its size and MD5 hash
func NewDataResource(dir, path string) (DataResource, error) {
	file, err := os.Open(filepath.Join(dir, path))
	if err != nil {
		return DataResource{}, err
	}
	defer file.Close()

	hash := md5.New()
	size, err := io.Copy(hash, file)
	if err != nil {
		return DataResource{}, err
	}

	ext := filepath.Ext(path)
	mediaType := mime.TypeByExtension(ext)
	if i := strings.Index(mediaType, ";"); i != -1 {
		mediaType = mediaType[:i]
	}
	return DataResource{
		Bytes:     int(size),
		Format:    strings.TrimPrefix(strings.ToLower(ext), "."),
		Hash:      hex.EncodeToString(hash.Sum(nil)),
		MediaType: mediaType,
		Name:      ResourceName(filepath.Base(path)),
		Path:      filepath.ToSlash(path),
	}, nil
}

// returns the package's descriptor as a generic map
func (p DataPackage) Descriptor() (map[string]any, error) {
	bytes, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var descriptor map[string]any
	err = json.Unmarshal(bytes, &descriptor)
	return descriptor, err
}

// validates the package and returns it as a datapackage.Package whose resource
// paths are relative to basePath
func (p DataPackage) Package(basePath string) (*datapackage.Package, error) {
	descriptor, err := p.Descriptor()
	if err != nil {
		return nil, err
	}
	return datapackage.New(descriptor, basePath, validator.InMemoryLoader())
}

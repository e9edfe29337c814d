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
)

// This error type is returned when a collection is constructed without one of
// its required global attributes (name, version).
type MissingAttributeError struct {
	Attribute string
}

func (e MissingAttributeError) Error() string {
	return fmt.Sprintf("The collection has no '%s' attribute", e.Attribute)
}

// This error type is returned when a collection document's structure can't be
// interpreted (e.g. its datasets aren't a list of records).
type InvalidDocumentError struct {
	Message string
}

func (e InvalidDocumentError) Error() string {
	return fmt.Sprintf("Invalid collection document: %s", e.Message)
}

// This error type is returned when a collection's name can't be used as a
// directory name within a data directory.
type InvalidNameError struct {
	Name string
}

func (e InvalidNameError) Error() string {
	return fmt.Sprintf("The collection name '%s' can't be used as a directory name", e.Name)
}

// This error type is returned when a manifest is requested for a collection
// whose directory holds no files.
type EmptyCollectionDirError struct {
	Collection, Dir string
}

func (e EmptyCollectionDirError) Error() string {
	return fmt.Sprintf("No files found for collection '%s' in %s", e.Collection, e.Dir)
}

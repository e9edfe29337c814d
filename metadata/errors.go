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

package metadata

import (
	"fmt"
	"strings"
)

// This error type is returned when a metadata record or a collection document
// fails validation against its schema.
type SchemaError struct {
	// the schema that rejected the metadata ("dataset" or "collection")
	Schema string
	// the offending keys (as slash-separated paths for nested entries)
	Keys []string
	// validation messages
	Messages []string
}

func (e SchemaError) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if len(e.Keys) > 0 {
		return fmt.Sprintf("Invalid %s metadata (%s): %s", e.Schema,
			strings.Join(e.Keys, ", "), msg)
	}
	return fmt.Sprintf("Invalid %s metadata: %s", e.Schema, msg)
}

// This error type is returned when a metadata document can't be read or
// written because of its file format.
type UnsupportedFormatError struct {
	Path string
}

func (e UnsupportedFormatError) Error() string {
	return fmt.Sprintf("Unsupported metadata document format: %s (expected .json, .yaml, or .yml)", e.Path)
}

// This error type is returned when a metadata document can't be parsed.
type ParseError struct {
	Path, Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("Couldn't parse metadata document %s: %s", e.Path, e.Message)
}

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

package readers

import (
	"fmt"
)

// indicates that a data file lacks a column (or variable) a reader needs
type MissingColumnError struct {
	File, Column string
}

func (e MissingColumnError) Error() string {
	return fmt.Sprintf("The file %s has no column or variable '%s'", e.File, e.Column)
}

// indicates that a value in a data file can't be interpreted
type ValueError struct {
	File, Message string
	Row           int
}

func (e ValueError) Error() string {
	return fmt.Sprintf("Invalid value in %s (row %d): %s", e.File, e.Row, e.Message)
}

// indicates that a dataset's metadata doesn't identify the file to read
type NoFileError struct {
	Dataset string
}

func (e NoFileError) Error() string {
	return fmt.Sprintf("Can't determine the file to read for dataset '%s' (no filename or url)", e.Dataset)
}

// indicates that a grid doesn't have the resolution requested by a caller
// along the given axis ("latitude" or "longitude")
type ResolutionError struct {
	File, Axis        string
	Requested, Actual float64
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("The grid in %s has a %s spacing of %g degrees, not the requested %g",
		e.File, e.Axis, e.Actual, e.Requested)
}

// indicates that a NetCDF variable has a type or shape a reader can't handle
type UnsupportedVariableError struct {
	File, Variable, Message string
}

func (e UnsupportedVariableError) Error() string {
	return fmt.Sprintf("Can't read variable '%s' in %s: %s", e.Variable, e.File, e.Message)
}

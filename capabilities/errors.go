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
	"fmt"
)

// This error type is returned when a capability is sought but not found.
type NotFoundError struct {
	Namespace        Namespace
	Name, EntryPoint string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("The capability '%s' (entry point '%s') was not found in %s",
		e.Name, e.EntryPoint, e.Namespace)
}

// indicates that a capability is already registered and an attempt has been
// made to register it again
type AlreadyRegisteredError struct {
	Namespace        Namespace
	Name, EntryPoint string
}

func (e AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("Cannot register '%s' (entry point '%s') in %s: already registered",
		e.Name, e.EntryPoint, e.Namespace)
}

// indicates that a registered capability can't be used as the requested kind
// of function
type InvalidCapabilityError struct {
	Namespace                 Namespace
	Name, EntryPoint, Message string
}

func (e InvalidCapabilityError) Error() string {
	return fmt.Sprintf("Invalid capability '%s' (entry point '%s') in %s: %s",
		e.Name, e.EntryPoint, e.Namespace, e.Message)
}

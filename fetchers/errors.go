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

package fetchers

import (
	"fmt"
	"net/http"
)

// indicates that a server attempted to redirect an HTTPS download to HTTP
type DowngradedRedirectError struct {
	Endpoint string
}

func (e DowngradedRedirectError) Error() string {
	return fmt.Sprintf("The endpoint %s is attempting to downgrade an HTTPS request to HTTP",
		e.Endpoint)
}

// indicates that a download failed with an unsuccessful HTTP status
type StatusError struct {
	URL        string
	StatusCode int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("Download of %s failed: %d %s", e.URL, e.StatusCode,
		http.StatusText(e.StatusCode))
}

// indicates that a URL names no file that could be written to an output
// directory
type InvalidURLError struct {
	URL, Message string
}

func (e InvalidURLError) Error() string {
	return fmt.Sprintf("Invalid URL %s: %s", e.URL, e.Message)
}

// indicates that a fetcher's circuit breaker is open after repeated failures,
// so no request was made
type UnavailableError struct {
	Fetcher, URL string
}

func (e UnavailableError) Error() string {
	return fmt.Sprintf("The fetcher '%s' is unavailable after repeated failures (not fetching %s)",
		e.Fetcher, e.URL)
}

// indicates that a fetcher configuration can't be used
type InvalidConfigError struct {
	Fetcher, Message string
}

func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("Invalid configuration for fetcher '%s': %s", e.Fetcher, e.Message)
}

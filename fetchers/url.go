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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/sony/gobreaker"
)

// A URLFetcher downloads files over HTTP(S) into an output directory, retrying
// failed requests with exponential backoff. Requests pass through a circuit
// breaker so that an unresponsive provider fails fast once it has failed
// repeatedly.
type URLFetcher struct {
	// name under which the fetcher is registered
	Name string
	// client used for requests
	Client http.Client
	// HTTP basic authentication credentials (optional)
	Username, Password string
	// number of retries after a failed request
	Retries int
	// delay before the first retry, doubled for each subsequent retry
	Backoff time.Duration
	// maximum delay between retries (no limit if zero)
	MaxBackoff time.Duration

	breaker *gobreaker.CircuitBreaker
	sleep   func(time.Duration)
}

// creates a URL fetcher with the given name, request timeout, and retry policy
func NewURLFetcher(name string, timeout time.Duration, retries int,
	backoff time.Duration) *URLFetcher {
	return &URLFetcher{
		Name:       name,
		Client:     SecureHttpClient(timeout),
		Retries:    retries,
		Backoff:    backoff,
		MaxBackoff: 30 * time.Second,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
		}),
		sleep: time.Sleep,
	}
}

// returns the name of the file in which the resource at the given URL is
// stored
func urlFileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &InvalidURLError{URL: rawURL, Message: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &InvalidURLError{URL: rawURL, Message: "not an HTTP or HTTPS URL"}
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", &InvalidURLError{URL: rawURL, Message: "no file name in path"}
	}
	return name, nil
}

// downloads the resource at rawURL into outDir, naming the file after the last
// element of the URL's path
func (f *URLFetcher) Fetch(rawURL, outDir string) error {
	name, err := urlFileName(rawURL)
	if err != nil {
		return err
	}
	dest := filepath.Join(outDir, name)

	for attempt := 0; ; attempt++ {
		_, err = f.breaker.Execute(func() (any, error) {
			return nil, f.download(rawURL, dest)
		})
		if err == nil {
			slog.Debug(fmt.Sprintf("Fetched %s into %s", rawURL, dest))
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &UnavailableError{Fetcher: f.Name, URL: rawURL}
		}
		if !retriable(err) || attempt >= f.Retries {
			return err
		}
		delay := f.backoffDelay(attempt)
		slog.Info(fmt.Sprintf("Fetching %s failed (%s); retrying in %s", rawURL, err, delay))
		f.sleep(delay)
	}
}

// returns the wait before retry number attempt, doubling Backoff each time and
// capping at MaxBackoff when one is set
func (f *URLFetcher) backoffDelay(attempt int) time.Duration {
	delay := f.Backoff << attempt
	// large shifts overflow into zero or negative durations
	if attempt >= 32 || delay <= 0 {
		if f.MaxBackoff > 0 {
			return f.MaxBackoff
		}
		return f.Backoff
	}
	if f.MaxBackoff > 0 && delay > f.MaxBackoff {
		return f.MaxBackoff
	}
	return delay
}

// returns true if a failed request is worth retrying
func retriable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests ||
			statusErr.StatusCode >= 500
	}
	var downgradeErr *DowngradedRedirectError
	if errors.As(err, &downgradeErr) {
		return false
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// performs a single request, writing the response body to dest by way of a
// temporary file so that a failed download leaves no partial file behind
func (f *URLFetcher) download(rawURL, dest string) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	if f.Username != "" {
		req.SetBasicAuth(f.Username, f.Password)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return writeAtomically(dest, resp.Body)
}

// writes the contents of r to path via a temporary file in the same directory
func writeAtomically(path string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".part-*")
	if err != nil {
		return err
	}
	_, err = io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
	}
	return err
}

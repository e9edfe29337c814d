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
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// A LocalFetcher copies files from the local filesystem (e.g. a mirror of a
// provider's archive) into an output directory. URLs are plain paths or
// file:// URLs; relative paths are resolved against Root.
type LocalFetcher struct {
	Root string
}

// copies the file named by rawURL into outDir
func (f LocalFetcher) Fetch(rawURL, outDir string) error {
	source := strings.TrimPrefix(rawURL, "file://")
	if source == "" {
		return &InvalidURLError{URL: rawURL, Message: "empty path"}
	}
	if !filepath.IsAbs(source) && f.Root != "" {
		source = filepath.Join(f.Root, source)
	}
	file, err := os.Open(source)
	if err != nil {
		return err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &InvalidURLError{URL: rawURL, Message: "names a directory"}
	}
	dest := filepath.Join(outDir, filepath.Base(source))
	if err := writeAtomically(dest, file); err != nil {
		return err
	}
	slog.Debug(fmt.Sprintf("Copied %s into %s", source, dest))
	return nil
}

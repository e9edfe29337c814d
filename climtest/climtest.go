// This package contains testing utilities for climind.
package climtest

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/climind/climind/capabilities"
	"github.com/climind/climind/data"
	"github.com/climind/climind/metadata"
)

// Enables DEBUG log messages for climind's structured log (slog).
func EnableDebugLogging() {
	logLevel := new(slog.LevelVar)
	logLevel.Set(slog.LevelDebug)
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(h))
}

// names under which a Recorder registers its fake capabilities
const (
	FetcherName = "test_fetcher"
	ReaderName  = "test_reader"
)

// A FetchCall records the arguments of one call to a fake fetcher.
type FetchCall struct {
	URL, OutDir string
}

// A ReadCall records the arguments of one call to a fake reader.
type ReadCall struct {
	InputDir string
	Metadata metadata.Record
	Options  capabilities.Options
}

// A Recorder provides a fake fetcher and a fake reader that record their
// calls. The fetcher writes an empty file named after each URL's base name
// into its output directory; the reader returns a one-point timeseries. Either
// can be made to fail by setting FetchErr or ReadErr.
type Recorder struct {
	mu         sync.Mutex
	FetchCalls []FetchCall
	ReadCalls  []ReadCall
	FetchErr   error
	ReadErr    error
}

// registers the recorder's fetcher and reader under FetcherName and ReaderName
func (r *Recorder) Register(registry *capabilities.Registry) error {
	if err := registry.RegisterFetcher(FetcherName, r.Fetch); err != nil {
		return err
	}
	return registry.RegisterReader(ReaderName, r.Read)
}

// records the call and writes an empty file named the way the URL fetcher
// names its downloads
func (r *Recorder) Fetch(rawURL, outDir string) error {
	r.mu.Lock()
	r.FetchCalls = append(r.FetchCalls, FetchCall{URL: rawURL, OutDir: outDir})
	err := r.FetchErr
	r.mu.Unlock()
	if err != nil {
		return err
	}
	name := path.Base(rawURL)
	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
	}
	return os.WriteFile(filepath.Join(outDir, name), []byte{}, 0644)
}

func (r *Recorder) Read(inputDir string, md metadata.Record,
	options capabilities.Options) (data.Data, error) {
	r.mu.Lock()
	r.ReadCalls = append(r.ReadCalls, ReadCall{InputDir: inputDir, Metadata: md, Options: options})
	err := r.ReadErr
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return data.NewTimeSeries([]data.Time{{Year: 2000}}, []float64{0.5}, md)
}

// returns a HadCRUT5 collection document with a monthly and an annual
// timeseries, both fetched and read with the recorder's capabilities
func HadCRUT5Document() metadata.Record {
	return metadata.Record{
		"name":     "HadCRUT5",
		"version":  "5.0.2.0",
		"variable": "tas",
		"type":     "timeseries",
		"fetcher":  FetcherName,
		"reader":   ReaderName,
		"datasets": []any{
			map[string]any{
				"url":             []any{"https://example.com/hadcrut5/HadCRUT.5.0.2.0.analysis.summary_series.global.monthly.csv"},
				"time_resolution": "monthly",
				"display_name":    "HadCRUT5 monthly",
			},
			map[string]any{
				"url":             []any{"https://example.com/hadcrut5/HadCRUT.5.0.2.0.analysis.summary_series.global.annual.csv"},
				"time_resolution": "annual",
				"display_name":    "HadCRUT5 annual",
			},
		},
	}
}

// returns a gridded collection document with the given name and variable
// whose single dataset has two URLs
func GriddedDocument(name, variable string) metadata.Record {
	return metadata.Record{
		"name":     name,
		"version":  "1",
		"datasets": []any{
			map[string]any{
				"url": []any{
					fmt.Sprintf("https://example.com/%s/a.nc", name),
					fmt.Sprintf("https://example.com/%s/b.nc", name),
				},
				"type":            "gridded",
				"variable":        variable,
				"time_resolution": "monthly",
				"fetcher":         FetcherName,
				"reader":          ReaderName,
			},
		},
	}
}

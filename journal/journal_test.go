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

package journal

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climind/climind/capabilities"
	"github.com/climind/climind/climtest"
)

// temporary testing directory
var TESTING_DIR string

// opens a fresh journal for a single test
func openJournal(t *testing.T) *Journal {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	require.Nil(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenAndClose(t *testing.T) {
	assert := assert.New(t)
	j, err := Open(filepath.Join(TESTING_DIR, "open.db"))
	assert.Nil(err)
	assert.Nil(j.Close())
	assert.Nil(j.Close())

	_, err = j.Record(Record{})
	var notOpen *NotOpenError
	assert.True(errors.As(err, &notOpen))
	_, err = j.Records(Filter{})
	assert.True(errors.As(err, &notOpen))

	_, err = Open(filepath.Join(TESTING_DIR, "missing", "dir", "open.db"))
	var cantOpen *CantOpenError
	assert.True(errors.As(err, &cantOpen))
}

func TestRecordSuccessfulFetch(t *testing.T) {
	assert := assert.New(t)
	j := openJournal(t)

	start := time.Date(2024, 11, 19, 16, 37, 21, 0, time.UTC)
	record, err := j.Record(Record{
		Collection: "HadCRUT5",
		URL:        "https://example.com/hadcrut5/monthly.csv",
		Fetcher:    "standard_url",
		StartTime:  start,
		StopTime:   start.Add(3 * time.Second),
		Status:     Succeeded,
	})
	assert.Nil(err)
	assert.NotEqual(uuid.Nil, record.Id)

	records, err := j.Records(Filter{})
	assert.Nil(err)
	require.Len(t, records, 1)
	assert.Equal(record, records[0])
}

func TestRecordFailedFetch(t *testing.T) {
	assert := assert.New(t)
	j := openJournal(t)

	id := uuid.New()
	start := time.Date(2024, 11, 19, 16, 37, 21, 0, time.UTC)
	_, err := j.Record(Record{
		Id:         id,
		Collection: "GISTEMP",
		URL:        "https://example.com/gistemp.csv",
		Fetcher:    "standard_url",
		StartTime:  start,
		StopTime:   start.Add(time.Second),
		Status:     Failed,
		Message:    "Service Unavailable",
	})
	assert.Nil(err)

	records, err := j.Records(Filter{Status: Failed})
	assert.Nil(err)
	require.Len(t, records, 1)
	assert.Equal(id, records[0].Id)
	assert.Equal("Service Unavailable", records[0].Message)

	// the same ID can't be stored twice
	_, err = j.Record(records[0])
	var newRecordErr *NewRecordError
	assert.True(errors.As(err, &newRecordErr))
}

func TestFilterRecords(t *testing.T) {
	assert := assert.New(t)
	j := openJournal(t)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range []string{"HadCRUT5", "GISTEMP", "HadCRUT5"} {
		status := Succeeded
		if i == 1 {
			status = Failed
		}
		_, err := j.Record(Record{
			Collection: c,
			URL:        "https://example.com/data.csv",
			Fetcher:    "standard_url",
			StartTime:  start.Add(time.Duration(i) * time.Hour),
			StopTime:   start.Add(time.Duration(i)*time.Hour + time.Minute),
			Status:     status,
		})
		require.Nil(t, err)
	}

	records, err := j.Records(Filter{Collection: "HadCRUT5"})
	assert.Nil(err)
	assert.Len(records, 2)
	assert.True(records[0].StartTime.Before(records[1].StartTime))

	records, err = j.Records(Filter{Since: start.Add(30 * time.Minute)})
	assert.Nil(err)
	assert.Len(records, 2)

	records, err = j.Records(Filter{Until: start.Add(90 * time.Minute), Status: Succeeded})
	assert.Nil(err)
	assert.Len(records, 1)

	records, err = j.Records(Filter{Fetcher: "local_copy"})
	assert.Nil(err)
	assert.Len(records, 0)
}

func TestWrapRecordsFetches(t *testing.T) {
	assert := assert.New(t)
	j := openJournal(t)

	registry := capabilities.NewRegistry()
	recorder := &climtest.Recorder{}
	require.Nil(t, recorder.Register(registry))
	registry.UseFetchMiddleware(j.Middleware())

	fetch, err := registry.Fetcher(climtest.FetcherName)
	require.Nil(t, err)
	outDir := filepath.Join(TESTING_DIR, "HadCRUT5")
	require.Nil(t, os.MkdirAll(outDir, 0755))
	assert.Nil(fetch("https://example.com/hadcrut5/monthly.csv", outDir))

	recorder.FetchErr = errors.New("Service Unavailable")
	err = fetch("https://example.com/hadcrut5/annual.csv", outDir)
	assert.Equal(recorder.FetchErr, err)

	records, err := j.Records(Filter{Collection: "HadCRUT5"})
	assert.Nil(err)
	require.Len(t, records, 2)
	assert.Equal(climtest.FetcherName, records[0].Fetcher)
	assert.Equal(Succeeded, records[0].Status)
	assert.Equal(Failed, records[1].Status)
	assert.Equal("Service Unavailable", records[1].Message)
	assert.False(records[1].StopTime.Before(records[1].StartTime))
}

// This runs setup, runs all tests, and does breakdown.
func TestMain(m *testing.M) {
	setup()
	status := m.Run()
	breakdown()
	os.Exit(status)
}

// this function gets called at the beginning of a test session
func setup() {
	climtest.EnableDebugLogging()

	var err error
	TESTING_DIR, err = os.MkdirTemp(os.TempDir(), "climind-journal-tests-")
	if err != nil {
		log.Panicf("Couldn't create testing directory: %s", err)
	}
}

// this function gets called after all tests have been run
func breakdown() {
	if TESTING_DIR != "" {
		log.Printf("Deleting testing directory %s...\n", TESTING_DIR)
		os.RemoveAll(TESTING_DIR)
	}
}

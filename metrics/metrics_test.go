package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climind/climind/capabilities"
	"github.com/climind/climind/climtest"
	"github.com/climind/climind/metadata"
)

func instrumentedRegistry(t *testing.T) (*capabilities.Registry, *climtest.Recorder, *Metrics) {
	registry := capabilities.NewRegistry()
	recorder := &climtest.Recorder{}
	require.Nil(t, recorder.Register(registry))
	return registry, recorder, Instrument(registry)
}

func TestFetchesAreCounted(t *testing.T) {
	assert := assert.New(t)
	registry, recorder, m := instrumentedRegistry(t)

	fetch, err := registry.Fetcher(climtest.FetcherName)
	require.Nil(t, err)
	dir := t.TempDir()
	assert.Nil(fetch("https://example.com/a.csv", dir))
	assert.Nil(fetch("https://example.com/b.csv", dir))
	recorder.FetchErr = errors.New("boom")
	assert.Equal(recorder.FetchErr, fetch("https://example.com/c.csv", dir))

	assert.Equal(2.0, testutil.ToFloat64(
		m.FetchesTotal.WithLabelValues(climtest.FetcherName, StatusSucceeded)))
	assert.Equal(1.0, testutil.ToFloat64(
		m.FetchesTotal.WithLabelValues(climtest.FetcherName, StatusFailed)))
	assert.Equal(1, testutil.CollectAndCount(m.FetchDuration))
}

func TestReadsAreCounted(t *testing.T) {
	assert := assert.New(t)
	registry, recorder, m := instrumentedRegistry(t)

	read, err := registry.Reader(climtest.ReaderName)
	require.Nil(t, err)
	md := metadata.Record{"name": "HadCRUT5"}
	_, err = read(t.TempDir(), md, nil)
	assert.Nil(err)
	recorder.ReadErr = errors.New("boom")
	_, err = read(t.TempDir(), md, nil)
	assert.Equal(recorder.ReadErr, err)

	assert.Equal(1.0, testutil.ToFloat64(
		m.ReadsTotal.WithLabelValues(climtest.ReaderName, StatusSucceeded)))
	assert.Equal(1.0, testutil.ToFloat64(
		m.ReadsTotal.WithLabelValues(climtest.ReaderName, StatusFailed)))
}

func TestHandlerServesMetrics(t *testing.T) {
	assert := assert.New(t)
	m := New()
	m.ObserveSelection()
	m.ObserveSelection()
	assert.Equal(2.0, testutil.ToFloat64(m.SelectionsTotal))

	server := httptest.NewServer(m.Handler())
	defer server.Close()
	resp, err := server.Client().Get(server.URL)
	require.Nil(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.Nil(t, err)
	assert.True(strings.Contains(string(body), "climind_selections_total 2"))
}

func TestMain(m *testing.M) {
	climtest.EnableDebugLogging()
	os.Exit(m.Run())
}

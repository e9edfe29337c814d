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
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/climind/climind/capabilities"
)

// This is the fetch journal, which logs every attempt to fetch a dataset file.
// The journal is a single SQLite table of fetch records.

const (
	Succeeded = "succeeded"
	Failed    = "failed"
)

// a record storing all information relevant to a single fetch
type Record struct {
	// UUID associated with the fetch
	Id uuid.UUID `json:"id"`
	// the collection whose directory received the file
	Collection string `json:"collection"`
	// the fetched URL and the name of the fetcher that handled it
	URL     string `json:"url"`
	Fetcher string `json:"fetcher"`
	// times at which the fetch started and stopped
	StartTime time.Time `json:"start_time"`
	StopTime  time.Time `json:"stop_time"`
	// status of the fetch (Succeeded or Failed)
	Status string `json:"status"`
	// the error message for a failed fetch
	Message string `json:"message,omitempty"`
}

// criteria for selecting records from the journal; zero-valued fields match
// everything
type Filter struct {
	Collection string
	Fetcher    string
	Status     string
	Since      time.Time
	Until      time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS fetches (
	id TEXT PRIMARY KEY,
	collection TEXT NOT NULL,
	url TEXT NOT NULL,
	fetcher TEXT NOT NULL,
	start_time INTEGER NOT NULL,
	stop_time INTEGER NOT NULL,
	status TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS fetches_start_time ON fetches (start_time);
`

var columns = []string{"id", "collection", "url", "fetcher", "start_time",
	"stop_time", "status", "message"}

// A Journal is a handle to the SQLite database holding fetch records. It is
// safe for concurrent use.
type Journal struct {
	mu   sync.Mutex
	conn *sqlite.Conn
}

// opens the journal database at the given path, creating it if necessary
func Open(path string) (*Journal, error) {
	conn, err := sqlite.OpenConn(path)
	if err != nil {
		return nil, &CantOpenError{Path: path, Message: err.Error()}
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, &CantOpenError{Path: path, Message: err.Error()}
	}
	slog.Debug(fmt.Sprintf("Opened fetch journal at %s", path))
	return &Journal{conn: conn}, nil
}

// closes the journal; further requests fail with NotOpenError
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.conn == nil {
		return nil
	}
	err := j.conn.Close()
	j.conn = nil
	return err
}

// stores the given record, assigning it a new ID if it has none, and returns
// the stored record
func (j *Journal) Record(record Record) (Record, error) {
	if record.Id == uuid.Nil {
		record.Id = uuid.New()
	}
	query, args, err := sq.Insert("fetches").Columns(columns...).
		Values(record.Id.String(), record.Collection, record.URL, record.Fetcher,
			record.StartTime.UnixNano(), record.StopTime.UnixNano(),
			record.Status, record.Message).
		ToSql()
	if err != nil {
		return record, &NewRecordError{Id: record.Id.String(), Message: err.Error()}
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.conn == nil {
		return record, &NotOpenError{}
	}
	err = sqlitex.Execute(j.conn, query, &sqlitex.ExecOptions{Args: args})
	if err != nil {
		return record, &NewRecordError{Id: record.Id.String(), Message: err.Error()}
	}
	return record, nil
}

// returns the records matching the given filter, ordered by start time
func (j *Journal) Records(filter Filter) ([]Record, error) {
	sel := sq.Select(columns...).From("fetches").OrderBy("start_time", "id")
	eq := sq.Eq{}
	if filter.Collection != "" {
		eq["collection"] = filter.Collection
	}
	if filter.Fetcher != "" {
		eq["fetcher"] = filter.Fetcher
	}
	if filter.Status != "" {
		eq["status"] = filter.Status
	}
	if len(eq) > 0 {
		sel = sel.Where(eq)
	}
	if !filter.Since.IsZero() {
		sel = sel.Where(sq.GtOrEq{"start_time": filter.Since.UnixNano()})
	}
	if !filter.Until.IsZero() {
		sel = sel.Where(sq.LtOrEq{"start_time": filter.Until.UnixNano()})
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.conn == nil {
		return nil, &NotOpenError{}
	}
	records := make([]Record, 0)
	err = sqlitex.Execute(j.conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			id, err := uuid.Parse(stmt.ColumnText(0))
			if err != nil {
				return &InvalidRecordError{Id: stmt.ColumnText(0), Message: err.Error()}
			}
			records = append(records, Record{
				Id:         id,
				Collection: stmt.ColumnText(1),
				URL:        stmt.ColumnText(2),
				Fetcher:    stmt.ColumnText(3),
				StartTime:  time.Unix(0, stmt.ColumnInt64(4)).UTC(),
				StopTime:   time.Unix(0, stmt.ColumnInt64(5)).UTC(),
				Status:     stmt.ColumnText(6),
				Message:    stmt.ColumnText(7),
			})
			return nil
		},
	})
	return records, err
}

// Returns a fetch function that calls fetch and records the attempt in the
// journal under the fetcher name. The collection is taken from the name of
// the output directory. The fetch's error is returned unchanged; a failure to
// write the journal is only logged.
func Wrap(j *Journal, name string, fetch capabilities.FetchFunc) capabilities.FetchFunc {
	return func(url, outDir string) error {
		record := Record{
			Collection: filepath.Base(outDir),
			URL:        url,
			Fetcher:    name,
			StartTime:  time.Now().UTC(),
			Status:     Succeeded,
		}
		err := fetch(url, outDir)
		record.StopTime = time.Now().UTC()
		if err != nil {
			record.Status = Failed
			record.Message = err.Error()
		}
		if _, jerr := j.Record(record); jerr != nil {
			slog.Error(fmt.Sprintf("Couldn't record fetch of %s: %s", url, jerr.Error()))
		}
		return err
	}
}

// returns middleware that records every fetch made through a registry
func (j *Journal) Middleware() capabilities.FetchMiddleware {
	return func(name string, next capabilities.FetchFunc) capabilities.FetchFunc {
		return Wrap(j, name, next)
	}
}

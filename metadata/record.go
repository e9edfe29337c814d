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
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"sort"
)

// keys every dataset-level record must carry
const (
	URLKey     = "url"
	TypeKey    = "type"
	ReaderKey  = "reader"
	FetcherKey = "fetcher"
	NameKey    = "name"
	VersionKey = "version"

	// the key holding per-dataset entries in a collection document
	DatasetsKey = "datasets"
)

// dataset types
const (
	TimeSeriesType = "timeseries"
	GriddedType    = "gridded"
)

// A Record maps attribute names to values describing a dataset or a
// collection of datasets. Values are scalars (strings, numbers, booleans) or
// lists of scalars.
type Record map[string]any

// returns a deep copy of the record, so that the copy can be modified without
// affecting the receiver
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case []any:
		c := make([]any, len(val))
		for i, e := range val {
			c[i] = cloneValue(e)
		}
		return c
	case []string:
		return slices.Clone(val)
	case []float64:
		return slices.Clone(val)
	case []int:
		return slices.Clone(val)
	case map[string]any:
		return Record(val).Clone()
	case Record:
		return val.Clone()
	default:
		return v
	}
}

// returns a copy of the value for the given key and true if the key is present,
// or nil and false if not
func (r Record) Get(key string) (any, bool) {
	v, found := r[key]
	if !found {
		return nil, false
	}
	return cloneValue(v), true
}

// returns the string value for the given key, or an empty string if the key is
// absent or its value isn't a string
func (r Record) GetString(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// returns the value for the given key as a list of strings. A scalar string
// becomes a list of length 1. Non-string elements are formatted with %v.
func (r Record) GetStrings(key string) []string {
	switch val := r[key].(type) {
	case nil:
		return nil
	case string:
		return []string{val}
	case []string:
		return slices.Clone(val)
	case []any:
		s := make([]string, len(val))
		for i, e := range val {
			if str, ok := e.(string); ok {
				s[i] = str
			} else {
				s[i] = fmt.Sprintf("%v", e)
			}
		}
		return s
	default:
		return []string{fmt.Sprintf("%v", val)}
	}
}

// returns the record's keys in sorted order
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Returns true if the record satisfies every criterion. For each key in
// criteria that is also present in the record:
//   - a list criterion matches if any of its elements equals the record's value
//   - any other criterion must equal the record's value
//
// Keys absent from the record are ignored, and an empty set of criteria
// always matches.
func (r Record) Matches(criteria Record) bool {
	for key, criterion := range criteria {
		value, found := r[key]
		if !found {
			continue
		}
		if !matchValue(value, criterion) {
			return false
		}
	}
	return true
}

func matchValue(value, criterion any) bool {
	if allowed, isList := asList(criterion); isList {
		for _, c := range allowed {
			if Equal(value, c) {
				return true
			}
		}
		return false
	}
	return Equal(value, criterion)
}

// Returns true if the two values are equal. Numbers compare by value regardless
// of their Go type (so an int decoded from YAML equals a float64 decoded from
// JSON), and lists compare element by element.
func Equal(a, b any) bool {
	if fa, ok := asNumber(a); ok {
		fb, ok := asNumber(b)
		return ok && fa == fb
	}
	if la, ok := asList(a); ok {
		lb, ok := asList(b)
		if !ok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !Equal(la[i], lb[i]) {
				return false
			}
		}
		return true
	}
	if ma, ok := asRecord(a); ok {
		mb, ok := asRecord(b)
		if !ok || len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, found := mb[k]
			if !found || !Equal(va, vb) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		list := make([]any, len(l))
		for i, s := range l {
			list[i] = s
		}
		return list, true
	case []float64:
		list := make([]any, len(l))
		for i, f := range l {
			list[i] = f
		}
		return list, true
	case []int:
		list := make([]any, len(l))
		for i, n := range l {
			list[i] = n
		}
		return list, true
	}
	return nil, false
}

// converts a value decoded from JSON or YAML into a Record, if possible
func AsRecord(v any) (Record, bool) {
	return asRecord(v)
}

func asRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return Record(m), true
	case map[any]any: // older YAML decoders
		r := make(Record, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			r[key] = val
		}
		return r, true
	}
	return nil, false
}

// Merges global (collection-level) and local (dataset-level) attributes into
// a new record. Local values take precedence.
func Merge(global, local Record) Record {
	merged := make(Record, len(global)+len(local))
	for k, v := range global {
		merged[k] = cloneValue(v)
	}
	for k, v := range local {
		merged[k] = cloneValue(v)
	}
	return merged
}

// Returns a copy of local without the keys whose values duplicate those in
// global. A local value that differs from the global one is kept, since it
// overrides the global value when the two are merged again.
func Strip(local, global Record) Record {
	stripped := make(Record, len(local))
	for k, v := range local {
		if gv, found := global[k]; found && Equal(v, gv) {
			continue
		}
		stripped[k] = cloneValue(v)
	}
	return stripped
}

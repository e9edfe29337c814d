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
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// URLs identifying the embedded schemas (these match the schemas' $id fields)
const (
	DatasetSchemaURL    = "https://github.com/climind/climind/schemas/dataset_schema.json"
	CollectionSchemaURL = "https://github.com/climind/climind/schemas/collection_schema.json"
)

// A Validator checks dataset records and whole collection documents against
// the dataset and collection schemas. A Validator holds no mutable state and
// may be shared.
type Validator struct {
	dataset, collection *jsonschema.Schema
}

// creates a Validator from the embedded schema documents
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	for url, file := range map[string]string{
		DatasetSchemaURL:    "schemas/dataset_schema.json",
		CollectionSchemaURL: "schemas/collection_schema.json",
	} {
		data, err := schemaFiles.ReadFile(file)
		if err != nil {
			return nil, err
		}
		if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
			return nil, err
		}
	}
	dataset, err := compiler.Compile(DatasetSchemaURL)
	if err != nil {
		return nil, err
	}
	collection, err := compiler.Compile(CollectionSchemaURL)
	if err != nil {
		return nil, err
	}
	return &Validator{dataset: dataset, collection: collection}, nil
}

var defaultValidator struct {
	once      sync.Once
	validator *Validator
	err       error
}

// returns a shared Validator built from the embedded schemas
func DefaultValidator() (*Validator, error) {
	defaultValidator.once.Do(func() {
		defaultValidator.validator, defaultValidator.err = NewValidator()
	})
	return defaultValidator.validator, defaultValidator.err
}

// checks a single dataset record, returning a *SchemaError if the record is
// missing required keys or has values of the wrong type
func (v *Validator) ValidateDataset(record Record) error {
	return validate(v.dataset, "dataset", record)
}

// checks a collection document (global attributes plus a "datasets" list of
// entries), returning a *SchemaError if it is invalid
func (v *Validator) ValidateDocument(document Record) error {
	return validate(v.collection, "collection", document)
}

func validate(schema *jsonschema.Schema, schemaName string, record Record) error {
	// the validator works on decoded JSON, so we round-trip values that may
	// have come from YAML or been built in memory
	data, err := json.Marshal(record)
	if err != nil {
		return &SchemaError{
			Schema:   schemaName,
			Messages: []string{err.Error()},
		}
	}
	err = schema.Validate(bytes.NewReader(data))
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return newSchemaError(schemaName, validationErr)
	}
	return &SchemaError{
		Schema:   schemaName,
		Messages: []string{err.Error()},
	}
}

var quotedName = regexp.MustCompile(`"([^"]+)"`)

// flattens a tree of validation errors into the keys and messages at its leaves
func newSchemaError(schemaName string, validationErr *jsonschema.ValidationError) *SchemaError {
	e := &SchemaError{Schema: schemaName}
	seen := make(map[string]bool)
	addKey := func(key string) {
		if key != "" && !seen[key] {
			seen[key] = true
			e.Keys = append(e.Keys, key)
		}
	}
	var walk func(ve *jsonschema.ValidationError)
	walk = func(ve *jsonschema.ValidationError) {
		if len(ve.Causes) > 0 {
			for _, cause := range ve.Causes {
				walk(cause)
			}
			return
		}
		e.Messages = append(e.Messages, ve.Message)
		prefix := instanceKey(ve.InstancePtr)
		if strings.HasPrefix(ve.Message, "missing propert") {
			for _, match := range quotedName.FindAllStringSubmatch(ve.Message, -1) {
				if prefix == "" {
					addKey(match[1])
				} else {
					addKey(prefix + "/" + match[1])
				}
			}
		} else {
			addKey(prefix)
		}
	}
	walk(validationErr)
	return e
}

// converts a JSON pointer ("#/datasets/0/type") into a key path ("datasets/0/type")
func instanceKey(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	return strings.TrimPrefix(ptr, "/")
}

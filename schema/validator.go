// Package recordschema validates raw-record batches supplied out of band
// (the import command) before they enter the pipeline. Unknown keys are
// rejected at this boundary instead of being carried through.
package recordschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"horse.fit/lexwatch/internal/eurlex"
)

//go:embed raw_record.schema.json
var rawRecordSchemaJSON string

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateRawRecords checks a JSON batch against the raw-record schema
// and decodes it. The payload must be a JSON array of records; anything
// else, including records with unknown keys, is an error.
func ValidateRawRecords(payload json.RawMessage) ([]eurlex.RawRecord, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode batch JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var records []eurlex.RawRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compiledSchemaErr = jsonschema.CompileString("raw_record.schema.json", rawRecordSchemaJSON)
	})
	return compiledSchema, compiledSchemaErr
}

// decodeStrictJSON decodes exactly one JSON value, rejecting trailing
// content.
func decodeStrictJSON(payload json.RawMessage) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(new(any)); err != io.EOF {
		return nil, fmt.Errorf("payload contains trailing content")
	}
	return value, nil
}

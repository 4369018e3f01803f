package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

// batchRecord is a record and its position in the batch array.
type batchRecord struct {
	Position int
	Record   domain.RawRecord
}

// parseBatch extracts the records of one source batch.
//
// A top-level array is used as-is. For a top-level object the first
// array-valued entry, in document order, is used. Any other shape yields
// zero records. Array elements that are not objects are counted as skipped.
// Numbers are kept as json.Number.
func parseBatch(data []byte) ([]batchRecord, int, error) {
	if !json.Valid(data) {
		return nil, 0, fmt.Errorf("%w: invalid JSON", domain.ErrMalformedSourceBatch)
	}

	items, err := batchItems(data)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrMalformedSourceBatch, err)
	}

	records := make([]batchRecord, 0, len(items))
	skipped := 0
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			skipped++
			continue
		}
		records = append(records, batchRecord{Position: i, Record: domain.RawRecord(obj)})
	}
	return records, skipped, nil
}

func batchItems(data []byte) ([]any, error) {
	dec := newNumberDecoder(data)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch tok {
	case json.Delim('['):
		var items []any
		if err := newNumberDecoder(data).Decode(&items); err != nil {
			return nil, err
		}
		return items, nil
	case json.Delim('{'):
		return firstArrayEntry(dec)
	default:
		return nil, nil
	}
}

// firstArrayEntry walks the members of an object whose opening brace has
// already been consumed and decodes the first array-valued member.
func firstArrayEntry(dec *json.Decoder) ([]any, error) {
	for dec.More() {
		if _, err := dec.Token(); err != nil { // key
			return nil, err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		trimmed := bytes.TrimLeft(raw, " \t\r\n")
		if len(trimmed) == 0 || trimmed[0] != '[' {
			continue
		}
		var items []any
		if err := newNumberDecoder(trimmed).Decode(&items); err != nil {
			return nil, err
		}
		return items, nil
	}
	return nil, nil
}

func newNumberDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec
}

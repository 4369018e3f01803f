package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

const unknownValue = "Unknown"

// Normalise converts one raw record into the text that is embedded and the
// string metadata stored alongside it.
//
// Records of a known category render as "<Label>: <name> with ID <id>".
// Records of any other category render as canonical JSON of the whole
// record, so the text is stable across runs.
//
// Normalise never fails: missing fields render as "Unknown" in the text and
// as empty strings in metadata.
func Normalise(record domain.RawRecord, category domain.Category, sourceBatch string) (string, map[string]string) {
	return embeddingText(record, category), recordMetadata(record, category, sourceBatch)
}

func embeddingText(record domain.RawRecord, category domain.Category) string {
	label := category.Label()
	if label == "" {
		return canonicalJSON(map[string]any(record))
	}
	return fmt.Sprintf("%s: %s with ID %s",
		label,
		fieldOr(record, domain.RecordFieldName, unknownValue),
		fieldOr(record, domain.RecordFieldID, unknownValue),
	)
}

func recordMetadata(record domain.RawRecord, category domain.Category, sourceBatch string) map[string]string {
	metadata := make(map[string]string, len(record)+4)
	metadata[domain.MetadataCategory] = category.String()
	metadata[domain.MetadataSourceBatch] = sourceBatch
	metadata[domain.MetadataRecordID] = fieldOr(record, domain.RecordFieldID, "")
	metadata[domain.MetadataRecordName] = fieldOr(record, domain.RecordFieldName, "")

	for key, value := range record {
		if key == domain.RecordFieldID || key == domain.RecordFieldName {
			continue
		}
		metadata[domain.MetadataFieldPrefix+key] = stringify(value)
	}
	return metadata
}

// recordID returns the raw id field as a string and whether it was present.
func recordID(record domain.RawRecord) (string, bool) {
	v, ok := record[domain.RecordFieldID]
	if !ok || v == nil {
		return "", false
	}
	return stringify(v), true
}

func fieldOr(record domain.RawRecord, key, fallback string) string {
	v, ok := record[key]
	if !ok || v == nil {
		return fallback
	}
	return stringify(v)
}

// stringify coerces a decoded JSON value to its metadata string form.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return canonicalJSON(val)
	}
}

// canonicalJSON renders v as compact JSON with sorted object keys.
// encoding/json already sorts map keys; HTML escaping is disabled so the
// text stays readable for embedding.
func canonicalJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

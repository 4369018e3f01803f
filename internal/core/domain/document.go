package domain

import "time"

// Reserved metadata keys. Every other raw field is stored under
// MetadataFieldPrefix + field name so it cannot collide with these.
const (
	MetadataCategory    = "category"
	MetadataSourceBatch = "source_batch"
	MetadataRecordID    = "record_id"
	MetadataRecordName  = "record_name"

	// MetadataFieldPrefix namespaces the remaining raw fields.
	MetadataFieldPrefix = "field_"
)

// Document is the unit stored in the vector index.
// It is the canonical representation of one record after normalisation.
// The embedding vector is owned by the index and never exposed here.
type Document struct {
	// ID is stable across repeated ingestion of the same logical record.
	ID string `json:"id"`

	// EmbeddingText is the natural-language rendering used to compute
	// the document embedding.
	EmbeddingText string `json:"content"`

	// Metadata holds string-coerced record fields.
	Metadata map[string]string `json:"metadata"`
}

// Category returns the category recorded in metadata.
func (d Document) Category() string {
	return d.Metadata[MetadataCategory]
}

// RecordName returns the record name recorded in metadata.
func (d Document) RecordName() string {
	return d.Metadata[MetadataRecordName]
}

// QueryResult is a retrieved document and its distance to the query.
// Smaller distance means more similar; distance is never negative.
type QueryResult struct {
	Document Document `json:"document"`
	Distance float64  `json:"distance"`
}

// AnswerMode records which synthesis path produced an answer.
type AnswerMode string

// Available answer modes.
const (
	// AnswerModeGenerated is an answer from the generative backend.
	AnswerModeGenerated AnswerMode = "generated"

	// AnswerModeFallback is a deterministic extractive summary used
	// when no generative backend is configured.
	AnswerModeFallback AnswerMode = "fallback"

	// AnswerModeNoMatch is the fixed answer for an empty retrieval.
	AnswerModeNoMatch AnswerMode = "no_match"

	// AnswerModeBackendError is an error-text answer produced when the
	// generative backend call failed.
	AnswerModeBackendError AnswerMode = "backend_error"
)

// String returns the string representation.
func (m AnswerMode) String() string {
	return string(m)
}

// Answer is the final output of the query pipeline.
type Answer struct {
	// Text is the answer shown to the user.
	Text string

	// SourceDocuments are exactly the results the context was built from,
	// in the order they were retrieved.
	SourceDocuments []QueryResult

	// ModelUsed names the model (or synthesis strategy) that produced Text.
	ModelUsed string

	// GeneratedAt is when the answer was produced.
	GeneratedAt time.Time

	// Mode is the synthesis path taken.
	Mode AnswerMode
}

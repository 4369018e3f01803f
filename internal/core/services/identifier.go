package services

import (
	"crypto/md5" //nolint:gosec // G501: content fingerprint, not a security boundary.
	"encoding/hex"
	"strconv"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

// idHashLength is the number of hex characters of the text digest kept in an id.
const idHashLength = 8

// AssignID returns the document id for a record:
//
//	<category>_<raw id or position>_<first 8 hex chars of md5(embeddingText)>
//
// The position is used only when the record has no id field. Equal inputs
// always produce equal ids, so re-ingestion overwrites instead of duplicating.
// A record whose text changes gets a new id; the old document stays in the
// collection until the next rebuild.
func AssignID(category domain.Category, rawID string, hasRawID bool, index int, embeddingText string) string {
	key := rawID
	if !hasRawID {
		key = strconv.Itoa(index)
	}
	sum := md5.Sum([]byte(embeddingText)) //nolint:gosec // see import
	return category.String() + "_" + key + "_" + hex.EncodeToString(sum[:])[:idHashLength]
}

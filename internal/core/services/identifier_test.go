package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

func TestAssignID_Format(t *testing.T) {
	// md5("Spacecraft: Aryabhata with ID 1") starts with these 8 hex chars.
	id := AssignID(domain.CategorySpacecrafts, "1", true, 0, "Spacecraft: Aryabhata with ID 1")

	assert.Regexp(t, `^spacecrafts_1_[0-9a-f]{8}$`, id)
}

func TestAssignID_KnownDigest(t *testing.T) {
	// md5("") = d41d8cd98f00b204e9800998ecf8427e
	assert.Equal(t, "centres_5_d41d8cd9", AssignID(domain.CategoryCentres, "5", true, 0, ""))
}

func TestAssignID_Deterministic(t *testing.T) {
	a := AssignID(domain.CategoryLaunchers, "2", true, 9, "Launcher: SLV-3 with ID 2")
	b := AssignID(domain.CategoryLaunchers, "2", true, 9, "Launcher: SLV-3 with ID 2")

	assert.Equal(t, a, b)
}

func TestAssignID_UsesPositionWithoutRawID(t *testing.T) {
	id := AssignID(domain.CategoryCentres, "", false, 4, "ISRO Centre: VSSC with ID Unknown")

	assert.Regexp(t, `^centres_4_[0-9a-f]{8}$`, id)
}

func TestAssignID_RawIDIgnoresPosition(t *testing.T) {
	a := AssignID(domain.CategorySpacecrafts, "1", true, 0, "t")
	b := AssignID(domain.CategorySpacecrafts, "1", true, 99, "t")

	assert.Equal(t, a, b)
}

func TestAssignID_TextChangeChangesID(t *testing.T) {
	a := AssignID(domain.CategorySpacecrafts, "1", true, 0, "Spacecraft: Aryabhata with ID 1")
	b := AssignID(domain.CategorySpacecrafts, "1", true, 0, "Spacecraft: Aryabhatta with ID 1")

	assert.NotEqual(t, a, b)
}

func TestAssignID_CategoryChangesID(t *testing.T) {
	a := AssignID(domain.CategorySpacecrafts, "1", true, 0, "same")
	b := AssignID(domain.CategoryLaunchers, "1", true, 0, "same")

	assert.NotEqual(t, a, b)
}

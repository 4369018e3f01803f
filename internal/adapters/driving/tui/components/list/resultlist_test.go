package list

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

func makeResults(n int) []domain.QueryResult {
	results := make([]domain.QueryResult, n)
	for i := range results {
		results[i] = domain.QueryResult{
			Document: domain.Document{
				ID:            fmt.Sprintf("spacecrafts_%d_0000000%d", i, i),
				EmbeddingText: fmt.Sprintf("Spacecraft: Craft-%d with ID %d", i, i),
				Metadata: map[string]string{
					domain.MetadataCategory:   "spacecrafts",
					domain.MetadataRecordName: fmt.Sprintf("Craft-%d", i),
				},
			},
			Distance: float64(i) / 10,
		}
	}
	return results
}

func TestNewResultList(t *testing.T) {
	r := NewResultList(nil)

	require.NotNil(t, r)
	assert.True(t, r.IsEmpty())
	assert.Nil(t, r.SelectedResult())
	assert.Contains(t, r.View(), "No sources")
}

func TestResultList_Navigation(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(makeResults(3))

	r.MoveUp()
	assert.Equal(t, 0, r.Selected())

	r, _ = r.Update(tea.KeyMsg{Type: tea.KeyDown})
	r, _ = r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	r, _ = r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, r.Selected())

	r, _ = r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, r.Selected())
	assert.Equal(t, "Craft-1", r.SelectedResult().Document.RecordName())
}

func TestResultList_SetResultsResetsSelection(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(makeResults(3))
	r.SetSelected(2)

	r.SetResults(makeResults(2))

	assert.Equal(t, 0, r.Selected())
	assert.Equal(t, 2, r.Count())
}

func TestResultList_SetSelectedOutOfRange(t *testing.T) {
	r := NewResultList(nil)
	r.SetResults(makeResults(2))

	r.SetSelected(5)
	r.SetSelected(-1)

	assert.Equal(t, 0, r.Selected())
}

func TestResultList_View(t *testing.T) {
	r := NewResultList(nil)
	r.SetDimensions(100, 20)
	r.SetResults(makeResults(2))

	view := r.View()

	assert.Contains(t, view, "Sources (2)")
	assert.Contains(t, view, "Craft-0")
	assert.Contains(t, view, "0.1000")
	assert.Contains(t, view, "[spacecrafts]")
	assert.Contains(t, view, "Spacecraft: Craft-1 with ID 1")
}

func TestResultList_ViewScrollsToSelection(t *testing.T) {
	r := NewResultList(nil)
	r.SetDimensions(100, 6)
	r.SetResults(makeResults(5))
	r.SetSelected(4)

	view := r.View()

	assert.Contains(t, view, "Craft-4")
	assert.NotContains(t, view, "Craft-0")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Aryabhata", Title(domain.Document{ID: "x", Metadata: map[string]string{domain.MetadataRecordName: "Aryabhata"}}))
	assert.Equal(t, "centres_3_deadbeef", Title(domain.Document{ID: "centres_3_deadbeef"}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate(strings.Repeat("abcdefghij", 2), 10))
	assert.Equal(t, "अंतरिक्...", truncate("अंतरिक्ष अनुसंधान", 10))
}

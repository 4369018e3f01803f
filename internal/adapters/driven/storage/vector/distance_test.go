package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vedika/internal/core/domain"
)

func TestForMetric(t *testing.T) {
	tests := []struct {
		metric  domain.DistanceMetric
		wantErr bool
	}{
		{domain.DistanceL2, false},
		{domain.DistanceCosine, false},
		{"", false},
		{"ip", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			fn, err := ForMetric(tt.metric)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, fn)
		})
	}
}

func TestSquaredL2(t *testing.T) {
	assert.Equal(t, 0.0, SquaredL2([]float32{1, 2}, []float32{1, 2}))
	assert.Equal(t, 25.0, SquaredL2([]float32{0, 0}, []float32{3, 4}))
	assert.True(t, math.IsInf(SquaredL2([]float32{1}, []float32{1, 2}), 1))
}

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0.0, CosineDistance([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 1.0, CosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, 2.0, CosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 1.0, CosineDistance([]float32{0, 0}, []float32{1, 0}))
}

func entry(id string, vec ...float32) Entry {
	return Entry{Document: domain.Document{ID: id}, Embedding: vec}
}

func TestNearest_OrdersByDistanceThenID(t *testing.T) {
	entries := []Entry{
		entry("c", 3, 0),
		entry("b", 1, 0),
		entry("a", 1, 0),
		entry("d", 0, 0),
	}

	results := Nearest([]float32{0, 0}, entries, 4, SquaredL2)

	require.Len(t, results, 4)
	ids := []string{results[0].Document.ID, results[1].Document.ID, results[2].Document.ID, results[3].Document.ID}
	assert.Equal(t, []string{"d", "a", "b", "c"}, ids)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
	}
}

func TestNearest_LimitsToK(t *testing.T) {
	entries := []Entry{entry("a", 1), entry("b", 2), entry("c", 3)}

	assert.Len(t, Nearest([]float32{0}, entries, 2, SquaredL2), 2)
	assert.Len(t, Nearest([]float32{0}, entries, 10, SquaredL2), 3)
}

func TestNearest_Empty(t *testing.T) {
	results := Nearest([]float32{0}, nil, 3, SquaredL2)

	assert.NotNil(t, results)
	assert.Empty(t, results)
}

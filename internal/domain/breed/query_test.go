package breed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindForFeature(t *testing.T) {
	assert.Equal(t, QuerySubstring, KindForFeature(FeatureTemperament))
	assert.Equal(t, QueryRange, KindForFeature(FeatureLifeSpan))
	assert.Equal(t, QueryRange, KindForFeature(FeatureWeightMetric))
	assert.Equal(t, QueryRange, KindForFeature(FeatureWeightImperial))
	assert.Equal(t, QueryExact, KindForFeature(FeatureOrigin))

	// Неизвестный атрибут молча откатывается к точному сравнению.
	assert.Equal(t, QueryExact, KindForFeature("unknown_feature"))
	assert.Equal(t, QueryExact, KindForFeature(""))
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMin float64
		wantMax float64
		wantOK  bool
	}{
		{"plain", "12 - 15", 12, 15, true},
		{"no spaces", "3-7", 3, 7, true},
		{"extra whitespace", "  4.5  -  9.1  ", 4.5, 9.1, true},
		{"empty", "", 0, 0, false},
		{"not a range", "N/A", 0, 0, false},
		{"single number", "12", 0, 0, false},
		{"non-numeric bounds", "low - high", 0, 0, false},
		{"too many parts", "1 - 2 - 3", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max, ok := ParseRange(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantMin, min)
				assert.Equal(t, tt.wantMax, max)
			}
		})
	}
}

func TestFilter_RangeTolerance(t *testing.T) {
	rows := []*Breed{
		{ID: "beng", Name: "Bengal", LifeSpan: "12 - 15"},
	}

	// 11.5 >= 12*0.95 = 11.4, попадает с учётом допуска.
	q := NewAttributeQuery(FeatureLifeSpan, "11.5")
	require.Equal(t, QueryRange, q.Kind)
	assert.Len(t, q.Filter(rows), 1)

	// 10 < 11.4, за пределами допуска.
	q = NewAttributeQuery(FeatureLifeSpan, "10")
	assert.Empty(t, q.Filter(rows))

	// Верхняя граница: 15*1.05 = 15.75.
	q = NewAttributeQuery(FeatureLifeSpan, "15.7")
	assert.Len(t, q.Filter(rows), 1)

	q = NewAttributeQuery(FeatureLifeSpan, "15.8")
	assert.Empty(t, q.Filter(rows))
}

func TestFilter_MalformedRangesSilentlyExcluded(t *testing.T) {
	rows := []*Breed{
		{ID: "a", LifeSpan: ""},
		{ID: "b", LifeSpan: "N/A"},
		{ID: "c", LifeSpan: "12"},
		{ID: "d", LifeSpan: "12 - 15"},
	}

	q := NewAttributeQuery(FeatureLifeSpan, "13")
	filtered := q.Filter(rows)

	require.Len(t, filtered, 1)
	assert.Equal(t, ID("d"), filtered[0].ID)
}

func TestFilter_UnparseableTargetReturnsEmpty(t *testing.T) {
	rows := []*Breed{
		{ID: "a", LifeSpan: "12 - 15"},
	}

	q := NewAttributeQuery(FeatureLifeSpan, "heavy")
	filtered := q.Filter(rows)

	assert.NotNil(t, filtered)
	assert.Empty(t, filtered)
}

func TestFilter_PreservesRelativeOrder(t *testing.T) {
	// Строки приходят упорядоченными по лайкам; фильтр удаляет,
	// но не переставляет.
	rows := []*Breed{
		{ID: "a", WeightMetric: "3 - 5", LikeCount: 9},
		{ID: "b", WeightMetric: "broken", LikeCount: 7},
		{ID: "c", WeightMetric: "4 - 6", LikeCount: 5},
		{ID: "d", WeightMetric: "2 - 4", LikeCount: 1},
	}

	q := NewAttributeQuery(FeatureWeightMetric, "4")
	filtered := q.Filter(rows)

	require.Len(t, filtered, 3)
	assert.Equal(t, ID("a"), filtered[0].ID)
	assert.Equal(t, ID("c"), filtered[1].ID)
	assert.Equal(t, ID("d"), filtered[2].ID)
}

func TestFilter_ExactAndSubstringArePassthrough(t *testing.T) {
	rows := []*Breed{
		{ID: "a", Origin: "Egypt"},
		{ID: "b", Origin: "Russia"},
	}

	exact := NewAttributeQuery(FeatureOrigin, "Egypt")
	assert.Equal(t, rows, exact.Filter(rows))

	sub := NewAttributeQuery(FeatureTemperament, "Friend")
	assert.Equal(t, rows, sub.Filter(rows))
}

func TestFilter_EmptyRows(t *testing.T) {
	q := NewAttributeQuery(FeatureLifeSpan, "12")
	assert.Empty(t, q.Filter(nil))
}

func TestTemperamentContains(t *testing.T) {
	temp := Temperament("Active, Friendly")

	assert.True(t, temp.Contains("Friend"))
	assert.True(t, temp.Contains("friend"))
	assert.False(t, temp.Contains("zzz"))

	assert.Equal(t, []string{"Active", "Friendly"}, temp.Tags())
}

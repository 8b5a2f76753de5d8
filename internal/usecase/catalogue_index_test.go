package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/fragrancefinder/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exampleCatalogue is the three-perfume catalogue used across ranking tests
func exampleCatalogue() []domain.Perfume {
	return []domain.Perfume{
		{Index: 0, Brand: "Maison A", Name: "A", Notes: "rose, jasmine, cedar", MainAccords: "floral, woody"},
		{Index: 1, Brand: "Maison B", Name: "B", Notes: "rose, bergamot, lemon", MainAccords: "floral, citrus"},
		{Index: 2, Brand: "Maison C", Name: "C", Notes: "cedar, musk, amber", MainAccords: "woody, musk"},
	}
}

var accordPool = []string{
	"floral", "woody", "citrus", "musky", "amber", "fresh spicy",
	"aromatic", "leather", "powdery", "sweet", "fruity", "green",
}

var notePool = []string{
	"rose", "jasmine", "cedar", "musk", "amber", "bergamot", "lemon",
	"vanilla", "patchouli", "vetiver", "iris", "oud", "tonka", "pepper",
}

// randomCatalogue builds a deterministic catalogue of n uniquely named perfumes
func randomCatalogue(seed int64, n int) []domain.Perfume {
	rng := rand.New(rand.NewSource(seed))
	pick := func(pool []string, k int) string {
		idx := rng.Perm(len(pool))[:k]
		out := make([]string, k)
		for i, j := range idx {
			out[i] = pool[j]
		}
		return strings.Join(out, ", ")
	}

	perfumes := make([]domain.Perfume, n)
	for i := range perfumes {
		perfumes[i] = domain.Perfume{
			Index:       i,
			Brand:       fmt.Sprintf("Brand %d", i%7),
			Name:        fmt.Sprintf("Perfume %03d", i),
			Notes:       pick(notePool, 1+rng.Intn(5)),
			MainAccords: pick(accordPool, 1+rng.Intn(4)),
		}
	}
	return perfumes
}

func buildTestIndex(t *testing.T, perfumes []domain.Perfume) *CatalogueIndex {
	t.Helper()
	index, err := BuildIndex(context.Background(), perfumes, IndexConfig{Workers: 3})
	require.NoError(t, err)
	return index
}

func TestBuildIndex(t *testing.T) {
	t.Run("rejects empty catalogue", func(t *testing.T) {
		_, err := BuildIndex(context.Background(), nil, IndexConfig{})
		assert.ErrorIs(t, err, domain.ErrCatalogueLoad)
	})

	t.Run("collects sorted unique accords", func(t *testing.T) {
		index := buildTestIndex(t, exampleCatalogue())
		assert.Equal(t, []string{"citrus", "floral", "musk", "woody"}, index.Accords())
		assert.Equal(t, 3, index.Len())
	})

	t.Run("lookup returns the first row with the name", func(t *testing.T) {
		perfumes := exampleCatalogue()
		perfumes = append(perfumes, domain.Perfume{Index: 3, Name: "A", Notes: "oud"})
		index := buildTestIndex(t, perfumes)

		i, ok := index.Lookup("A")
		assert.True(t, ok)
		assert.Equal(t, 0, i)

		_, ok = index.Lookup("a")
		assert.False(t, ok)
	})

	t.Run("reports stats", func(t *testing.T) {
		index := buildTestIndex(t, exampleCatalogue())
		stats := index.Stats()
		assert.Equal(t, 3, stats.Perfumes)
		assert.Equal(t, 4, stats.Accords)
		assert.Equal(t, 7, stats.NoteTerms)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := BuildIndex(ctx, randomCatalogue(1, 50), IndexConfig{Workers: 2})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSimilarityMatrix(t *testing.T) {
	perfumes := randomCatalogue(7, 40)
	perfumes[5].Notes = ""
	index := buildTestIndex(t, perfumes)
	m := index.Similarity()

	require.Equal(t, 40, m.Len())
	for i := 0; i < m.Len(); i++ {
		for j := 0; j < m.Len(); j++ {
			assert.Equal(t, m.At(i, j), m.At(j, i), "matrix must be symmetric at (%d,%d)", i, j)
			assert.GreaterOrEqual(t, m.At(i, j), 0.0)
			assert.LessOrEqual(t, m.At(i, j), 1.0+1e-6)
		}
		if i == 5 {
			assert.Equal(t, 0.0, m.At(i, i), "empty notes have zero similarity to themselves")
		} else {
			assert.InDelta(t, 1.0, m.At(i, i), 1e-6)
		}
	}
}

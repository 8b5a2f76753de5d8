package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/fragrancefinder/backend/internal/domain"
	"github.com/fragrancefinder/backend/internal/infrastructure/catalogue"
	"github.com/fragrancefinder/backend/internal/infrastructure/tfidf"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// IndexConfig tunes how the catalogue index is built
type IndexConfig struct {
	Workers   int
	StopWords []string
}

// CatalogueIndex is the process-wide, read-only ranking state: the catalogue,
// the tokenized accord corpus and the notes similarity matrix. It is built
// once at startup and never mutated, so it is safe for concurrent readers.
type CatalogueIndex struct {
	perfumes     []domain.Perfume
	accords      []string
	byName       map[string]int
	accordCorpus *tfidf.Corpus
	notesModel   *tfidf.Model
	similarity   *SimilarityMatrix
}

// SimilarityMatrix holds the pairwise cosine similarity of every catalogue item.
// Scores are stored as float32.
type SimilarityMatrix struct {
	n      int
	values []float32
}

// Len returns the number of rows
func (m *SimilarityMatrix) Len() int { return m.n }

// At returns the similarity of items i and j
func (m *SimilarityMatrix) At(i, j int) float64 {
	return float64(m.values[i*m.n+j])
}

// BuildIndex vectorizes the catalogue and computes the notes similarity matrix.
func BuildIndex(ctx context.Context, perfumes []domain.Perfume, cfg IndexConfig) (*CatalogueIndex, error) {
	if len(perfumes) == 0 {
		return nil, fmt.Errorf("%w: catalogue is empty", domain.ErrCatalogueLoad)
	}
	start := time.Now()

	notes := make([]string, len(perfumes))
	mainAccords := make([]string, len(perfumes))
	byName := make(map[string]int, len(perfumes))
	for i, p := range perfumes {
		notes[i] = p.Notes
		mainAccords[i] = p.MainAccords
		key := norm.NFC.String(p.Name)
		if _, dup := byName[key]; !dup {
			byName[key] = i
		}
	}

	opts := tfidf.Options{StopWords: cfg.StopWords}
	accordCorpus, err := tfidf.NewCorpus(mainAccords, opts)
	if err != nil {
		return nil, fmt.Errorf("building accord corpus: %w", err)
	}
	notesCorpus, err := tfidf.NewCorpus(notes, opts)
	if err != nil {
		return nil, fmt.Errorf("building notes corpus: %w", err)
	}
	notesModel := notesCorpus.Fit()

	similarity, err := computeSimilarity(ctx, notesModel, cfg.Workers)
	if err != nil {
		return nil, err
	}

	accords := catalogue.UniqueAccords(perfumes)
	log.Printf("[INDEX] Built index: %d perfumes, %d note terms, %d accords in %s",
		len(perfumes), notesModel.Dimension(), len(accords), time.Since(start).Round(time.Millisecond))

	return &CatalogueIndex{
		perfumes:     perfumes,
		accords:      accords,
		byName:       byName,
		accordCorpus: accordCorpus,
		notesModel:   notesModel,
		similarity:   similarity,
	}, nil
}

// computeSimilarity fills the symmetric cosine matrix. Each worker owns row i
// and writes cells (i, j) and (j, i) for j >= i, so no cell is written twice.
func computeSimilarity(ctx context.Context, model *tfidf.Model, workers int) (*SimilarityMatrix, error) {
	if workers <= 0 {
		workers = 4
	}
	n := model.Len()
	m := &SimilarityMatrix{n: n, values: make([]float32, n*n)}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			vi := model.Vector(i)
			for j := i; j < n; j++ {
				s := float32(tfidf.CosineSimilarity(vi, model.Vector(j)))
				m.values[i*n+j] = s
				m.values[j*n+i] = s
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("computing similarity matrix: %w", err)
	}
	return m, nil
}

// Len returns the catalogue size
func (x *CatalogueIndex) Len() int { return len(x.perfumes) }

// Perfume returns catalogue row i
func (x *CatalogueIndex) Perfume(i int) domain.Perfume { return x.perfumes[i] }

// Accords returns every distinct accord, sorted
func (x *CatalogueIndex) Accords() []string { return x.accords }

// Lookup returns the index of the first perfume with exactly this name.
// Both sides are compared in NFC.
func (x *CatalogueIndex) Lookup(name string) (int, bool) {
	i, ok := x.byName[norm.NFC.String(name)]
	return i, ok
}

// HasNotes reports whether perfume i has any usable notes term
func (x *CatalogueIndex) HasNotes(i int) bool {
	return !x.notesModel.Vector(i).IsZero()
}

// Similarity returns the precomputed notes similarity matrix
func (x *CatalogueIndex) Similarity() *SimilarityMatrix { return x.similarity }

// IndexStats summarizes the index for health reporting
type IndexStats struct {
	Perfumes  int `json:"perfumes"`
	Accords   int `json:"accords"`
	NoteTerms int `json:"noteTerms"`
}

// Stats returns the index size figures
func (x *CatalogueIndex) Stats() IndexStats {
	return IndexStats{
		Perfumes:  len(x.perfumes),
		Accords:   len(x.accords),
		NoteTerms: x.notesModel.Dimension(),
	}
}

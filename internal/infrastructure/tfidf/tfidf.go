// Package tfidf implements a TF-IDF vectorizer over a fixed corpus.
//
// Tokenization and weighting follow the common defaults: lower-cased runs of
// two or more word characters, smoothed IDF ln((1+n)/(1+df))+1, raw term
// counts scaled by IDF and L2 normalized per document.
package tfidf

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

// Options configures tokenization
type Options struct {
	StopWords []string
}

// document holds the term counts of one tokenized document
type document struct {
	counts map[string]int
}

// Corpus is a tokenized, immutable set of documents. Fitting never mutates it,
// so one Corpus may be fitted concurrently with different extra documents.
type Corpus struct {
	docs      []document
	df        map[string]int
	stopwords map[string]struct{}
}

// Model is a fitted vectorizer: a vocabulary, its IDF weights and one vector per document
type Model struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
	vectors    []Vector
}

// NewCorpus tokenizes docs once and records document frequencies.
func NewCorpus(docs []string, opts Options) (*Corpus, error) {
	if len(docs) == 0 {
		return nil, errors.New("empty corpus for TF-IDF")
	}

	stop := make(map[string]struct{}, len(opts.StopWords))
	for _, w := range opts.StopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}

	c := &Corpus{
		docs:      make([]document, len(docs)),
		df:        make(map[string]int),
		stopwords: stop,
	}
	for i, text := range docs {
		d := c.analyze(text)
		c.docs[i] = d
		for term := range d.counts {
			c.df[term]++
		}
	}
	return c, nil
}

// Len returns the number of documents in the corpus
func (c *Corpus) Len() int { return len(c.docs) }

// Fit builds the vocabulary and the vectors of the corpus documents.
func (c *Corpus) Fit() *Model {
	return c.fit(nil)
}

// FitWith fits the corpus plus one extra document appended at the end.
// Vocabulary and document frequencies are determined jointly; the extra
// document's vector is Model.Vector(c.Len()).
func (c *Corpus) FitWith(extra string) *Model {
	d := c.analyze(extra)
	return c.fit(&d)
}

func (c *Corpus) fit(extra *document) *Model {
	df := c.df
	n := len(c.docs)
	if extra != nil {
		n++
		df = make(map[string]int, len(c.df)+len(extra.counts))
		for term, count := range c.df {
			df[term] = count
		}
		for term := range extra.counts {
			df[term]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	m := &Model{
		vocabulary: make(map[string]int, len(terms)),
		terms:      terms,
		idf:        make([]float64, len(terms)),
		vectors:    make([]Vector, 0, n),
	}
	N := float64(n)
	for i, term := range terms {
		m.vocabulary[term] = i
		m.idf[i] = math.Log((1+N)/(1+float64(df[term]))) + 1.0
	}

	for _, d := range c.docs {
		m.vectors = append(m.vectors, m.weigh(d))
	}
	if extra != nil {
		m.vectors = append(m.vectors, m.weigh(*extra))
	}
	return m
}

// Len returns the number of fitted document vectors
func (m *Model) Len() int { return len(m.vectors) }

// Dimension returns the vocabulary size
func (m *Model) Dimension() int { return len(m.terms) }

// Vector returns the fitted vector of document i
func (m *Model) Vector(i int) Vector { return m.vectors[i] }

// weigh turns term counts into an L2-normalized TF-IDF vector
func (m *Model) weigh(d document) Vector {
	idx := make([]int, 0, len(d.counts))
	for term := range d.counts {
		if i, ok := m.vocabulary[term]; ok {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return Vector{}
	}
	sort.Ints(idx)

	v := Vector{Indices: idx, Values: make([]float64, len(idx))}
	var norm float64
	for k, i := range idx {
		w := float64(d.counts[m.terms[i]]) * m.idf[i]
		v.Values[k] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for k := range v.Values {
		v.Values[k] /= norm
	}
	return v
}

func (c *Corpus) analyze(text string) document {
	return analyze(text, c.stopwords)
}

func analyze(text string, stop map[string]struct{}) document {
	d := document{counts: make(map[string]int)}
	for _, tok := range Tokenize(text) {
		if _, isStop := stop[tok]; isStop {
			continue
		}
		d.counts[tok]++
	}
	return d
}

// Tokenize lower-cases text and splits it into runs of two or more word characters.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

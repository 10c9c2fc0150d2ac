package termsource

import (
	"context"
	"sync"
)

// StaticResolver resolves against fixed in-memory vocabularies. It backs
// tests and offline runs; live URL/OBO/database resolvers satisfy the same
// contract elsewhere.
type StaticResolver struct {
	mu           sync.RWMutex
	vocabularies map[string]map[string]string // vocabulary -> term -> accession
}

// NewStaticResolver returns an empty resolver.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{vocabularies: make(map[string]map[string]string)}
}

// AddTerm registers a term/accession pair under a vocabulary.
func (r *StaticResolver) AddTerm(vocabulary, term, accession string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	terms, ok := r.vocabularies[vocabulary]
	if !ok {
		terms = make(map[string]string)
		r.vocabularies[vocabulary] = terms
	}
	terms[term] = accession
}

// Resolve fills in the missing half of a term/accession pair. Unknown
// vocabularies and terms fail closed with ErrNotFound.
func (r *StaticResolver) Resolve(_ context.Context, vocabulary, term, accession string) (string, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	terms, ok := r.vocabularies[vocabulary]
	if !ok {
		return "", "", ErrNotFound{Vocabulary: vocabulary}
	}
	if term != "" {
		acc, ok := terms[term]
		if !ok {
			return "", "", ErrNotFound{Vocabulary: vocabulary, Term: term}
		}
		if accession == "" || accession == term {
			accession = acc
		}
		return term, accession, nil
	}
	for t, acc := range terms {
		if acc == accession {
			return t, accession, nil
		}
	}
	return "", "", ErrNotFound{Vocabulary: vocabulary, Accession: accession}
}

// IsValidTerm reports whether the vocabulary defines the term.
func (r *StaticResolver) IsValidTerm(_ context.Context, vocabulary, term string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.vocabularies[vocabulary][term]
	return ok
}

// IsValidAccession reports whether any term in the vocabulary carries the
// accession.
func (r *StaticResolver) IsValidAccession(_ context.Context, vocabulary, accession string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, acc := range r.vocabularies[vocabulary] {
		if acc == accession {
			return true
		}
	}
	return false
}

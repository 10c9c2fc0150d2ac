// Package termsource implements the controlled-vocabulary collaborator side
// of SDRF parsing: the resolver contract the experiment graph is validated
// against, a catalog of declared vocabulary sources, and the walker that
// fills term-source accessions into a parsed experiment in place.
package termsource

import (
	"context"
	"fmt"
)

// Resolver resolves terms and accessions against a named vocabulary.
// Implementations own their caching and must fail closed: an unknown
// vocabulary or term yields an error or false, never an assumed success.
type Resolver interface {
	// Resolve fills in whichever of term/accession is missing given the
	// other and returns both.
	Resolve(ctx context.Context, vocabulary, term, accession string) (string, string, error)
	IsValidTerm(ctx context.Context, vocabulary, term string) bool
	IsValidAccession(ctx context.Context, vocabulary, accession string) bool
}

// ErrNotFound reports a vocabulary, term, or accession the resolver does not
// know.
type ErrNotFound struct {
	Vocabulary string
	Term       string
	Accession  string
}

func (e ErrNotFound) Error() string {
	switch {
	case e.Term != "":
		return fmt.Sprintf("term %q not found in vocabulary %s", e.Term, e.Vocabulary)
	case e.Accession != "":
		return fmt.Sprintf("accession %q not found in vocabulary %s", e.Accession, e.Vocabulary)
	default:
		return fmt.Sprintf("vocabulary %s not found", e.Vocabulary)
	}
}
